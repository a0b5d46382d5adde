package bot

import (
	"context"
	"errors"
	"time"

	"boascontas/internal/core"
	applog "boascontas/internal/log"
)

// InboundMessage is the transport-agnostic view of one chat message.
type InboundMessage struct {
	TelegramUserID int64
	Handle         string // username when set, else first name
	ChatID         int64
	Text           string
}

// Outcome is the terminal state reached for one inbound message. Every
// outcome except OutcomeIgnored and OutcomeCommandIgnored sends exactly one
// reply; none of them surfaces an error to the transport.
type Outcome string

const (
	OutcomeIgnored        Outcome = "ignored"
	OutcomeCommandReplied Outcome = "command_replied"
	// OutcomeCommandIgnored is the deliberate silent drop of unrecognized
	// "/" commands. Answering them instead is a one-line change in Handle.
	OutcomeCommandIgnored Outcome = "command_ignored"
	OutcomeUnlinked       Outcome = "unlinked"
	OutcomeFormatError    Outcome = "format_error"
	OutcomeNoFamily       Outcome = "no_family"
	OutcomePersistError   Outcome = "persist_error"
	OutcomeRecorded       Outcome = "recorded"
)

// Dispatcher orchestrates one webhook call: command routing, parsing,
// identity and family lookup, category inference, persistence, and reply
// composition. It holds no mutable state between calls.
type Dispatcher struct {
	identity   IdentityLookup
	families   FamilyLookup
	categories CategorySource
	recorder   TransactionRecorder
	sender     ReplySender
	parser     *Parser
	classifier *Classifier
	logger     *applog.Logger
	now        func() time.Time
}

func NewDispatcher(
	identity IdentityLookup,
	families FamilyLookup,
	categories CategorySource,
	recorder TransactionRecorder,
	sender ReplySender,
	vocab Vocabulary,
	logger *applog.Logger,
) *Dispatcher {
	return &Dispatcher{
		identity:   identity,
		families:   families,
		categories: categories,
		recorder:   recorder,
		sender:     sender,
		parser:     NewParser(vocab),
		classifier: NewClassifier(vocab),
		logger:     logger.WithComponent(applog.ComponentBot),
		now:        time.Now,
	}
}

// Handle runs the message to a terminal outcome. It never returns an error:
// every failure is resolved into a reply (or a logged drop), and the HTTP
// layer acknowledges the webhook with 200 regardless, so the transport has
// no reason to redeliver.
func (d *Dispatcher) Handle(ctx context.Context, msg InboundMessage) Outcome {
	if msg.Text == "" {
		return OutcomeIgnored
	}

	// Commands short-circuit before any transaction parsing.
	if IsCommand(msg.Text) {
		cmd := ParseCommand(msg.Text)
		reply, ok := ReplyFor(cmd)
		if !ok {
			d.logger.DebugContext(ctx, "Unrecognized command dropped",
				applog.FieldChatID, msg.ChatID, applog.FieldCommand, msg.Text)
			return OutcomeCommandIgnored
		}
		d.reply(ctx, msg.ChatID, reply)
		return OutcomeCommandReplied
	}

	userID, err := d.identity.UserByTelegramID(ctx, msg.TelegramUserID)
	if err != nil {
		if errors.Is(err, ErrNotLinked) {
			d.logger.InfoContext(ctx, "Sender not linked",
				applog.FieldTelegramID, msg.TelegramUserID)
			d.reply(ctx, msg.ChatID, msgUnlinked)
			return OutcomeUnlinked
		}
		d.logger.ErrorContext(ctx, "Identity lookup failed",
			applog.FieldTelegramID, msg.TelegramUserID, applog.FieldError, err)
		d.reply(ctx, msg.ChatID, msgPersistError)
		return OutcomePersistError
	}

	parsed, ok := d.parser.Parse(msg.Text)
	if !ok {
		d.reply(ctx, msg.ChatID, msgFormatError)
		return OutcomeFormatError
	}

	familyID, err := d.families.DefaultFamilyID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoFamily) {
			d.logger.InfoContext(ctx, "Sender has no family", applog.FieldUserID, userID)
			d.reply(ctx, msg.ChatID, msgNoFamily)
			return OutcomeNoFamily
		}
		d.logger.ErrorContext(ctx, "Family lookup failed",
			applog.FieldUserID, userID, applog.FieldError, err)
		d.reply(ctx, msg.ChatID, msgPersistError)
		return OutcomePersistError
	}

	// Category inference is best-effort: a transaction without a matching
	// category is still recorded.
	var categoryID, categoryName string
	candidates, err := d.categories.VisibleCategories(ctx, familyID, parsed.Type)
	if err != nil {
		d.logger.WarnContext(ctx, "Category lookup failed, recording without category",
			applog.FieldFamilyID, familyID, applog.FieldError, err)
	} else if cat := d.classifier.Infer(parsed.Description, parsed.Type, candidates); cat != nil {
		categoryID, categoryName = cat.ID, cat.Name
	}

	date := d.now()
	tx := core.Transaction{
		Type:        parsed.Type,
		Amount:      parsed.Amount,
		Description: parsed.Description,
		FamilyID:    familyID,
		UserID:      userID,
		CategoryID:  categoryID,
		Notes:       "Criado via Telegram por @" + msg.Handle,
		Date:        date,
	}
	if err := tx.Validate(); err != nil {
		d.logger.WarnContext(ctx, "Parsed transaction failed validation",
			applog.FieldError, err, applog.FieldDescription, parsed.Description)
		d.reply(ctx, msg.ChatID, msgFormatError)
		return OutcomeFormatError
	}

	txID, err := d.recorder.Record(ctx, tx)
	if err != nil {
		// Detail stays in the log; the user gets a generic retry message.
		d.logger.ErrorContext(ctx, "Transaction persist failed",
			applog.FieldError, err,
			applog.FieldFamilyID, familyID,
			applog.FieldAmountCents, tx.Amount.Cents)
		d.reply(ctx, msg.ChatID, msgPersistError)
		return OutcomePersistError
	}

	d.logger.InfoContext(ctx, "Transaction recorded",
		applog.FieldTxID, txID,
		applog.FieldTxType, string(tx.Type),
		applog.FieldAmountCents, tx.Amount.Cents,
		applog.FieldCategory, categoryName)
	d.reply(ctx, msg.ChatID, confirmationMessage(parsed, categoryName, txID, date))
	return OutcomeRecorded
}

// reply sends one outbound message. Send failures are logged and swallowed:
// they must not change the terminal outcome or the webhook acknowledgment.
func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string) {
	if err := d.sender.SendMessage(ctx, chatID, text); err != nil {
		d.logger.ErrorContext(ctx, "Reply send failed",
			applog.FieldChatID, chatID, applog.FieldError, err)
	}
}
