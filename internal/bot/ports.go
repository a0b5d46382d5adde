package bot

import (
	"context"
	"errors"

	"boascontas/internal/core"
)

// Sentinel errors for the lookup ports. Anything else coming out of a port
// is treated as an infrastructure failure.
var (
	ErrNotLinked = errors.New("telegram user not linked to an account")
	ErrNoFamily  = errors.New("account has no family")
)

// Ports for the dispatcher's outbound collaborators.
type (
	// IdentityLookup resolves a Telegram user id to an account id.
	// Exact match only; unlinked senders yield ErrNotLinked.
	IdentityLookup interface {
		UserByTelegramID(ctx context.Context, telegramUserID int64) (userID string, err error)
	}

	// FamilyLookup returns the account's owning family, or ErrNoFamily.
	FamilyLookup interface {
		DefaultFamilyID(ctx context.Context, userID string) (familyID string, err error)
	}

	// CategorySource lists the categories visible to a family for a
	// transaction type: shared defaults plus the family's own, ordered by
	// name so the classifier fallback is deterministic.
	CategorySource interface {
		VisibleCategories(ctx context.Context, familyID string, txType core.TransactionType) ([]core.Category, error)
	}

	// TransactionRecorder persists a transaction and returns its id.
	TransactionRecorder interface {
		Record(ctx context.Context, tx core.Transaction) (id string, err error)
	}

	// ReplySender delivers an HTML-formatted reply to a chat. Delivery is
	// fire-and-forget from the dispatcher's perspective.
	ReplySender interface {
		SendMessage(ctx context.Context, chatID int64, html string) error
	}
)
