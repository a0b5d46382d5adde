package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is a fully resolved entry ready for persistence. Type is
	// never ambiguous at this point and Amount is always positive.
	Transaction struct {
		Type        TransactionType
		Amount      Money
		Description string
		FamilyID    string
		UserID      string
		CategoryID  string // empty when no category of the right type exists
		Notes       string
		Date        time.Time
	}

	// Category belongs either to the shared default set (IsDefault, no
	// FamilyID) or to a single family.
	Category struct {
		ID        string
		Name      string
		Type      TransactionType
		FamilyID  string
		IsDefault bool
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyFamily      = errors.New("empty family id")
	ErrEmptyUser        = errors.New("empty user id")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(tx.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(tx.FamilyID) == "" {
		return ErrEmptyFamily
	}
	if strings.TrimSpace(tx.UserID) == "" {
		return ErrEmptyUser
	}
	return nil
}
