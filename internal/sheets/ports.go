// Package sheets defines the ledger export port and its entry shape.
package sheets

import "context"

// LedgerEntry is one exported transaction row. Amounts are formatted by
// the writer; the entry carries raw cents.
type LedgerEntry struct {
	TransactionID string
	Date          string // YYYY-MM-DD
	Type          string // income or expense
	AmountCents   int64
	Description   string
	Category      string
	Notes         string
}

// LedgerWriter appends entries to an external ledger.
type LedgerWriter interface {
	AppendEntry(ctx context.Context, entry LedgerEntry) (rowRef string, err error)
}
