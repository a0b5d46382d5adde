// Package worker exports recorded transactions to the external ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"boascontas/internal/amqp"
	"boascontas/internal/sheets"
	"boascontas/internal/storage"
)

// ExportWorker drains transaction export messages into the ledger.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	ledger    sheets.LedgerWriter
	batchSize int
}

func NewExportWorker(storage *storage.SQLiteRepository, ledger sheets.LedgerWriter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ExportWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single export message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.TransactionExportMessage) error {
	slog.InfoContext(ctx, "Processing export message", "id", msg.TransactionID)
	return w.exportTransaction(ctx, msg.TransactionID)
}

// ProcessPendingExports drains up to one batch of transactions still marked
// pending. This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPendingExports(ctx context.Context) error {
	ids, err := w.storage.GetPendingExportIDs(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending exports: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(ids))

	for _, id := range ids {
		if err := w.exportTransaction(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", id, "error", err)
		}
	}
	return nil
}

// StartupSweep exports anything left pending from before the worker started.
// Useful to recover from missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupSweep(ctx context.Context) error {
	ids, err := w.storage.GetPendingExportIDs(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending exports for startup sweep: %w", err)
	}
	if len(ids) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...", "count", len(ids))

	exported := 0
	failed := 0
	for _, id := range ids {
		if err := w.exportTransaction(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup", "id", id, "error", err)
			failed++
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Startup sweep completed",
		"total", len(ids),
		"exported", exported,
		"errors", failed)

	return nil
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id string) error {
	stored, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		if markErr := w.storage.MarkExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	entry := sheets.LedgerEntry{
		TransactionID: stored.ID,
		Date:          stored.Date,
		Type:          string(stored.Type),
		AmountCents:   stored.AmountCents,
		Description:   stored.Description,
		Category:      stored.CategoryName,
		Notes:         stored.Notes,
	}

	ref, err := w.ledger.AppendEntry(ctx, entry)
	if err != nil {
		if markErr := w.storage.MarkExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkExported(ctx, id); err != nil {
		// The append worked; log and keep going.
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", id,
		"ledger_ref", ref,
		"amount_cents", stored.AmountCents)

	return nil
}
