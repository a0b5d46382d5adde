package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"boascontas/internal/amqp"
	"boascontas/internal/bot"
	"boascontas/internal/cache"
	"boascontas/internal/core"
	"boascontas/internal/storage"
)

// TransactionService front-ends the repository for the dispatcher: it
// persists transactions, queues their ledger export, and caches the
// per-family category sets that every message would otherwise re-query.
type TransactionService struct {
	storage       *storage.SQLiteRepository
	amqpClient    *amqp.Client
	categoryCache *cache.LRUCache[[]core.Category]
}

var (
	_ bot.TransactionRecorder = (*TransactionService)(nil)
	_ bot.CategorySource      = (*TransactionService)(nil)
)

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:       storage,
		amqpClient:    amqpClient,
		categoryCache: cache.NewLRUCache[[]core.Category](200, 5*time.Minute),
	}
}

// Record saves the transaction and publishes an export message. The publish
// is best-effort: a broker outage must not fail a write that is already
// durable, the periodic worker sweep picks the row up later.
func (s *TransactionService) Record(ctx context.Context, tx core.Transaction) (string, error) {
	id, err := s.storage.Record(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping export message")
		return id, nil
	}
	if err := s.amqpClient.PublishTransactionExport(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"transaction_id", id, "error", err)
	}
	return id, nil
}

// VisibleCategories serves category sets through a TTL cache. Staleness is
// bounded by the TTL; category edits in the web app show up in the bot
// within that window.
func (s *TransactionService) VisibleCategories(ctx context.Context, familyID string, txType core.TransactionType) ([]core.Category, error) {
	key := familyID + ":" + string(txType)
	if cats, found := s.categoryCache.Get(key); found {
		slog.DebugContext(ctx, "Category cache hit", "family_id", familyID, "type", string(txType))
		return cats, nil
	}

	cats, err := s.storage.VisibleCategories(ctx, familyID, txType)
	if err != nil {
		return nil, fmt.Errorf("list visible categories: %w", err)
	}
	s.categoryCache.Set(key, cats)
	return cats, nil
}

// Close closes both storage and AMQP connections
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
