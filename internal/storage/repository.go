package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"boascontas/internal/bot"
	"boascontas/internal/core"
)

// SQLiteRepository is the system of record for telegram links, families,
// categories, and transactions. It implements the dispatcher's lookup and
// persistence ports.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ bot.IdentityLookup      = (*SQLiteRepository)(nil)
	_ bot.FamilyLookup        = (*SQLiteRepository)(nil)
	_ bot.CategorySource      = (*SQLiteRepository)(nil)
	_ bot.TransactionRecorder = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// UserByTelegramID implements bot.IdentityLookup. Exact match only.
func (r *SQLiteRepository) UserByTelegramID(ctx context.Context, telegramUserID int64) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM telegram_links WHERE telegram_user_id = ?`,
		telegramUserID,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", bot.ErrNotLinked
	}
	if err != nil {
		return "", fmt.Errorf("query telegram link: %w", err)
	}
	return userID, nil
}

// DefaultFamilyID implements bot.FamilyLookup: the user's first family by
// join date.
func (r *SQLiteRepository) DefaultFamilyID(ctx context.Context, userID string) (string, error) {
	var familyID string
	err := r.db.QueryRowContext(ctx,
		`SELECT family_id FROM family_members WHERE user_id = ? ORDER BY joined_at, family_id LIMIT 1`,
		userID,
	).Scan(&familyID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", bot.ErrNoFamily
	}
	if err != nil {
		return "", fmt.Errorf("query family membership: %w", err)
	}
	return familyID, nil
}

// VisibleCategories implements bot.CategorySource: shared defaults plus the
// family's own categories of the given type, ordered by name so the
// classifier's fallback pick is stable.
func (r *SQLiteRepository) VisibleCategories(ctx context.Context, familyID string, txType core.TransactionType) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, COALESCE(family_id, ''), is_default
		FROM categories
		WHERE type = ? AND (is_default = 1 OR family_id = ?)
		ORDER BY name COLLATE NOCASE, id`,
		string(txType), familyID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		var isDefault int64
		if err := rows.Scan(&c.ID, &c.Name, (*string)(&c.Type), &c.FamilyID, &isDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.IsDefault = isDefault == 1
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Record implements bot.TransactionRecorder. The id is generated here; a
// missing category is stored as NULL and export starts as pending.
func (r *SQLiteRepository) Record(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}

	id := uuid.NewString()
	var categoryID any
	if tx.CategoryID != "" {
		categoryID = tx.CategoryID
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, family_id, user_id, category_id, type, amount_cents, description, notes, transaction_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, tx.FamilyID, tx.UserID, categoryID, string(tx.Type),
		tx.Amount.Cents, tx.Description, tx.Notes, tx.Date.Format("2006-01-02"))
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"family_id", tx.FamilyID,
		"type", string(tx.Type),
		"amount_cents", tx.Amount.Cents)

	return id, nil
}

// StoredTransaction is the persisted row shape the export worker reads.
type StoredTransaction struct {
	ID           string
	FamilyID     string
	UserID       string
	CategoryName string
	Type         core.TransactionType
	AmountCents  int64
	Description  string
	Notes        string
	Date         string
	CreatedAt    time.Time
}

// GetTransaction returns a single transaction with its category name
// resolved, for ledger export.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (*StoredTransaction, error) {
	var t StoredTransaction
	err := r.db.QueryRowContext(ctx, `
		SELECT t.id, t.family_id, t.user_id, COALESCE(c.name, ''), t.type,
		       t.amount_cents, t.description, t.notes, t.transaction_date, t.created_at
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.id = ?`, id,
	).Scan(&t.ID, &t.FamilyID, &t.UserID, &t.CategoryName, (*string)(&t.Type),
		&t.AmountCents, &t.Description, &t.Notes, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return &t, nil
}

// GetPendingExportIDs returns ids of transactions not yet exported to the
// ledger, oldest first.
func (r *SQLiteRepository) GetPendingExportIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM transactions
		WHERE export_status = 'pending'
		ORDER BY created_at, id
		LIMIT ?`, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("query pending exports: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending export id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkExported marks a transaction as successfully written to the ledger.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_status = 'exported', exported_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction exported: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as exported", "id", id)
	return nil
}

// MarkExportError flags a transaction whose ledger export failed.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction export error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with export error", "id", id)
	return nil
}

// LinkTelegramUser binds a Telegram account to a user id. The web app
// normally writes this row; the method also backs fixtures and admin
// tooling.
func (r *SQLiteRepository) LinkTelegramUser(ctx context.Context, telegramUserID int64, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO telegram_links (telegram_user_id, user_id) VALUES (?, ?)
		ON CONFLICT (telegram_user_id) DO UPDATE SET user_id = excluded.user_id`,
		telegramUserID, userID)
	if err != nil {
		return fmt.Errorf("link telegram user: %w", err)
	}
	return nil
}

// CreateFamily inserts a family and its first member.
func (r *SQLiteRepository) CreateFamily(ctx context.Context, name, userID string) (string, error) {
	id := uuid.NewString()
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin create family: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`INSERT INTO families (id, name) VALUES (?, ?)`, id, name); err != nil {
		return "", fmt.Errorf("insert family: %w", err)
	}
	if _, err := dbTx.ExecContext(ctx,
		`INSERT INTO family_members (family_id, user_id) VALUES (?, ?)`, id, userID); err != nil {
		return "", fmt.Errorf("insert family member: %w", err)
	}
	if err := dbTx.Commit(); err != nil {
		return "", fmt.Errorf("commit create family: %w", err)
	}
	return id, nil
}

// CreateCategory inserts a family-owned category.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, familyID, name string, txType core.TransactionType) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, type, family_id, is_default) VALUES (?, ?, ?, ?, 0)`,
		id, name, string(txType), familyID)
	if err != nil {
		return "", fmt.Errorf("insert category: %w", err)
	}
	return id, nil
}
