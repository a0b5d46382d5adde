package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"boascontas/internal/bot"
	"boascontas/internal/core"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTelegramLinkLookup(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if _, err := repo.UserByTelegramID(ctx, 42); !errors.Is(err, bot.ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}

	if err := repo.LinkTelegramUser(ctx, 42, "user-1"); err != nil {
		t.Fatalf("link: %v", err)
	}
	userID, err := repo.UserByTelegramID(ctx, 42)
	if err != nil || userID != "user-1" {
		t.Fatalf("lookup = (%q, %v)", userID, err)
	}

	// Relink overwrites
	if err := repo.LinkTelegramUser(ctx, 42, "user-2"); err != nil {
		t.Fatalf("relink: %v", err)
	}
	userID, _ = repo.UserByTelegramID(ctx, 42)
	if userID != "user-2" {
		t.Fatalf("relinked lookup = %q", userID)
	}
}

func TestDefaultFamilyID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if _, err := repo.DefaultFamilyID(ctx, "user-1"); !errors.Is(err, bot.ErrNoFamily) {
		t.Fatalf("expected ErrNoFamily, got %v", err)
	}

	famID, err := repo.CreateFamily(ctx, "Silva", "user-1")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	got, err := repo.DefaultFamilyID(ctx, "user-1")
	if err != nil || got != famID {
		t.Fatalf("DefaultFamilyID = (%q, %v), want %q", got, err, famID)
	}
}

func TestVisibleCategories(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	famID, err := repo.CreateFamily(ctx, "Silva", "user-1")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	if _, err := repo.CreateCategory(ctx, famID, "Apostas", core.Expense); err != nil {
		t.Fatalf("create category: %v", err)
	}
	otherFam, err := repo.CreateFamily(ctx, "Souza", "user-9")
	if err != nil {
		t.Fatalf("create other family: %v", err)
	}
	if _, err := repo.CreateCategory(ctx, otherFam, "Barcos", core.Expense); err != nil {
		t.Fatalf("create other category: %v", err)
	}

	cats, err := repo.VisibleCategories(ctx, famID, core.Expense)
	if err != nil {
		t.Fatalf("visible categories: %v", err)
	}
	if len(cats) == 0 {
		t.Fatal("expected seeded default categories")
	}
	// Name-ordered, type-filtered, and scoped to defaults + own family.
	for i, c := range cats {
		if c.Type != core.Expense {
			t.Fatalf("category %q has type %s", c.Name, c.Type)
		}
		if c.Name == "Barcos" {
			t.Fatal("other family's category leaked into the visible set")
		}
		if i > 0 && cats[i-1].Name > c.Name {
			t.Fatalf("categories not name-ordered: %q before %q", cats[i-1].Name, c.Name)
		}
	}
	found := false
	for _, c := range cats {
		if c.Name == "Apostas" && !c.IsDefault {
			found = true
		}
	}
	if !found {
		t.Fatal("family-owned category missing from visible set")
	}

	income, err := repo.VisibleCategories(ctx, famID, core.Income)
	if err != nil {
		t.Fatalf("income categories: %v", err)
	}
	for _, c := range income {
		if c.Type != core.Income {
			t.Fatalf("income set contains %s category %q", c.Type, c.Name)
		}
	}
}

func TestRecordAndExportLifecycle(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	famID, err := repo.CreateFamily(ctx, "Silva", "user-1")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}

	tx := core.Transaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: 5000},
		Description: "Almoço",
		FamilyID:    famID,
		UserID:      "user-1",
		CategoryID:  "def-alimentacao",
		Notes:       "Criado via Telegram por @maria",
		Date:        time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	id, err := repo.Record(ctx, tx)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("expected uuid id, got %q", id)
	}

	stored, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if stored.CategoryName != "Alimentação" || stored.AmountCents != 5000 || stored.Date != "2026-03-15" {
		t.Fatalf("stored = %+v", stored)
	}

	pending, err := repo.GetPendingExportIDs(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0] != id {
		t.Fatalf("pending = %v", pending)
	}

	if err := repo.MarkExported(ctx, id); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	pending, _ = repo.GetPendingExportIDs(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("pending after export = %v", pending)
	}
}

func TestRecordWithoutCategory(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	famID, err := repo.CreateFamily(ctx, "Silva", "user-1")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	id, err := repo.Record(ctx, core.Transaction{
		Type:        core.Income,
		Amount:      core.Money{Cents: 100000},
		Description: "Venda",
		FamilyID:    famID,
		UserID:      "user-1",
		Date:        time.Now(),
	})
	if err != nil {
		t.Fatalf("record without category must succeed: %v", err)
	}
	stored, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.CategoryName != "" {
		t.Fatalf("category name = %q, want empty", stored.CategoryName)
	}
}

func TestRecordRejectsInvalid(t *testing.T) {
	repo := newRepo(t)
	if _, err := repo.Record(context.Background(), core.Transaction{}); err == nil {
		t.Fatal("expected validation error")
	}
}
