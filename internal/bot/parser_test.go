package bot

import (
	"testing"

	"boascontas/internal/core"
)

func TestParseKeywordGrammars(t *testing.T) {
	p := NewParser(DefaultVocabulary())

	cases := []struct {
		in    string
		typ   core.TransactionType
		cents int64
		desc  string
	}{
		// keyword first
		{"gasto 50 almoço", core.Expense, 5000, "Almoço"},
		{"despesa 25.50 café", core.Expense, 2550, "Café"},
		{"despesa 25,50 café", core.Expense, 2550, "Café"},
		{"receita 1000 salário", core.Income, 100000, "Salário"},
		{"renda 500 freelance", core.Income, 50000, "Freelance"},
		// amount first
		{"50 gasto almoço", core.Expense, 5000, "Almoço"},
		{"1000 receita salário", core.Income, 100000, "Salário"},
		// sign
		{"-12.50 coffee", core.Expense, 1250, "Coffee"},
		{"+200 sale", core.Income, 20000, "Sale"},
		{"-30 transporte", core.Expense, 3000, "Transporte"},
		// no sign, no keyword: income hint vs default expense bias
		{"30 transporte", core.Expense, 3000, "Transporte"},
		{"1000 salário do mês", core.Income, 100000, "Salário do mês"},
		{"500 freelance projeto", core.Income, 50000, "Freelance projeto"},
		// normalization
		{"  GASTO 50 Almoço  ", core.Expense, 5000, "Almoço"},
		// multi-word description
		{"gasto 80 jantar com amigos", core.Expense, 8000, "Jantar com amigos"},
	}
	for _, tc := range cases {
		got, ok := p.Parse(tc.in)
		if !ok {
			t.Fatalf("Parse(%q) did not match", tc.in)
		}
		if got.Type != tc.typ || got.Amount.Cents != tc.cents || got.Description != tc.desc {
			t.Fatalf("Parse(%q) = {%s %d %q}, want {%s %d %q}",
				tc.in, got.Type, got.Amount.Cents, got.Description, tc.typ, tc.cents, tc.desc)
		}
	}
}

func TestParseNoMatch(t *testing.T) {
	p := NewParser(DefaultVocabulary())

	for _, in := range []string{
		"abc 123 def",
		"almoço",
		"",
		"   ",
		"gasto almoço",     // keyword without amount
		"50",               // amount without description
		"gasto 50.5 café",  // one decimal digit breaks the amount grammar
		"muito caro hoje",
	} {
		if _, ok := p.Parse(in); ok {
			t.Fatalf("Parse(%q) matched, want no match", in)
		}
	}
}

func TestParsePriorityOrder(t *testing.T) {
	p := NewParser(DefaultVocabulary())

	// The keyword-first grammar wins even though the signless grammar could
	// also match the same text shape.
	got, ok := p.Parse("gasto 50 receita de bolo")
	if !ok {
		t.Fatal("expected match")
	}
	if got.Type != core.Expense {
		t.Fatalf("keyword-first grammar should win, got type %s", got.Type)
	}
	if got.Description != "Receita de bolo" {
		t.Fatalf("description = %q", got.Description)
	}

	// A trailing keyword does not trigger rule 1; the amount-first text is
	// parsed by rule 2 only when the keyword directly follows the amount.
	got, ok = p.Parse("50 almoço gasto")
	if !ok {
		t.Fatal("expected match")
	}
	if got.Type != core.Expense || got.Description != "Almoço gasto" {
		t.Fatalf("got {%s %q}, want signless parse with full remainder", got.Type, got.Description)
	}
}

func TestParseIdempotent(t *testing.T) {
	p := NewParser(DefaultVocabulary())

	const in = "receita 1234,56 salário de março"
	first, ok := p.Parse(in)
	if !ok {
		t.Fatal("expected match")
	}
	second, ok := p.Parse(in)
	if !ok {
		t.Fatal("expected match on re-parse")
	}
	if first != second {
		t.Fatalf("re-parse differs: %+v vs %+v", first, second)
	}
}

func TestParseAlternateVocabulary(t *testing.T) {
	vocab := Vocabulary{
		ExpenseKeywords: []string{"spent"},
		IncomeKeywords:  []string{"earned"},
		IncomeHints:     []string{"salary"},
	}
	p := NewParser(vocab)

	got, ok := p.Parse("spent 10 books")
	if !ok || got.Type != core.Expense || got.Amount.Cents != 1000 {
		t.Fatalf("alternate vocabulary parse failed: %+v ok=%v", got, ok)
	}
	// Default vocabulary words carry no meaning here.
	if _, ok := p.Parse("gasto 10 books"); ok {
		t.Fatal("default-vocabulary keyword should not match under alternate vocabulary")
	}
}
