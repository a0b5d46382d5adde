// Package bot implements the chat-side transaction pipeline: message
// parsing, type resolution, category inference, command routing, and the
// webhook dispatcher that stitches them to the storage and transport ports.
package bot

import "boascontas/internal/core"

// Vocabulary is the injected keyword configuration driving the parser and
// the category classifier. Matching logic is a pure function of
// (text, vocabulary), so alternate vocabularies can be tested without
// touching the pipeline.
type Vocabulary struct {
	// ExpenseKeywords and IncomeKeywords are the type words recognized by
	// the keyword grammars ("gasto 50 almoço", "50 receita ...").
	ExpenseKeywords []string
	IncomeKeywords  []string

	// IncomeHints are description words that flip an unsigned, keyword-less
	// amount to income ("1000 salário").
	IncomeHints []string

	// CategoryKeywords maps a lowercased category name to the description
	// substrings that select it.
	CategoryKeywords map[string][]string
}

// DefaultVocabulary returns the Portuguese vocabulary the bot ships with.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		ExpenseKeywords: []string{"gasto", "despesa"},
		IncomeKeywords:  []string{"receita", "renda"},
		IncomeHints:     []string{"salário", "salario", "freelance", "renda", "receita"},
		CategoryKeywords: map[string][]string{
			"alimentação": {"almoço", "jantar", "lanche", "comida", "restaurante", "mercado"},
			"transporte":  {"uber", "taxi", "ônibus", "gasolina", "combustivel"},
			"moradia":     {"aluguel", "condominio", "luz", "agua", "internet"},
			"saúde":       {"médico", "remedio", "farmacia", "hospital"},
			"lazer":       {"cinema", "bar", "festa", "viagem"},
			"salário":     {"salario", "pagamento", "trabalho"},
		},
	}
}

func (v Vocabulary) typeForKeyword(word string) (core.TransactionType, bool) {
	for _, kw := range v.IncomeKeywords {
		if word == kw {
			return core.Income, true
		}
	}
	for _, kw := range v.ExpenseKeywords {
		if word == kw {
			return core.Expense, true
		}
	}
	return "", false
}
