package bot

import (
	"strings"

	"boascontas/internal/core"
)

// Classifier picks a best-fit category for a description using the
// vocabulary's keyword table. It never invents matches: when no keyword
// hits, the first candidate of the transaction's type wins, and callers
// must pass candidates in a stable order (the repository sorts by name) so
// the fallback is deterministic.
type Classifier struct {
	vocab Vocabulary
}

func NewClassifier(vocab Vocabulary) *Classifier {
	return &Classifier{vocab: vocab}
}

// Infer returns the selected category or nil when no candidate of the
// transaction's type exists. A non-nil result always has the requested
// type; candidates of a different type are skipped outright.
func (c *Classifier) Infer(description string, txType core.TransactionType, candidates []core.Category) *core.Category {
	descLower := strings.ToLower(description)

	var fallback *core.Category
	for i := range candidates {
		cat := &candidates[i]
		if cat.Type != txType {
			continue
		}
		if fallback == nil {
			fallback = cat
		}
		keywords, ok := c.vocab.CategoryKeywords[strings.ToLower(cat.Name)]
		if !ok {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(descLower, kw) {
				return cat
			}
		}
	}
	return fallback
}
