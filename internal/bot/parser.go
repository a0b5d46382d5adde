package bot

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"boascontas/internal/core"
)

// ParsedTransaction is the outcome of a successful parse: a resolved type,
// a positive amount in cents, and a trimmed description with its first
// character capitalized.
type ParsedTransaction struct {
	Type        core.TransactionType
	Amount      core.Money
	Description string
}

const amountPattern = `(\d+(?:[.,]\d{2})?)`

// Parser turns free-form chat text into a ParsedTransaction. It is pure and
// stateless: the same text always yields the same result.
//
// Three surface grammars are tried in fixed priority order and the first
// structural match wins, even if a later grammar could also match:
//
//  1. "gasto 50 almoço"      — type keyword, amount, description
//  2. "50 gasto almoço"      — amount, type keyword, description
//  3. "-25,50 café"          — optional sign, amount, description
type Parser struct {
	vocab    Vocabulary
	grammars []grammar
}

type grammar struct {
	re      *regexp.Regexp
	extract func(v Vocabulary, m []string) (ParsedTransaction, bool)
}

func NewParser(vocab Vocabulary) *Parser {
	keywords := keywordAlternation(vocab)
	return &Parser{
		vocab: vocab,
		grammars: []grammar{
			{
				re:      regexp.MustCompile(`^(` + keywords + `)\s+` + amountPattern + `\s+(.+)$`),
				extract: extractKeywordFirst,
			},
			{
				re:      regexp.MustCompile(`^` + amountPattern + `\s+(` + keywords + `)\s+(.+)$`),
				extract: extractAmountFirst,
			},
			{
				re:      regexp.MustCompile(`^([+-]?)` + amountPattern + `\s+(.+)$`),
				extract: extractSigned,
			},
		},
	}
}

// Parse attempts each grammar in order. It returns false when the text
// matches none of them; callers translate that into the format-error reply.
func (p *Parser) Parse(text string) (ParsedTransaction, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, g := range p.grammars {
		m := g.re.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		tx, ok := g.extract(p.vocab, m)
		if !ok {
			// Malformed amount inside a structural match: fall through to
			// the next grammar rather than failing the whole parse.
			continue
		}
		tx.Description = capitalize(strings.TrimSpace(tx.Description))
		return tx, true
	}
	return ParsedTransaction{}, false
}

func extractKeywordFirst(v Vocabulary, m []string) (ParsedTransaction, bool) {
	txType, ok := v.typeForKeyword(m[1])
	if !ok {
		return ParsedTransaction{}, false
	}
	cents, err := core.ParseDecimalToCents(m[2])
	if err != nil {
		return ParsedTransaction{}, false
	}
	return ParsedTransaction{Type: txType, Amount: core.Money{Cents: cents}, Description: m[3]}, true
}

func extractAmountFirst(v Vocabulary, m []string) (ParsedTransaction, bool) {
	cents, err := core.ParseDecimalToCents(m[1])
	if err != nil {
		return ParsedTransaction{}, false
	}
	txType, ok := v.typeForKeyword(m[2])
	if !ok {
		return ParsedTransaction{}, false
	}
	return ParsedTransaction{Type: txType, Amount: core.Money{Cents: cents}, Description: m[3]}, true
}

// extractSigned resolves the type from the sign when present. Without a
// sign it inspects the description for income hints and otherwise defaults
// to expense. The bias is deliberate: most unsigned chat entries are
// spending.
func extractSigned(v Vocabulary, m []string) (ParsedTransaction, bool) {
	cents, err := core.ParseDecimalToCents(m[2])
	if err != nil {
		return ParsedTransaction{}, false
	}
	description := m[3]

	var txType core.TransactionType
	switch m[1] {
	case "+":
		txType = core.Income
	case "-":
		txType = core.Expense
	default:
		txType = core.Expense
		for _, hint := range v.IncomeHints {
			if strings.Contains(description, hint) {
				txType = core.Income
				break
			}
		}
	}
	return ParsedTransaction{Type: txType, Amount: core.Money{Cents: cents}, Description: description}, true
}

func keywordAlternation(v Vocabulary) string {
	words := make([]string, 0, len(v.ExpenseKeywords)+len(v.IncomeKeywords))
	for _, kw := range v.ExpenseKeywords {
		words = append(words, regexp.QuoteMeta(kw))
	}
	for _, kw := range v.IncomeKeywords {
		words = append(words, regexp.QuoteMeta(kw))
	}
	return strings.Join(words, "|")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
