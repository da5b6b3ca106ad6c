package scorer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wisefig/ledgerlens/internal/model"
)

// Scoring constants. A full keyword substring match contributes twice the
// keyword's length; a token-level partial match contributes one; a regex
// pattern bonus contributes three.
const (
	fullMatchWeight    = 2
	partialMatchWeight = 1
	patternBonus       = 3

	confidenceScale = 0.15
	// StandaloneCap bounds lexical confidence when it is the only signal.
	StandaloneCap = 0.95
	// BlendedCap bounds lexical confidence when blended with semantic.
	BlendedCap = 0.8

	// Fallback confidence when no keyword matches. Income descriptions that
	// match nothing are still more likely to be general earnings than
	// expenses are to be the catch-all bucket, hence the higher floor.
	fallbackExpenseConfidence = 0.3
	fallbackIncomeConfidence  = 0.4
)

// patternRule grants a fixed score bonus to a category when its regex
// matches the description.
type patternRule struct {
	re       *regexp.Regexp
	category string
}

// LexicalScorer scores descriptions against the keyword sets of each
// category definition. It is fully deterministic: identical input always
// produces an identical result. Score ties resolve to the first-declared
// category, a reproducible but not semantically meaningful order.
type LexicalScorer struct {
	patterns map[model.TransactionKind][]patternRule
	cap      float64
}

// NewLexicalScorer creates a scorer capped for standalone use.
func NewLexicalScorer() *LexicalScorer {
	return NewLexicalScorerWithCap(StandaloneCap)
}

// NewLexicalScorerWithCap creates a scorer with a custom confidence cap.
func NewLexicalScorerWithCap(cap float64) *LexicalScorer {
	return &LexicalScorer{
		cap: cap,
		patterns: map[model.TransactionKind][]patternRule{
			model.KindExpense: {
				{category: "Petrol", re: regexp.MustCompile(`\$?\d+\.\d{2}.*gas`)},
				{category: "Petrol", re: regexp.MustCompile(`shell|exxon|bp|chevron`)},
				{category: "Food", re: regexp.MustCompile(`restaurant|cafe|coffee|pizza`)},
				{category: "Food", re: regexp.MustCompile(`lunch|dinner|breakfast`)},
				{category: "Grocery", re: regexp.MustCompile(`grocery|supermarket`)},
				{category: "Grocery", re: regexp.MustCompile(`walmart|costco|kroger`)},
				{category: "Mobile", re: regexp.MustCompile(`(phone|mobile).*bill`)},
				{category: "Mobile", re: regexp.MustCompile(`verizon|att|tmobile`)},
			},
		},
	}
}

// Score evaluates a description against the kind's category definitions
// and always returns a signal; when nothing matches it falls back to the
// kind's catch-all category at a fixed low confidence.
func (s *LexicalScorer) Score(description string, kind model.TransactionKind) Signal {
	text := strings.ToLower(strings.TrimSpace(description))
	defs := model.CategoriesFor(kind)

	scores := make(map[string]int, len(defs))
	matched := make(map[string][]string, len(defs))

	for _, def := range defs {
		for _, keyword := range def.Keywords {
			switch {
			case strings.Contains(text, keyword):
				scores[def.Name] += fullMatchWeight * len(keyword)
				matched[def.Name] = append(matched[def.Name], keyword)
			case anyTokenMatches(text, keyword):
				scores[def.Name] += partialMatchWeight
				matched[def.Name] = append(matched[def.Name], keyword)
			}
		}
	}

	for _, rule := range s.patterns[kind] {
		if rule.re.MatchString(text) {
			if scores[rule.category] == 0 {
				matched[rule.category] = append(matched[rule.category], "pattern_match")
			}
			scores[rule.category] += patternBonus
		}
	}

	// Pick the maximum score; iterate in declaration order so ties go to
	// the first-declared category.
	best := ""
	bestScore := 0
	for _, def := range defs {
		if sc := scores[def.Name]; sc > bestScore {
			best = def.Name
			bestScore = sc
		}
	}

	if best == "" {
		confidence := fallbackExpenseConfidence
		if kind == model.KindIncome {
			confidence = fallbackIncomeConfidence
		}
		return Signal{
			Category:   model.FallbackCategory(kind),
			Confidence: confidence,
			Reasoning:  fmt.Sprintf("no keyword matched, defaulting to %s", model.FallbackCategory(kind)),
		}
	}

	keywords := matched[best]
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}

	confidence := float64(bestScore) * confidenceScale
	if confidence > s.cap {
		confidence = s.cap
	}

	return Signal{
		Category:   best,
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("matched keywords: %s", strings.Join(keywords, ", ")),
	}
}

// anyTokenMatches reports whether any whitespace-split word of the keyword
// appears in the description.
func anyTokenMatches(text, keyword string) bool {
	for _, word := range strings.Fields(keyword) {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
