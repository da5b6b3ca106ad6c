// Package scorer implements the individual categorization signals that the
// decision engine blends: lexical keyword matching, semantic embedding
// similarity, and historical nearest-neighbor lookup.
package scorer

// Signal is one scorer's opinion about a transaction's category.
// A nil *Signal means the scorer has no opinion, which is distinct from a
// low-confidence one.
type Signal struct {
	Category   string
	Reasoning  string
	Confidence float64
}
