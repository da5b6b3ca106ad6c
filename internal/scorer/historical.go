package scorer

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"

	"github.com/wisefig/ledgerlens/internal/model"
)

const (
	// historicalThreshold is the minimum cosine similarity for a prior
	// transaction to be trusted as a match.
	historicalThreshold = 0.5
	// historicalCap bounds historical confidence.
	historicalCap = 0.9
)

// HistoricalMatcher finds the most similar previously labeled transaction
// using a TF-IDF term vector space over unigrams and bigrams.
//
// The vector space is built by Retrain against a snapshot of history and
// swapped in atomically, so concurrent Match calls never observe a
// partially rebuilt model.
type HistoricalMatcher struct {
	model  atomic.Pointer[tfidfModel]
	logger *slog.Logger
}

// tfidfModel is an immutable snapshot of the term vector space.
type tfidfModel struct {
	idf  map[string]float64
	docs []historicalDoc
	n    int
}

type historicalDoc struct {
	weights     map[string]float64
	description string
	category    string
	norm        float64
}

// NewHistoricalMatcher creates a matcher with an empty vector space.
func NewHistoricalMatcher(logger *slog.Logger) *HistoricalMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoricalMatcher{logger: logger}
}

// Retrain rebuilds the vector space from the given history snapshot and
// atomically swaps it in. Entries without a resolved category are ignored.
func (m *HistoricalMatcher) Retrain(history []model.Transaction) {
	var labeled []model.Transaction
	for _, txn := range history {
		if txn.Category != "" && txn.Description != "" {
			labeled = append(labeled, txn)
		}
	}

	if len(labeled) == 0 {
		m.model.Store(nil)
		return
	}

	// Document frequency over all historical descriptions.
	df := make(map[string]int)
	tokenized := make([][]string, len(labeled))
	for i, txn := range labeled {
		terms := tokenize(txn.Description)
		tokenized[i] = terms
		seen := make(map[string]bool, len(terms))
		for _, term := range terms {
			if !seen[term] {
				df[term]++
				seen[term] = true
			}
		}
	}

	n := len(labeled)
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log(float64(1+n)/float64(1+count)) + 1
	}

	docs := make([]historicalDoc, n)
	for i, txn := range labeled {
		weights := termWeights(tokenized[i], idf, n)
		docs[i] = historicalDoc{
			description: txn.Description,
			category:    txn.Category,
			weights:     weights,
			norm:        vectorNorm(weights),
		}
	}

	m.model.Store(&tfidfModel{docs: docs, idf: idf, n: n})
	m.logger.Debug("historical model retrained", "documents", n, "terms", len(idf))
}

// Match returns the category of the most similar prior transaction, or nil
// when history is empty or nothing clears the similarity threshold.
func (m *HistoricalMatcher) Match(description string) *Signal {
	mdl := m.model.Load()
	if mdl == nil {
		return nil
	}

	queryWeights := termWeights(tokenize(description), mdl.idf, mdl.n)
	queryNorm := vectorNorm(queryWeights)
	if queryNorm == 0 {
		return nil
	}

	bestSim := 0.0
	var bestDoc *historicalDoc
	for i := range mdl.docs {
		doc := &mdl.docs[i]
		if doc.norm == 0 {
			continue
		}
		sim := sparseCosine(queryWeights, queryNorm, doc.weights, doc.norm)
		if sim > bestSim {
			bestSim = sim
			bestDoc = doc
		}
	}

	if bestDoc == nil || bestSim <= historicalThreshold {
		return nil
	}

	confidence := bestSim
	if confidence > historicalCap {
		confidence = historicalCap
	}

	return &Signal{
		Category:   bestDoc.category,
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("similar to previous transaction %q (%s)", bestDoc.description, bestDoc.category),
	}
}

// tokenize lowercases a description and emits unigrams plus adjacent
// bigrams.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})

	terms := make([]string, 0, len(words)*2)
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// termWeights builds a TF-IDF weight vector for a term sequence. Terms
// unseen during training fall back to the maximum-rarity IDF.
func termWeights(terms []string, idf map[string]float64, n int) map[string]float64 {
	if len(terms) == 0 {
		return nil
	}

	counts := make(map[string]float64, len(terms))
	for _, term := range terms {
		counts[term]++
	}

	unseenIDF := math.Log(float64(1+n)) + 1
	weights := make(map[string]float64, len(counts))
	for term, count := range counts {
		tf := count / float64(len(terms))
		weight, ok := idf[term]
		if !ok {
			weight = unseenIDF
		}
		weights[term] = tf * weight
	}
	return weights
}

func vectorNorm(weights map[string]float64) float64 {
	var sum float64
	for _, w := range weights {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// sparseCosine computes cosine similarity between two sparse vectors with
// precomputed norms.
func sparseCosine(a map[string]float64, normA float64, b map[string]float64, normB float64) float64 {
	// Iterate the smaller map.
	if len(a) > len(b) {
		a, b = b, a
	}

	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}
