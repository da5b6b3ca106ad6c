package model

import "sort"

// InsightPriority orders insights by urgency.
type InsightPriority string

const (
	// PriorityHigh marks insights that need attention now.
	PriorityHigh InsightPriority = "high"
	// PriorityMedium marks insights worth reviewing soon.
	PriorityMedium InsightPriority = "medium"
	// PriorityLow marks informational insights.
	PriorityLow InsightPriority = "low"
)

func (p InsightPriority) rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Insight is a single actionable observation about a transaction set.
type Insight struct {
	Type       string
	Title      string
	Message    string
	Action     string
	Priority   InsightPriority
	Confidence float64
}

// Insights is a sortable collection of insights.
type Insights []Insight

// Len implements sort.Interface.
func (s Insights) Len() int { return len(s) }

// Less implements sort.Interface - higher priority first, then higher
// confidence, then title for a stable order.
func (s Insights) Less(i, j int) bool {
	if s[i].Priority.rank() != s[j].Priority.rank() {
		return s[i].Priority.rank() > s[j].Priority.rank()
	}
	if s[i].Confidence != s[j].Confidence {
		return s[i].Confidence > s[j].Confidence
	}
	return s[i].Title < s[j].Title
}

// Swap implements sort.Interface.
func (s Insights) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Sort orders the insights by priority then confidence, descending.
func (s Insights) Sort() { sort.Sort(s) }

// TopN returns the N most important insights.
func (s Insights) TopN(n int) Insights {
	if n <= 0 {
		return Insights{}
	}
	s.Sort()
	if n > len(s) {
		n = len(s)
	}
	result := make(Insights, n)
	copy(result, s[:n])
	return result
}
