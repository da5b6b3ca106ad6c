package receipt

import (
	"regexp"
	"strconv"
	"strings"
)

// Context scores for ranking amount candidates. A candidate on a line
// mentioning "total" outranks one near "amount" or "due", which outranks
// plain position and magnitude hints.
const (
	totalLineScore  = 10
	amountLineScore = 8
	dueLineScore    = 8
	nearEndScore    = 5
	magnitudeScore  = 2
	nearEndLineSpan = 3
	maxPlausibleAmt = 100000.0
)

var amountPattern = regexp.MustCompile(`\$?\s*(\d{1,6}\.\d{2})\b`)

type amountCandidate struct {
	value float64
	score int
	order int
}

// ExtractAmount finds the most likely transaction total in OCR text.
// Every decimal money token is a candidate; candidates are ranked by
// line context and position, and ties keep the earliest candidate.
// Returns nil when no candidate is found.
func ExtractAmount(text string) *float64 {
	lines := strings.Split(text, "\n")

	var candidates []amountCandidate
	order := 0
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, match := range amountPattern.FindAllStringSubmatch(line, -1) {
			value, err := strconv.ParseFloat(match[1], 64)
			if err != nil || value <= 0 || value > maxPlausibleAmt {
				continue
			}

			score := 0
			if strings.Contains(lower, "total") {
				score += totalLineScore
			}
			if strings.Contains(lower, "amount") {
				score += amountLineScore
			}
			if strings.Contains(lower, "due") {
				score += dueLineScore
			}
			if i >= len(lines)-nearEndLineSpan {
				score += nearEndScore
			}
			if value > 1 {
				score += magnitudeScore
			}

			candidates = append(candidates, amountCandidate{value: value, score: score, order: order})
			order++
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return &best.value
}
