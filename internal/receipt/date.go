package receipt

import (
	"regexp"
	"time"
)

// Sanity window for extracted dates. Receipts older than two years or more
// than thirty days in the future are treated as OCR misreads.
const (
	maxDateAge   = 2 * 365 * 24 * time.Hour
	maxDateAhead = 30 * 24 * time.Hour
)

// datePattern pairs a token regex with the layouts tried against its
// matches. Patterns are ordered; the first parseable, in-window match wins.
type datePattern struct {
	re      *regexp.Regexp
	layouts []string
}

var datePatterns = []datePattern{
	{
		re:      regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{4}\b`),
		layouts: []string{"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006"},
	},
	{
		re:      regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`),
		layouts: []string{"2006/1/2", "2006-1-2", "2006-01-02"},
	},
	{
		re:      regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2}\b`),
		layouts: []string{"1/2/06", "01/02/06", "1-2-06"},
	},
	{
		re:      regexp.MustCompile(`\b[A-Za-z]{3,9}\.?\s+\d{1,2},?\s+\d{4}\b`),
		layouts: []string{"Jan 2, 2006", "Jan 2 2006", "January 2, 2006", "January 2 2006"},
	},
	{
		re:      regexp.MustCompile(`\b\d{1,2}\s+[A-Za-z]{3,9}\.?\s+\d{4}\b`),
		layouts: []string{"2 Jan 2006", "2 January 2006"},
	},
}

// ExtractDate finds the transaction date in OCR text. Matches outside the
// sanity window relative to now are skipped so a misread year does not
// produce a date years in the past. Returns nil when nothing plausible is
// found.
func ExtractDate(text string, now time.Time) *time.Time {
	for _, pattern := range datePatterns {
		for _, match := range pattern.re.FindAllString(text, -1) {
			for _, layout := range pattern.layouts {
				parsed, err := time.Parse(layout, match)
				if err != nil {
					continue
				}
				if inWindow(parsed, now) {
					return &parsed
				}
				break
			}
		}
	}
	return nil
}

func inWindow(date, now time.Time) bool {
	if date.Before(now.Add(-maxDateAge)) {
		return false
	}
	if date.After(now.Add(maxDateAhead)) {
		return false
	}
	return true
}
