package model

import "time"

// CategorizationResult is the decision engine's answer for one request.
type CategorizationResult struct {
	Category     string
	Reasoning    string
	Confidence   float64
	AnomalyScore float64
	IsAnomaly    bool
}

// ReceiptExtraction holds structured fields parsed from a receipt image.
// Amount and Date are nil when the corresponding field could not be
// extracted; Vendor is empty when unknown.
type ReceiptExtraction struct {
	Amount     *float64
	Date       *time.Time
	Vendor     string
	Category   string
	RawText    string
	Confidence float64
}

// ClampConfidence bounds a confidence value to [0, 1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
