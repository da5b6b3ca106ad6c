package anomaly

import (
	"log/slog"

	"github.com/wisefig/ledgerlens/internal/service"
)

// MinSamples is the hard data-sufficiency gate: with fewer prior amounts
// for a category the detector reports "not anomalous" with score zero.
// This is a defined no-opinion result, not a heuristic.
const MinSamples = 5

// Detector wraps an outlier model with the data-sufficiency gate used for
// per-category amount checks.
type Detector struct {
	outliers service.OutlierDetector
	logger   *slog.Logger
}

// NewDetector creates a detector. A nil outlier model defaults to the
// built-in isolation forest.
func NewDetector(outliers service.OutlierDetector, logger *slog.Logger) *Detector {
	if outliers == nil {
		outliers = NewForest()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{outliers: outliers, logger: logger}
}

// Evaluate checks whether candidate is unusual relative to the prior
// amounts observed for its category.
func (d *Detector) Evaluate(priorAmounts []float64, candidate float64) (bool, float64) {
	if len(priorAmounts) < MinSamples {
		d.logger.Debug("insufficient history for anomaly detection",
			"samples", len(priorAmounts),
			"required", MinSamples)
		return false, 0
	}

	return d.outliers.Score(priorAmounts, candidate)
}
