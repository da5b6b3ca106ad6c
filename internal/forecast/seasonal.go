// Package forecast implements the default spend forecaster: additive
// decomposition into a moving-average trend, day-of-week and month-of-year
// seasonal factors, and a residual-based uncertainty interval.
package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/wisefig/ledgerlens/internal/model"
	"github.com/wisefig/ledgerlens/internal/service"
)

const (
	// MinDailyPoints is the data-sufficiency gate. Below it the forecaster
	// reports insufficient data instead of extrapolating from noise.
	MinDailyPoints = 10

	trendWindow = 7
	// trendEdgePoints is how many leading/trailing trend values are averaged
	// to decide the trend direction.
	trendEdgePoints = 10
	// intervalSigma widens the confidence interval to roughly 95% coverage
	// under a normal residual assumption.
	intervalSigma = 1.96
)

// Seasonal is the built-in service.Forecaster. It is deterministic: the
// same series always yields the same forecast.
type Seasonal struct {
	logger *slog.Logger
}

// New creates the default forecaster.
func New(logger *slog.Logger) *Seasonal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seasonal{logger: logger}
}

var _ service.Forecaster = (*Seasonal)(nil)

// Forecast predicts total spend over the horizon from a daily-aggregated
// series. Fewer than MinDailyPoints yields the defined insufficient-data
// result with a zero prediction.
func (s *Seasonal) Forecast(_ context.Context, series []service.DailyPoint, horizonDays int) (model.ForecastResult, error) {
	if horizonDays <= 0 {
		horizonDays = 30
	}
	if len(series) < MinDailyPoints {
		s.logger.Debug("not enough daily points to forecast",
			"points", len(series),
			"required", MinDailyPoints)
		return model.InsufficientDataForecast(
			fmt.Sprintf("need at least %d daily data points, have %d", MinDailyPoints, len(series))), nil
	}

	points := make([]service.DailyPoint, len(series))
	copy(points, series)
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	trend := movingAverage(points, trendWindow)
	weekday, month := seasonalFactors(points, trend)
	sigma := residualStdDev(points, trend, weekday, month)

	// Project each future day as trend level plus its seasonal offsets.
	level := trend[len(trend)-1]
	slope := trendSlope(trend)

	last := points[len(points)-1].Date
	var predicted float64
	for d := 1; d <= horizonDays; d++ {
		day := last.AddDate(0, 0, d)
		estimate := level + slope*float64(d) + weekday[int(day.Weekday())] + month[int(day.Month())-1]
		if estimate < 0 {
			estimate = 0
		}
		predicted += estimate
	}

	// Interval grows with sqrt(horizon) as daily residuals accumulate.
	margin := intervalSigma * sigma * math.Sqrt(float64(horizonDays))
	lower := predicted - margin
	if lower < 0 {
		lower = 0
	}
	upper := predicted + margin

	direction := trendDirection(trend)

	result := model.ForecastResult{
		PredictedAmount: predicted,
		Lower:           lower,
		Upper:           upper,
		Trend:           direction,
		Seasonal:        seasonalSummary(weekday, month),
		Factors: []string{
			fmt.Sprintf("trend over last %d days is %s", len(trend), direction),
			fmt.Sprintf("daily spend level %.2f with residual spread %.2f", level, sigma),
		},
	}

	s.logger.Debug("forecast produced",
		"horizon_days", horizonDays,
		"predicted", predicted,
		"trend", direction)

	return result, nil
}

// movingAverage smooths the daily amounts with a centered window, shrunk
// at the edges.
func movingAverage(points []service.DailyPoint, window int) []float64 {
	out := make([]float64, len(points))
	half := window / 2
	for i := range points {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= len(points) {
			hi = len(points) - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += points[j].Amount
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// seasonalFactors computes mean detrended offsets per weekday and per
// month. Unobserved slots stay at zero.
func seasonalFactors(points []service.DailyPoint, trend []float64) (weekday [7]float64, month [12]float64) {
	var weekdayCount [7]int
	var monthCount [12]int

	for i, p := range points {
		residual := p.Amount - trend[i]
		w := int(p.Date.Weekday())
		m := int(p.Date.Month()) - 1
		weekday[w] += residual
		weekdayCount[w]++
		month[m] += residual
		monthCount[m]++
	}

	for i := range weekday {
		if weekdayCount[i] > 0 {
			weekday[i] /= float64(weekdayCount[i])
		}
	}
	for i := range month {
		if monthCount[i] > 0 {
			month[i] /= float64(monthCount[i])
		}
	}
	return weekday, month
}

// residualStdDev measures the daily spread left after removing trend and
// seasonality.
func residualStdDev(points []service.DailyPoint, trend []float64, weekday [7]float64, month [12]float64) float64 {
	var sumSq float64
	for i, p := range points {
		expected := trend[i] + weekday[int(p.Date.Weekday())] + month[int(p.Date.Month())-1]
		diff := p.Amount - expected
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(points)))
}

// trendSlope estimates the per-day change from the trend's endpoints.
func trendSlope(trend []float64) float64 {
	if len(trend) < 2 {
		return 0
	}
	return (trend[len(trend)-1] - trend[0]) / float64(len(trend)-1)
}

// trendDirection compares the trend's mean over its first and last few
// points. An exact tie reads as increasing; flat spending with any noise
// lands on one side anyway, so the choice only pins determinism.
func trendDirection(trend []float64) model.TrendDirection {
	edge := trendEdgePoints
	if edge > len(trend) {
		edge = len(trend)
	}

	var head, tail float64
	for i := 0; i < edge; i++ {
		head += trend[i]
		tail += trend[len(trend)-edge+i]
	}

	if tail >= head {
		return model.TrendIncreasing
	}
	return model.TrendDecreasing
}

// seasonalSummary exposes the nonzero factors for reporting.
func seasonalSummary(weekday [7]float64, month [12]float64) map[string]float64 {
	out := make(map[string]float64)
	for i, v := range weekday {
		if v != 0 {
			out["weekday_"+time.Weekday(i).String()] = v
		}
	}
	for i, v := range month {
		if v != 0 {
			out["month_"+time.Month(i+1).String()] = v
		}
	}
	return out
}
