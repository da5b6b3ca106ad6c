// Package insights produces ranked, actionable observations over a
// transaction set: weekday patterns, concentration warnings, amount
// outliers, seasonality, budget recommendations, and a spend forecast.
package insights

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/wisefig/ledgerlens/internal/anomaly"
	"github.com/wisefig/ledgerlens/internal/forecast"
	"github.com/wisefig/ledgerlens/internal/model"
	"github.com/wisefig/ledgerlens/internal/service"
)

const (
	// MaxInsights caps the returned list.
	MaxInsights = 10

	concentrationThreshold = 0.5
	seasonalityMinRecords  = 30
	budgetMinRecords       = 5
	budgetRaiseFactor      = 1.2
	budgetLowerFactor      = 0.8
	forecastHorizonDays    = 30
)

// Insight type labels, mirroring the severity conventions used in the
// rendered report.
const (
	typeWarning = "warning"
	typeInfo    = "info"
	typeSuccess = "success"
)

// Engine runs the independent analyses and merges their findings.
type Engine struct {
	detector   *anomaly.Detector
	forecaster service.Forecaster
	logger     *slog.Logger
}

// New creates an insights engine. A nil forecaster defaults to the
// built-in seasonal model; a nil detector defaults to the isolation
// forest.
func New(detector *anomaly.Detector, forecaster service.Forecaster, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if detector == nil {
		detector = anomaly.NewDetector(nil, logger)
	}
	if forecaster == nil {
		forecaster = forecast.New(logger)
	}
	return &Engine{detector: detector, forecaster: forecaster, logger: logger}
}

// Generate runs every analysis over the transactions and returns at most
// MaxInsights findings, highest priority first. Budgets map category
// names to monthly targets and may be nil. Each analysis is independent;
// one producing nothing never suppresses the others.
func (e *Engine) Generate(ctx context.Context, txns []model.Transaction, budgets map[string]float64) model.Insights {
	expenses := filterExpenses(txns)

	var out model.Insights
	out = append(out, e.weekdayPattern(expenses)...)
	out = append(out, e.categoryConcentration(expenses)...)
	out = append(out, e.categoryOutliers(expenses)...)
	out = append(out, e.monthSeasonality(expenses)...)
	out = append(out, e.budgetDeviations(expenses, budgets)...)
	out = append(out, e.spendForecast(ctx, expenses)...)

	result := out.TopN(MaxInsights)
	e.logger.Debug("insights generated", "candidates", len(out), "returned", len(result))
	return result
}

// PredictSpending forecasts spend over the coming days, optionally
// restricted to one category. It never returns an error to the caller;
// model failure is reported as a trend of "error" in the result.
func (e *Engine) PredictSpending(ctx context.Context, txns []model.Transaction, category string, daysAhead int) model.ForecastResult {
	expenses := filterExpenses(txns)
	if category != "" {
		var filtered []model.Transaction
		for _, t := range expenses {
			if t.Category == category {
				filtered = append(filtered, t)
			}
		}
		expenses = filtered
	}

	series := dailySeries(expenses)
	result, err := e.forecaster.Forecast(ctx, series, daysAhead)
	if err != nil {
		e.logger.Error("forecast failed", "category", category, "error", err)
		return model.ForecastResult{
			Trend:   model.TrendError,
			Factors: []string{"forecasting model failed"},
		}
	}
	return result
}

// weekdayPattern flags the weekday that dominates spending when it holds
// a clearly outsized share.
func (e *Engine) weekdayPattern(txns []model.Transaction) model.Insights {
	if len(txns) == 0 {
		return nil
	}

	var byDay [7]float64
	var total float64
	for _, t := range txns {
		byDay[int(t.Date.Weekday())] += t.Amount
		total += t.Amount
	}
	if total <= 0 {
		return nil
	}

	peak := 0
	for i := 1; i < 7; i++ {
		if byDay[i] > byDay[peak] {
			peak = i
		}
	}

	share := byDay[peak] / total
	// With seven days an even spread is ~14% each; double that is notable.
	if share < 2.0/7.0 {
		return nil
	}

	day := time.Weekday(peak).String()
	return model.Insights{{
		Type:       typeInfo,
		Title:      fmt.Sprintf("%s Is Your Biggest Spending Day", day),
		Message:    fmt.Sprintf("%.0f%% of your spending happens on %ss.", share*100, day),
		Action:     "Plan larger purchases ahead instead of deciding on the day",
		Priority:   model.PriorityLow,
		Confidence: model.ClampConfidence(share),
	}}
}

// categoryConcentration warns when one category absorbs more than half of
// all spending.
func (e *Engine) categoryConcentration(txns []model.Transaction) model.Insights {
	totals := categoryTotals(txns)
	var grand float64
	for _, v := range totals {
		grand += v
	}
	if grand <= 0 {
		return nil
	}

	for _, category := range sortedKeys(totals) {
		share := totals[category] / grand
		if share > concentrationThreshold {
			return model.Insights{{
				Type:       typeWarning,
				Title:      fmt.Sprintf("Spending Concentrated in %s", category),
				Message:    fmt.Sprintf("%s accounts for %.0f%% of your total spending ($%.2f).", category, share*100, totals[category]),
				Action:     "Check whether this category can be trimmed or rebalanced",
				Priority:   model.PriorityMedium,
				Confidence: model.ClampConfidence(share),
			}}
		}
	}
	return nil
}

// categoryOutliers flags individual transactions whose amount is unusual
// for their category.
func (e *Engine) categoryOutliers(txns []model.Transaction) model.Insights {
	byCategory := make(map[string][]model.Transaction)
	for _, t := range txns {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	var out model.Insights
	for _, category := range sortedTxnKeys(byCategory) {
		group := byCategory[category]
		amounts := make([]float64, len(group))
		for i, t := range group {
			amounts[i] = t.Amount
		}

		for i, t := range group {
			others := make([]float64, 0, len(amounts)-1)
			others = append(others, amounts[:i]...)
			others = append(others, amounts[i+1:]...)

			isOutlier, score := e.detector.Evaluate(others, t.Amount)
			if !isOutlier {
				continue
			}

			out = append(out, model.Insight{
				Type:       typeWarning,
				Title:      fmt.Sprintf("Unusual %s Transaction", category),
				Message:    fmt.Sprintf("%q ($%.2f) stands out from your usual %s spending.", t.Description, t.Amount, category),
				Action:     "Check whether this purchase was intentional",
				Priority:   model.PriorityHigh,
				Confidence: model.ClampConfidence(0.5 + math.Abs(score)),
			})
		}
	}
	return out
}

// monthSeasonality reports the month with the highest average spending.
// It needs a reasonable record count before the comparison means anything.
func (e *Engine) monthSeasonality(txns []model.Transaction) model.Insights {
	if len(txns) < seasonalityMinRecords {
		return nil
	}

	var totals [12]float64
	var counts [12]int
	for _, t := range txns {
		m := int(t.Date.Month()) - 1
		totals[m] += t.Amount
		counts[m]++
	}

	observed := 0
	peak := -1
	var peakAvg, sumAvg float64
	for m := 0; m < 12; m++ {
		if counts[m] == 0 {
			continue
		}
		observed++
		avg := totals[m] / float64(counts[m])
		sumAvg += avg
		if peak < 0 || avg > peakAvg {
			peak = m
			peakAvg = avg
		}
	}
	if observed < 2 {
		return nil
	}

	overallAvg := sumAvg / float64(observed)
	if overallAvg <= 0 || peakAvg < overallAvg*1.2 {
		return nil
	}

	month := time.Month(peak + 1).String()
	return model.Insights{{
		Type:       typeInfo,
		Title:      fmt.Sprintf("%s Is Your Most Expensive Month", month),
		Message:    fmt.Sprintf("Average spending in %s runs %.0f%% above your overall monthly average.", month, (peakAvg/overallAvg-1)*100),
		Action:     "Set aside extra budget ahead of this period",
		Priority:   model.PriorityLow,
		Confidence: 0.6,
	}}
}

// budgetDeviations recommends raising a budget the spending distribution
// has outgrown and lowering one it sits well under. The comparison point
// is mean plus two standard deviations, a high-but-expected month.
func (e *Engine) budgetDeviations(txns []model.Transaction, budgets map[string]float64) model.Insights {
	if len(budgets) == 0 {
		return nil
	}

	byCategory := make(map[string][]float64)
	for _, t := range txns {
		byCategory[t.Category] = append(byCategory[t.Category], t.Amount)
	}

	var out model.Insights
	for _, category := range sortedKeys(budgets) {
		budget := budgets[category]
		amounts := byCategory[category]
		if budget <= 0 || len(amounts) <= budgetMinRecords {
			continue
		}

		mean, stddev := meanStdDev(amounts)
		expectedHigh := mean + 2*stddev

		switch {
		case expectedHigh > budget*budgetRaiseFactor:
			out = append(out, model.Insight{
				Type:       typeWarning,
				Title:      fmt.Sprintf("%s Budget Looks Too Low", category),
				Message:    fmt.Sprintf("Typical high spending in %s reaches $%.2f against a $%.2f budget.", category, expectedHigh, budget),
				Action:     fmt.Sprintf("Consider raising the %s budget to about $%.0f", category, expectedHigh),
				Priority:   model.PriorityHigh,
				Confidence: 0.8,
			})
		case expectedHigh < budget*budgetLowerFactor:
			out = append(out, model.Insight{
				Type:       typeSuccess,
				Title:      fmt.Sprintf("%s Budget Has Headroom", category),
				Message:    fmt.Sprintf("Even high months in %s stay near $%.2f, well under the $%.2f budget.", category, expectedHigh, budget),
				Action:     fmt.Sprintf("Consider moving part of the %s budget toward savings", category),
				Priority:   model.PriorityMedium,
				Confidence: 0.8,
			})
		}
	}
	return out
}

// spendForecast adds a forward-looking 30-day estimate when the data
// supports one.
func (e *Engine) spendForecast(ctx context.Context, txns []model.Transaction) model.Insights {
	series := dailySeries(txns)
	result, err := e.forecaster.Forecast(ctx, series, forecastHorizonDays)
	if err != nil {
		e.logger.Warn("forecast analysis skipped", "error", err)
		return nil
	}
	if result.Trend == model.TrendInsufficientData || result.Trend == model.TrendError {
		return nil
	}

	priority := model.PriorityLow
	if result.Trend == model.TrendIncreasing {
		priority = model.PriorityMedium
	}

	return model.Insights{{
		Type:       typeInfo,
		Title:      "30-Day Spending Outlook",
		Message:    fmt.Sprintf("Projected spend over the next %d days is $%.2f (between $%.2f and $%.2f), trend %s.", forecastHorizonDays, result.PredictedAmount, result.Lower, result.Upper, result.Trend),
		Action:     "Compare the projection against your planned budget",
		Priority:   priority,
		Confidence: 0.7,
	}}
}

func filterExpenses(txns []model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.Kind == model.KindExpense {
			out = append(out, t)
		}
	}
	return out
}

// dailySeries aggregates transaction amounts per calendar day, sorted
// ascending.
func dailySeries(txns []model.Transaction) []service.DailyPoint {
	byDay := make(map[time.Time]float64)
	for _, t := range txns {
		day := time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)
		byDay[day] += t.Amount
	}

	out := make([]service.DailyPoint, 0, len(byDay))
	for day, amount := range byDay {
		out = append(out, service.DailyPoint{Date: day, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func categoryTotals(txns []model.Transaction) map[string]float64 {
	totals := make(map[string]float64)
	for _, t := range txns {
		totals[t.Category] += t.Amount
	}
	return totals
}

func meanStdDev(values []float64) (mean, stddev float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return mean, math.Sqrt(sumSq / float64(len(values)))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTxnKeys(m map[string][]model.Transaction) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
