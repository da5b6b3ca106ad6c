package model

// TrendDirection describes where a spend forecast is heading.
type TrendDirection string

const (
	// TrendIncreasing means the decomposed trend rises over the horizon.
	TrendIncreasing TrendDirection = "increasing"
	// TrendDecreasing means the decomposed trend falls over the horizon.
	TrendDecreasing TrendDirection = "decreasing"
	// TrendInsufficientData means too few points existed to forecast.
	TrendInsufficientData TrendDirection = "insufficient_data"
	// TrendError means the forecasting model itself failed.
	TrendError TrendDirection = "error"
)

// ForecastResult is a short-horizon spend prediction with uncertainty.
// Lower <= Upper always holds; both are clamped at zero.
type ForecastResult struct {
	Seasonal        map[string]float64
	Factors         []string
	Trend           TrendDirection
	PredictedAmount float64
	Lower           float64
	Upper           float64
}

// InsufficientDataForecast is the defined no-opinion result returned when
// fewer daily points exist than the model requires.
func InsufficientDataForecast(reason string) ForecastResult {
	return ForecastResult{
		Trend:   TrendInsufficientData,
		Factors: []string{reason},
	}
}
