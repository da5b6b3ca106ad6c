package cli

import (
	"fmt"
	"strings"

	"github.com/wisefig/ledgerlens/internal/model"
)

// RenderCategorization formats a categorization result for the terminal.
func RenderCategorization(description string, result model.CategorizationResult) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Categorization"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Description:"), description))
	b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Category:"), SuccessStyle.Render(result.Category)))
	b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Confidence:"), renderConfidence(result.Confidence)))
	b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Reasoning:"), SubtleStyle.Render(result.Reasoning)))

	if result.IsAnomaly {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("⚠ Amount looks unusual for this category (score %.3f)", result.AnomalyScore)))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderReceipt formats a receipt extraction for the terminal.
func RenderReceipt(extraction model.ReceiptExtraction) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Receipt"))
	b.WriteString("\n")

	if extraction.Vendor != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Vendor:"), extraction.Vendor))
	} else {
		b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Vendor:"), SubtleStyle.Render("not found")))
	}

	if extraction.Amount != nil {
		b.WriteString(fmt.Sprintf("%s $%.2f\n", BoldStyle.Render("Amount:"), *extraction.Amount))
	} else {
		b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Amount:"), SubtleStyle.Render("not found")))
	}

	if extraction.Date != nil {
		b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Date:"), extraction.Date.Format("2006-01-02")))
	} else {
		b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Date:"), SubtleStyle.Render("not found")))
	}

	b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Category:"), SuccessStyle.Render(extraction.Category)))
	b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Confidence:"), renderConfidence(extraction.Confidence)))

	return b.String()
}

// RenderInsights formats an insight list as a styled report.
func RenderInsights(insights model.Insights) string {
	if len(insights) == 0 {
		return SubtleStyle.Render("No insights yet. Record more transactions and check back.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Insights (%d)", len(insights))))
	b.WriteString("\n")

	for i, insight := range insights {
		title := fmt.Sprintf("%d. %s %s", i+1, priorityBadge(insight.Priority), insight.Title)
		body := fmt.Sprintf("%s\n%s", insight.Message, SubtleStyle.Render("→ "+insight.Action))

		b.WriteString(BoldStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n\n")
	}

	return b.String()
}

// RenderForecast formats a forecast result for the terminal.
func RenderForecast(result model.ForecastResult, horizonDays int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%d-Day Forecast", horizonDays)))
	b.WriteString("\n")

	switch result.Trend {
	case model.TrendInsufficientData:
		b.WriteString(WarningStyle.Render("Not enough history to forecast yet."))
		b.WriteString("\n")
		for _, factor := range result.Factors {
			b.WriteString(SubtleStyle.Render(factor))
			b.WriteString("\n")
		}
		return b.String()
	case model.TrendError:
		b.WriteString(ErrorStyle.Render("Forecasting model failed; try again later."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s $%.2f\n", BoldStyle.Render("Predicted spend:"), result.PredictedAmount))
	b.WriteString(fmt.Sprintf("%s $%.2f – $%.2f\n", BoldStyle.Render("Likely range:"), result.Lower, result.Upper))
	b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Trend:"), renderTrend(result.Trend)))

	for _, factor := range result.Factors {
		b.WriteString(SubtleStyle.Render("• " + factor))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHistory formats recent transactions as a table.
func RenderHistory(txns []model.Transaction) string {
	if len(txns) == 0 {
		return SubtleStyle.Render("No transactions recorded.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-12s %-30s %-12s %10s", "Date", "Description", "Category", "Amount")))
	b.WriteString("\n")

	for _, txn := range txns {
		desc := txn.Description
		if len(desc) > 30 {
			desc = desc[:27] + "..."
		}
		amount := fmt.Sprintf("$%.2f", txn.Amount)
		if txn.Kind == model.KindExpense {
			amount = "-" + amount
		}
		b.WriteString(TableCellStyle.Render(fmt.Sprintf("%-12s %-30s %-12s %10s",
			txn.Date.Format("2006-01-02"), desc, txn.Category, amount)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderConfidence(c float64) string {
	text := fmt.Sprintf("%.0f%%", c*100)
	switch {
	case c >= 0.8:
		return SuccessStyle.Render(text)
	case c >= 0.5:
		return WarningStyle.Render(text)
	default:
		return ErrorStyle.Render(text)
	}
}

func priorityBadge(p model.InsightPriority) string {
	switch p {
	case model.PriorityHigh:
		return ErrorStyle.Render("[HIGH]")
	case model.PriorityMedium:
		return WarningStyle.Render("[MED]")
	default:
		return InfoStyle.Render("[LOW]")
	}
}

func renderTrend(t model.TrendDirection) string {
	switch t {
	case model.TrendIncreasing:
		return WarningStyle.Render("increasing")
	case model.TrendDecreasing:
		return SuccessStyle.Render("decreasing")
	default:
		return SubtleStyle.Render(string(t))
	}
}
