package services

import (
	"fmt"
	"slices"

	"resale-dashboard/internal/models"
)

// analysisSortValue extracts a comparable value per analysis column. Every
// column is always present; only the items table has nullable sort keys.
func analysisSortValue(row models.CategoryAnalysis, key string) (num float64, str string, numeric, present bool) {
	switch key {
	case "category":
		return 0, row.Category, false, true
	case "items_sold":
		return float64(row.ItemsSold), "", true, true
	case "total_revenue":
		return row.TotalRevenue, "", true, true
	case "average_profit":
		return row.AverageProfit, "", true, true
	case "total_profit":
		return row.TotalProfit, "", true, true
	default:
		return 0, "", false, false
	}
}

// SortAnalysis returns a new, stably sorted copy of the analysis rows.
func SortAnalysis(rows []models.CategoryAnalysis, spec SortSpec) []models.CategoryAnalysis {
	sorted := slices.Clone(rows)
	if spec.Key == "" {
		return sorted
	}
	slices.SortStableFunc(sorted, func(a, b models.CategoryAnalysis) int {
		aNum, aStr, numeric, aPresent := analysisSortValue(a, spec.Key)
		bNum, bStr, _, bPresent := analysisSortValue(b, spec.Key)
		return compareOrdered(aNum, aStr, aPresent, bNum, bStr, bPresent, numeric, spec.Direction)
	})
	return sorted
}

// ChartSeries is one labeled dataset of a bar chart.
type ChartSeries struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// PieChart carries the share-of-profit projection: profitable categories
// only. Rows with non-positive total profit are excluded here but stay in
// the table.
type PieChart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// BarChart carries revenue and profit per category for every row, in the
// caller's sort order.
type BarChart struct {
	Labels []string      `json:"labels"`
	Series []ChartSeries `json:"series"`
}

func PieProjection(rows []models.CategoryAnalysis) PieChart {
	chart := PieChart{Labels: []string{}, Values: []float64{}}
	for _, row := range rows {
		if row.TotalProfit > 0 {
			chart.Labels = append(chart.Labels, row.Category)
			chart.Values = append(chart.Values, row.TotalProfit)
		}
	}
	return chart
}

func BarProjection(rows []models.CategoryAnalysis) BarChart {
	chart := BarChart{
		Labels: make([]string, 0, len(rows)),
		Series: []ChartSeries{
			{Label: "Całkowity przychód", Values: make([]float64, 0, len(rows))},
			{Label: "Całkowity zysk", Values: make([]float64, 0, len(rows))},
		},
	}
	for _, row := range rows {
		chart.Labels = append(chart.Labels, row.Category)
		chart.Series[0].Values = append(chart.Series[0].Values, row.TotalRevenue)
		chart.Series[1].Values = append(chart.Series[1].Values, row.TotalProfit)
	}
	return chart
}

// ProfitClass maps a profit value to its semantic CSS class. Zero counts as
// profit.
func ProfitClass(v float64) string {
	if v >= 0 {
		return "profit"
	}
	return "loss"
}

// ShareOfMax returns each row's total profit as a percentage of the largest
// one, for progress-bar widths. The max is clamped at zero, matching the
// dashboard's Math.max(..., 0); a non-positive max yields all-zero shares.
func ShareOfMax(rows []models.CategoryAnalysis) []float64 {
	maxProfit := 0.0
	for _, row := range rows {
		if row.TotalProfit > maxProfit {
			maxProfit = row.TotalProfit
		}
	}

	shares := make([]float64, len(rows))
	if maxProfit <= 0 {
		return shares
	}
	for i, row := range rows {
		shares[i] = row.TotalProfit / maxProfit * 100
	}
	return shares
}

// FormatPLN renders a monetary value the way every table cell does: two
// decimals and the currency suffix.
func FormatPLN(v float64) string {
	return fmt.Sprintf("%.2f PLN", v)
}
