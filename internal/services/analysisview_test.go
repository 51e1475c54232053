package services

import (
	"testing"

	"resale-dashboard/internal/models"
)

func testAnalysis() []models.CategoryAnalysis {
	return []models.CategoryAnalysis{
		{Category: "Accessories", ItemsSold: 2, TotalRevenue: 37, AverageProfit: 6, TotalProfit: 12},
		{Category: "Clothing", ItemsSold: 1, TotalRevenue: 60, AverageProfit: -20, TotalProfit: -20},
		{Category: "Shoes", ItemsSold: 3, TotalRevenue: 240, AverageProfit: 30, TotalProfit: 90},
	}
}

func TestSortAnalysis_DescendingTotalProfit(t *testing.T) {
	sorted := SortAnalysis(testAnalysis(), SortSpec{Key: "total_profit", Direction: Descending})

	want := []string{"Shoes", "Accessories", "Clothing"}
	for i, category := range want {
		if sorted[i].Category != category {
			t.Errorf("sorted[%d] = %q, want %q", i, sorted[i].Category, category)
		}
	}
}

func TestSortAnalysis_DoesNotMutateInput(t *testing.T) {
	rows := testAnalysis()
	SortAnalysis(rows, SortSpec{Key: "items_sold", Direction: Descending})

	if rows[0].Category != "Accessories" {
		t.Error("SortAnalysis mutated its input")
	}
}

func TestPieProjection_ExcludesNonPositiveProfit(t *testing.T) {
	rows := []models.CategoryAnalysis{
		{Category: "Zero", TotalProfit: 0},
		{Category: "Negative", TotalProfit: -5},
		{Category: "Tiny", TotalProfit: 0.01},
	}

	pie := PieProjection(rows)

	if len(pie.Labels) != 1 || pie.Labels[0] != "Tiny" {
		t.Fatalf("expected only Tiny in pie projection, got %v", pie.Labels)
	}
	if pie.Values[0] != 0.01 {
		t.Errorf("pie value = %v, want 0.01", pie.Values[0])
	}
}

func TestBarProjection_IncludesEveryRow(t *testing.T) {
	rows := testAnalysis()

	bar := BarProjection(rows)

	if len(bar.Labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(bar.Labels))
	}
	if len(bar.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(bar.Series))
	}
	if bar.Series[0].Values[2] != 240 {
		t.Errorf("revenue series[2] = %v, want 240", bar.Series[0].Values[2])
	}
	if bar.Series[1].Values[1] != -20 {
		t.Errorf("profit series[1] = %v, want -20 (losses stay in the bar chart)", bar.Series[1].Values[1])
	}
}

func TestProfitClass_ZeroIsProfit(t *testing.T) {
	if got := ProfitClass(0); got != "profit" {
		t.Errorf("ProfitClass(0) = %q, want profit", got)
	}
	if got := ProfitClass(-0.01); got != "loss" {
		t.Errorf("ProfitClass(-0.01) = %q, want loss", got)
	}
	if got := ProfitClass(0.01); got != "profit" {
		t.Errorf("ProfitClass(0.01) = %q, want profit", got)
	}
}

func TestShareOfMax(t *testing.T) {
	shares := ShareOfMax(testAnalysis())

	if shares[2] != 100 {
		t.Errorf("best category share = %v, want 100", shares[2])
	}
	if shares[0] < 13.3 || shares[0] > 13.4 {
		t.Errorf("Accessories share = %v, want ~13.33", shares[0])
	}
}

func TestShareOfMax_AllNonPositive(t *testing.T) {
	shares := ShareOfMax([]models.CategoryAnalysis{
		{Category: "A", TotalProfit: -1},
		{Category: "B", TotalProfit: 0},
	})

	for i, share := range shares {
		if share != 0 {
			t.Errorf("share[%d] = %v, want 0 when no category is profitable", i, share)
		}
	}
}

func TestFormatPLN(t *testing.T) {
	if got := FormatPLN(12.5); got != "12.50 PLN" {
		t.Errorf("FormatPLN(12.5) = %q, want \"12.50 PLN\"", got)
	}
	if got := FormatPLN(-3); got != "-3.00 PLN" {
		t.Errorf("FormatPLN(-3) = %q", got)
	}
}
