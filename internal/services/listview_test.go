package services

import (
	"testing"

	"resale-dashboard/internal/models"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func testItems() []models.Item {
	return []models.Item{
		{ID: 4, Name: "Shoe", Category: "Shoes", PurchasePrice: 50, Status: models.StatusUnsold},
		{ID: 3, Name: "Hat", Category: "Accessories", PurchasePrice: 10, Status: models.StatusSold, SellPrice: fptr(25), SellDate: sptr("2024-01-05")},
		{ID: 2, Name: "Scarf", Category: "Accessories", PurchasePrice: 15, Status: models.StatusSold, SellPrice: fptr(12), SellDate: sptr("2024-02-01")},
		{ID: 1, Name: "Jacket", Category: "Clothing", PurchasePrice: 80, Status: models.StatusUnsold},
	}
}

func TestFilterItems_CategoryAllIsIdentity(t *testing.T) {
	items := testItems()

	all := FilterItems(items, FilterSpec{Category: CategoryAll})
	none := FilterItems(items, FilterSpec{})

	if len(all) != len(items) || len(none) != len(items) {
		t.Fatalf("expected %d items for All and empty filters, got %d and %d", len(items), len(all), len(none))
	}
	for i := range items {
		if all[i].ID != items[i].ID {
			t.Errorf("All filter reordered items at %d", i)
		}
	}
}

func TestFilterItems_ByCategory(t *testing.T) {
	filtered := FilterItems(testItems(), FilterSpec{Category: "Accessories"})

	if len(filtered) != 2 {
		t.Fatalf("expected 2 accessories, got %d", len(filtered))
	}
	for _, item := range filtered {
		if item.Category != "Accessories" {
			t.Errorf("unexpected category %q", item.Category)
		}
	}
}

func TestFilterItems_SearchCaseInsensitiveSubstring(t *testing.T) {
	items := []models.Item{
		{ID: 1, Name: "Shoe", Category: "Shoes"},
		{ID: 2, Name: "Hat", Category: "Accessories"},
	}

	filtered := FilterItems(items, FilterSpec{SearchTerm: "sh"})

	if len(filtered) != 1 || filtered[0].Name != "Shoe" {
		t.Fatalf("expected only Shoe, got %+v", filtered)
	}
}

func TestFilterItems_DoesNotMutateInput(t *testing.T) {
	items := testItems()
	FilterItems(items, FilterSpec{Category: "Clothing", SearchTerm: "ja"})

	if items[0].Name != "Shoe" || len(items) != 4 {
		t.Error("FilterItems mutated its input")
	}
}

func TestDecorateItems_ProfitDerivation(t *testing.T) {
	views := DecorateItems(testItems())

	for _, v := range views {
		switch v.Name {
		case "Hat":
			if v.Profit == nil || *v.Profit != 15 {
				t.Errorf("Hat profit = %v, want 15", v.Profit)
			}
		case "Scarf":
			if v.Profit == nil || *v.Profit != -3 {
				t.Errorf("Scarf profit = %v, want -3", v.Profit)
			}
		default:
			if v.Profit != nil {
				t.Errorf("%s is unsold, profit should be nil, got %v", v.Name, *v.Profit)
			}
		}
	}
}

func TestSortItems_NullsLastBothDirections(t *testing.T) {
	views := DecorateItems(testItems())

	for _, dir := range []Direction{Ascending, Descending} {
		sorted := SortItems(views, SortSpec{Key: "profit", Direction: dir})
		if len(sorted) != 4 {
			t.Fatalf("expected 4 items, got %d", len(sorted))
		}
		// Unsold items carry nil profit and must trail in both directions
		for _, v := range sorted[:2] {
			if v.Profit == nil {
				t.Errorf("direction %s: nil profit sorted before non-nil", dir)
			}
		}
		for _, v := range sorted[2:] {
			if v.Profit != nil {
				t.Errorf("direction %s: non-nil profit sorted after nil", dir)
			}
		}
	}
}

func TestSortItems_FlippedDirectionReversesNonNull(t *testing.T) {
	views := DecorateItems(testItems())

	asc := SortItems(views, SortSpec{Key: "sell_price", Direction: Ascending})
	desc := SortItems(views, SortSpec{Key: "sell_price", Direction: Descending})

	if *asc[0].SellPrice != 12 || *asc[1].SellPrice != 25 {
		t.Errorf("ascending sell_price order wrong: %v, %v", *asc[0].SellPrice, *asc[1].SellPrice)
	}
	if *desc[0].SellPrice != 25 || *desc[1].SellPrice != 12 {
		t.Errorf("descending sell_price order wrong: %v, %v", *desc[0].SellPrice, *desc[1].SellPrice)
	}
}

func TestSortItems_Idempotent(t *testing.T) {
	views := DecorateItems(testItems())
	spec := SortSpec{Key: "name", Direction: Ascending}

	once := SortItems(views, spec)
	twice := SortItems(once, spec)

	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("re-sorting changed order at index %d", i)
		}
	}
}

func TestSortItems_StableOnEqualKeys(t *testing.T) {
	views := DecorateItems(testItems())

	sorted := SortItems(views, SortSpec{Key: "category", Direction: Ascending})

	// Hat (ID 3) precedes Scarf (ID 2) in the input and shares the category
	var hatIdx, scarfIdx int
	for i, v := range sorted {
		switch v.Name {
		case "Hat":
			hatIdx = i
		case "Scarf":
			scarfIdx = i
		}
	}
	if hatIdx > scarfIdx {
		t.Error("stable sort should keep Hat before Scarf within Accessories")
	}
}

func TestSortItems_DoesNotMutateInput(t *testing.T) {
	views := DecorateItems(testItems())
	SortItems(views, SortSpec{Key: "name", Direction: Ascending})

	if views[0].Name != "Shoe" {
		t.Error("SortItems mutated its input")
	}
}

func TestSortItems_DateKeyChronological(t *testing.T) {
	views := DecorateItems(testItems())

	sorted := SortItems(views, SortSpec{Key: "sell_date", Direction: Ascending})

	if *sorted[0].SellDate != "2024-01-05" || *sorted[1].SellDate != "2024-02-01" {
		t.Errorf("sell_date order wrong: %v, %v", *sorted[0].SellDate, *sorted[1].SellDate)
	}
}

func TestSortState_ItemsTogglePolicy(t *testing.T) {
	state := NewSortState(Ascending)

	state.Toggle("name")
	if state.Key != "name" || state.Direction != Ascending {
		t.Fatalf("new key should start ascending, got %s %s", state.Key, state.Direction)
	}

	state.Toggle("name")
	if state.Direction != Descending {
		t.Fatalf("second click should flip to descending, got %s", state.Direction)
	}

	state.Toggle("name")
	if state.Direction != Ascending {
		t.Fatalf("third click should flip back to ascending, got %s", state.Direction)
	}

	state.Toggle("profit")
	if state.Key != "profit" || state.Direction != Ascending {
		t.Fatalf("switching key should reset to ascending, got %s %s", state.Key, state.Direction)
	}
}

func TestSortState_AnalysisTogglePolicy(t *testing.T) {
	state := NewSortStateWith("total_profit", Descending, Descending)

	state.Toggle("total_profit")
	if state.Direction != Ascending {
		t.Fatalf("clicking active key should flip to ascending, got %s", state.Direction)
	}

	state.Toggle("category")
	if state.Key != "category" || state.Direction != Descending {
		t.Fatalf("new key should start descending, got %s %s", state.Key, state.Direction)
	}
}

func TestCategories(t *testing.T) {
	categories := Categories(testItems())

	want := []string{CategoryAll, "Shoes", "Accessories", "Clothing"}
	if len(categories) != len(want) {
		t.Fatalf("expected %v, got %v", want, categories)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, categories[i], want[i])
		}
	}
}
