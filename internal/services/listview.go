package services

import (
	"slices"
	"strings"

	"resale-dashboard/internal/models"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func (d Direction) flip() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// CategoryAll is the filter value that matches every category.
const CategoryAll = "All"

type FilterSpec struct {
	Category   string
	SearchTerm string
}

type SortSpec struct {
	Key       string
	Direction Direction
}

// SortState tracks the active sort of one table. Clicking the active key
// flips its direction; clicking a new key resets to the table's default.
// The items table defaults to ascending, the analysis table to descending,
// and the two policies are deliberately kept separate.
type SortState struct {
	Key        string
	Direction  Direction
	defaultDir Direction
}

func NewSortState(defaultDir Direction) *SortState {
	return &SortState{defaultDir: defaultDir}
}

func NewSortStateWith(key string, dir, defaultDir Direction) *SortState {
	return &SortState{Key: key, Direction: dir, defaultDir: defaultDir}
}

func (s *SortState) Toggle(key string) {
	if s.Key == key && s.Key != "" {
		s.Direction = s.Direction.flip()
		return
	}
	s.Key = key
	s.Direction = s.defaultDir
}

func (s *SortState) Spec() SortSpec {
	return SortSpec{Key: s.Key, Direction: s.Direction}
}

// FilterItems returns the subsequence matching the filter: category "All" (or
// empty) passes everything, the search term matches item names as a
// case-insensitive substring. The input is never mutated.
func FilterItems(items []models.Item, spec FilterSpec) []models.Item {
	filtered := make([]models.Item, 0, len(items))
	needle := strings.ToLower(spec.SearchTerm)
	for _, item := range items {
		if spec.Category != "" && spec.Category != CategoryAll && item.Category != spec.Category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// DecorateItems attaches the derived profit to each item.
func DecorateItems(items []models.Item) []models.ItemView {
	views := make([]models.ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, models.NewItemView(item))
	}
	return views
}

// sortValue extracts a comparable value for a sort key. present is false for
// null-valued fields, which sort after everything else in both directions.
func sortValue(v models.ItemView, key string) (num float64, str string, numeric, present bool) {
	switch key {
	case "name":
		return 0, v.Name, false, true
	case "category":
		return 0, v.Category, false, true
	case "status":
		return 0, v.Status, false, true
	case "purchase_price":
		return v.PurchasePrice, "", true, true
	case "sell_price":
		if v.SellPrice == nil {
			return 0, "", true, false
		}
		return *v.SellPrice, "", true, true
	case "sell_date":
		// ISO dates compare chronologically as strings
		if v.SellDate == nil {
			return 0, "", false, false
		}
		return 0, *v.SellDate, false, true
	case "profit":
		if v.Profit == nil {
			return 0, "", true, false
		}
		return *v.Profit, "", true, true
	default:
		return 0, "", false, false
	}
}

// compareOrdered applies the nulls-last total order: an absent value sorts
// after any present value regardless of direction; present pairs use natural
// ordering, negated when descending.
func compareOrdered(aNum float64, aStr string, aPresent bool, bNum float64, bStr string, bPresent, numeric bool, dir Direction) int {
	if !aPresent && !bPresent {
		return 0
	}
	if !aPresent {
		return 1
	}
	if !bPresent {
		return -1
	}

	var c int
	if numeric {
		switch {
		case aNum < bNum:
			c = -1
		case aNum > bNum:
			c = 1
		}
	} else {
		c = strings.Compare(aStr, bStr)
	}

	if dir == Descending {
		c = -c
	}
	return c
}

// SortItems returns a new, stably sorted copy of views. An empty key leaves
// the order untouched.
func SortItems(views []models.ItemView, spec SortSpec) []models.ItemView {
	sorted := slices.Clone(views)
	if spec.Key == "" {
		return sorted
	}
	slices.SortStableFunc(sorted, func(a, b models.ItemView) int {
		aNum, aStr, numeric, aPresent := sortValue(a, spec.Key)
		bNum, bStr, _, bPresent := sortValue(b, spec.Key)
		return compareOrdered(aNum, aStr, aPresent, bNum, bStr, bPresent, numeric, spec.Direction)
	})
	return sorted
}

// Categories lists the distinct categories in first-seen order, prefixed with
// the "All" pseudo-category for the filter dropdown.
func Categories(items []models.Item) []string {
	categories := []string{CategoryAll}
	seen := make(map[string]bool)
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories
}
