package models

import (
	"strings"
	"time"
)

const (
	StatusUnsold = "unsold"
	StatusSold   = "sold"
)

// Item is a single tracked purchase/resale unit. SellPrice and SellDate are
// set together when the item transitions to sold and never before.
type Item struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	PurchasePrice float64  `json:"purchase_price"`
	Status        string   `json:"status"`
	SellPrice     *float64 `json:"sell_price"`
	SellDate      *string  `json:"sell_date"`
}

func (i Item) Sold() bool {
	return i.Status == StatusSold
}

// Profit returns sell_price - purchase_price for sold items and nil otherwise.
func (i Item) Profit() *float64 {
	if !i.Sold() || i.SellPrice == nil {
		return nil
	}
	p := *i.SellPrice - i.PurchasePrice
	return &p
}

// ItemView decorates an Item with its derived profit for sorting and display.
type ItemView struct {
	Item
	Profit *float64 `json:"profit"`
}

func NewItemView(item Item) ItemView {
	return ItemView{Item: item, Profit: item.Profit()}
}

// ItemDraft carries the fields a caller supplies when creating an item,
// directly or through a spreadsheet import.
type ItemDraft struct {
	Name          string  `json:"name"`
	PurchasePrice float64 `json:"purchase_price"`
	Category      string  `json:"category"`
}

func (d ItemDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errEmptyName
	}
	if strings.TrimSpace(d.Category) == "" {
		return errEmptyCategory
	}
	if d.PurchasePrice < 0 {
		return errNegativePrice
	}
	return nil
}

// ItemPatch is a partial edit of an item. Status and sell fields are not
// editable through a patch.
type ItemPatch struct {
	Name          *string  `json:"name"`
	PurchasePrice *float64 `json:"purchase_price"`
	Category      *string  `json:"category"`
}

func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.PurchasePrice == nil && p.Category == nil
}

func (p ItemPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errEmptyName
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return errEmptyCategory
	}
	if p.PurchasePrice != nil && *p.PurchasePrice < 0 {
		return errNegativePrice
	}
	return nil
}

// SellRequest fixes the sale price and date of an unsold item.
type SellRequest struct {
	SellPrice float64 `json:"sell_price"`
	SellDate  string  `json:"sell_date"`
}

func (s SellRequest) Validate() error {
	if s.SellPrice < 0 {
		return errNegativePrice
	}
	if _, err := time.Parse("2006-01-02", s.SellDate); err != nil {
		return errBadSellDate
	}
	return nil
}

// CategoryAnalysis is a server-computed aggregate over the sold items of one
// category.
type CategoryAnalysis struct {
	Category      string  `json:"category"`
	ItemsSold     int     `json:"items_sold"`
	TotalRevenue  float64 `json:"total_revenue"`
	AverageProfit float64 `json:"average_profit"`
	TotalProfit   float64 `json:"total_profit"`
}

// ImportSummary reports the outcome of a bulk spreadsheet import.
type ImportSummary struct {
	Inserted int    `json:"-"`
	Message  string `json:"message"`
}

type GeneratedDescription struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type GeneratedImage struct {
	ImageURL string `json:"imageUrl"`
}
