package services

import (
	"context"
	"log/slog"

	"resale-dashboard/internal/models"
	"resale-dashboard/internal/store"

	"golang.org/x/sync/errgroup"
)

const recentItemsLimit = 4

// ProfitBar is one row of the dashboard's profit-by-category card: the
// category's total profit and its width relative to the best category.
type ProfitBar struct {
	Category    string  `json:"category"`
	TotalProfit float64 `json:"total_profit"`
	Share       float64 `json:"share"`
}

// Snapshot is everything the dashboard page shows at once.
type Snapshot struct {
	TotalItems  int               `json:"total_items"`
	SoldItems   int               `json:"sold_items"`
	RecentItems []models.ItemView `json:"recent_items"`
	ProfitBars  []ProfitBar       `json:"profit_bars"`
}

// Dashboard assembles the snapshot from the store. Items and analysis load
// concurrently; the page needs both before it can render anything.
type Dashboard struct {
	store  *store.Store
	logger *slog.Logger
}

func NewDashboard(st *store.Store, logger *slog.Logger) *Dashboard {
	return &Dashboard{store: st, logger: logger}
}

func (d *Dashboard) Snapshot(ctx context.Context) (Snapshot, error) {
	var (
		items    []models.Item
		analysis []models.CategoryAnalysis
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = d.store.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		analysis, err = d.store.Analysis(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	sold := 0
	for _, item := range items {
		if item.Sold() {
			sold++
		}
	}

	recent := items
	if len(recent) > recentItemsLimit {
		recent = recent[:recentItemsLimit]
	}

	shares := ShareOfMax(analysis)
	bars := make([]ProfitBar, len(analysis))
	for i, row := range analysis {
		bars[i] = ProfitBar{
			Category:    row.Category,
			TotalProfit: row.TotalProfit,
			Share:       shares[i],
		}
	}

	return Snapshot{
		TotalItems:  len(items),
		SoldItems:   sold,
		RecentItems: DecorateItems(recent),
		ProfitBars:  bars,
	}, nil
}
