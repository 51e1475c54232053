package store

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"resale-dashboard/internal/config"
	"resale-dashboard/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}

	st, err := Open(cfg, slog.Default())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

func TestStore_CreateAndList(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	item, err := st.Create(ctx, models.ItemDraft{Name: "Shoe", PurchasePrice: 50, Category: "Shoes"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if item.ID == 0 {
		t.Error("created item should have an id")
	}
	if item.Status != models.StatusUnsold {
		t.Errorf("status = %q, want %q", item.Status, models.StatusUnsold)
	}
	if item.SellPrice != nil || item.SellDate != nil {
		t.Error("unsold item should have no sell fields")
	}
	if item.Profit() != nil {
		t.Error("unsold item should have nil profit")
	}

	items, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Shoe" {
		t.Fatalf("expected single Shoe item, got %+v", items)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := st.Create(ctx, models.ItemDraft{Name: name, PurchasePrice: 1, Category: "C"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	items, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items[0].Name != "Third" || items[2].Name != "First" {
		t.Errorf("expected newest-first order, got %s..%s", items[0].Name, items[2].Name)
	}
}

func TestStore_SellTransition(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	item, err := st.Create(ctx, models.ItemDraft{Name: "Shoe", PurchasePrice: 50, Category: "Shoes"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sold, err := st.Sell(ctx, item.ID, models.SellRequest{SellPrice: 80, SellDate: "2024-01-10"})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}

	if sold.Status != models.StatusSold {
		t.Errorf("status = %q, want sold", sold.Status)
	}
	if sold.SellPrice == nil || *sold.SellPrice != 80 {
		t.Errorf("sell_price = %v, want 80", sold.SellPrice)
	}
	if sold.SellDate == nil || *sold.SellDate != "2024-01-10" {
		t.Errorf("sell_date = %v, want 2024-01-10", sold.SellDate)
	}
	if profit := sold.Profit(); profit == nil || *profit != 30 {
		t.Errorf("profit = %v, want 30", profit)
	}

	// Selling is one-way
	if _, err := st.Sell(ctx, item.ID, models.SellRequest{SellPrice: 90, SellDate: "2024-02-01"}); !errors.Is(err, ErrAlreadySold) {
		t.Errorf("second sell should fail with ErrAlreadySold, got %v", err)
	}
}

func TestStore_SellMissingItem(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Sell(context.Background(), 42, models.SellRequest{SellPrice: 10, SellDate: "2024-01-01"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UpdatePartial(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	item, err := st.Create(ctx, models.ItemDraft{Name: "Shoe", PurchasePrice: 50, Category: "Shoes"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Running Shoe"
	updated, err := st.Update(ctx, item.ID, models.ItemPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != "Running Shoe" {
		t.Errorf("name = %q, want Running Shoe", updated.Name)
	}
	if updated.PurchasePrice != 50 || updated.Category != "Shoes" {
		t.Error("untouched fields changed")
	}
	if updated.Status != models.StatusUnsold {
		t.Error("patch must not change status")
	}
}

func TestStore_UpdateEmptyPatch(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	item, err := st.Create(ctx, models.ItemDraft{Name: "Shoe", PurchasePrice: 50, Category: "Shoes"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := st.Update(ctx, item.ID, models.ItemPatch{}); !errors.Is(err, ErrEmptyPatch) {
		t.Errorf("expected ErrEmptyPatch, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	item, err := st.Create(ctx, models.ItemDraft{Name: "Shoe", PurchasePrice: 50, Category: "Shoes"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := st.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	items, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty list after delete, got %d items", len(items))
	}

	if err := st.Delete(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should report ErrNotFound, got %v", err)
	}
}

func TestStore_InsertBatchAtomic(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	inserted, err := st.InsertBatch(ctx, []models.ItemDraft{
		{Name: "A", PurchasePrice: 1, Category: "C1"},
		{Name: "B", PurchasePrice: 2, Category: "C2"},
	})
	if err != nil {
		t.Fatalf("insert batch: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}

	items, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestStore_Analysis(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	shoe, _ := st.Create(ctx, models.ItemDraft{Name: "Shoe", PurchasePrice: 50, Category: "Shoes"})
	boot, _ := st.Create(ctx, models.ItemDraft{Name: "Boot", PurchasePrice: 100, Category: "Shoes"})
	hat, _ := st.Create(ctx, models.ItemDraft{Name: "Hat", PurchasePrice: 10, Category: "Accessories"})
	if _, err := st.Create(ctx, models.ItemDraft{Name: "Unsold", PurchasePrice: 5, Category: "Accessories"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	st.Sell(ctx, shoe.ID, models.SellRequest{SellPrice: 80, SellDate: "2024-01-10"})
	st.Sell(ctx, boot.ID, models.SellRequest{SellPrice: 120, SellDate: "2024-01-11"})
	st.Sell(ctx, hat.ID, models.SellRequest{SellPrice: 8, SellDate: "2024-01-12"})

	analysis, err := st.Analysis(ctx)
	if err != nil {
		t.Fatalf("analysis: %v", err)
	}
	if len(analysis) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(analysis))
	}

	// ordered by category: Accessories then Shoes
	accessories, shoes := analysis[0], analysis[1]

	if accessories.Category != "Accessories" || accessories.ItemsSold != 1 {
		t.Errorf("accessories row wrong: %+v", accessories)
	}
	if accessories.TotalProfit != -2 {
		t.Errorf("accessories total_profit = %v, want -2", accessories.TotalProfit)
	}

	if shoes.ItemsSold != 2 {
		t.Errorf("shoes items_sold = %d, want 2", shoes.ItemsSold)
	}
	if shoes.TotalRevenue != 200 {
		t.Errorf("shoes total_revenue = %v, want 200", shoes.TotalRevenue)
	}
	if shoes.TotalProfit != 50 {
		t.Errorf("shoes total_profit = %v, want 50", shoes.TotalProfit)
	}
	if shoes.AverageProfit != 25 {
		t.Errorf("shoes average_profit = %v, want 25", shoes.AverageProfit)
	}
}

func TestStore_AnalysisEmptyWithoutSales(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.Create(ctx, models.ItemDraft{Name: "Shoe", PurchasePrice: 50, Category: "Shoes"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	analysis, err := st.Analysis(ctx)
	if err != nil {
		t.Fatalf("analysis: %v", err)
	}
	if len(analysis) != 0 {
		t.Errorf("expected no rows without sold items, got %d", len(analysis))
	}
}

func TestStore_Stats(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	shoe, _ := st.Create(ctx, models.ItemDraft{Name: "Shoe", PurchasePrice: 50, Category: "Shoes"})
	st.Create(ctx, models.ItemDraft{Name: "Hat", PurchasePrice: 10, Category: "Accessories"})
	st.Sell(ctx, shoe.ID, models.SellRequest{SellPrice: 80, SellDate: "2024-01-10"})

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats["items"] != 2 {
		t.Errorf("items = %v, want 2", stats["items"])
	}
	if stats["sold_items"] != 1 {
		t.Errorf("sold_items = %v, want 1", stats["sold_items"])
	}
	if stats["categories"] != 2 {
		t.Errorf("categories = %v, want 2", stats["categories"])
	}
}

func TestRebind(t *testing.T) {
	sqlite := &Store{driver: "sqlite"}
	if got := sqlite.rebind("SELECT * FROM items WHERE id = ?"); got != "SELECT * FROM items WHERE id = ?" {
		t.Errorf("sqlite rebind should be a no-op, got %q", got)
	}

	pg := &Store{driver: "postgres"}
	if got := pg.rebind("UPDATE items SET name = ?, category = ? WHERE id = ?"); got != "UPDATE items SET name = $1, category = $2 WHERE id = $3" {
		t.Errorf("postgres rebind wrong: %q", got)
	}
}
