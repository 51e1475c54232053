package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"resale-dashboard/internal/config"
	"resale-dashboard/internal/models"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound    = errors.New("item not found")
	ErrAlreadySold = errors.New("item already sold")
	ErrEmptyPatch  = errors.New("no fields to update")
)

// Store owns the items table. Queries are written with ? placeholders and
// rebound to $N when the postgres driver is selected.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// A single writer avoids SQLITE_BUSY under concurrent requests.
		db.SetMaxOpenConns(1)
	}

	logger.Info("database connected", "driver", cfg.Driver)

	return &Store{db: db, driver: cfg.Driver, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	priceType := "REAL"
	if s.driver == "postgres" {
		idColumn = "id BIGSERIAL PRIMARY KEY"
		priceType = "DOUBLE PRECISION"
	}

	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS items (
		%s,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		purchase_price %s NOT NULL,
		status TEXT NOT NULL DEFAULT '%s',
		sell_price %s,
		sell_date TEXT
	)`, idColumn, priceType, models.StatusUnsold, priceType)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $1..$N for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const itemColumns = "id, name, category, purchase_price, status, sell_price, sell_date"

func scanItem(row interface{ Scan(...any) error }) (models.Item, error) {
	var (
		item      models.Item
		sellPrice sql.NullFloat64
		sellDate  sql.NullString
	)
	err := row.Scan(&item.ID, &item.Name, &item.Category, &item.PurchasePrice, &item.Status, &sellPrice, &sellDate)
	if err != nil {
		return models.Item{}, err
	}
	if sellPrice.Valid {
		item.SellPrice = &sellPrice.Float64
	}
	if sellDate.Valid && sellDate.String != "" {
		item.SellDate = &sellDate.String
	}
	return item, nil
}

// List returns all items newest-first.
func (s *Store) List(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+itemColumns+" FROM items ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func (s *Store) Get(ctx context.Context, id int64) (models.Item, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+itemColumns+" FROM items WHERE id = ?"), id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

func (s *Store) Create(ctx context.Context, draft models.ItemDraft) (models.Item, error) {
	if s.driver == "postgres" {
		var id int64
		err := s.db.QueryRowContext(ctx,
			s.rebind("INSERT INTO items (name, category, purchase_price, status) VALUES (?, ?, ?, ?) RETURNING id"),
			draft.Name, draft.Category, draft.PurchasePrice, models.StatusUnsold,
		).Scan(&id)
		if err != nil {
			return models.Item{}, fmt.Errorf("insert item: %w", err)
		}
		return s.Get(ctx, id)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO items (name, category, purchase_price, status) VALUES (?, ?, ?, ?)",
		draft.Name, draft.Category, draft.PurchasePrice, models.StatusUnsold,
	)
	if err != nil {
		return models.Item{}, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Item{}, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(ctx, id)
}

// Update applies a partial edit of name/category/purchase_price. Status and
// sell fields are never touched here.
func (s *Store) Update(ctx context.Context, id int64, patch models.ItemPatch) (models.Item, error) {
	if patch.Empty() {
		return models.Item{}, ErrEmptyPatch
	}

	setClauses := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if patch.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Category != nil {
		setClauses = append(setClauses, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.PurchasePrice != nil {
		setClauses = append(setClauses, "purchase_price = ?")
		args = append(args, *patch.PurchasePrice)
	}
	args = append(args, id)

	query := s.rebind("UPDATE items SET " + strings.Join(setClauses, ", ") + " WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Item{}, fmt.Errorf("update item %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Item{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return models.Item{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Sell transitions an unsold item to sold, fixing sell price and date. The
// transition is one-way: selling a sold item fails with ErrAlreadySold.
func (s *Store) Sell(ctx context.Context, id int64, req models.SellRequest) (models.Item, error) {
	res, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE items SET sell_price = ?, sell_date = ?, status = ? WHERE id = ? AND status <> ?"),
		req.SellPrice, req.SellDate, models.StatusSold, id, models.StatusSold,
	)
	if err != nil {
		return models.Item{}, fmt.Errorf("sell item %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Item{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return models.Item{}, err
		}
		return models.Item{}, ErrAlreadySold
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM items WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertBatch inserts all drafts in a single transaction; either every row
// lands or none do.
func (s *Store) InsertBatch(ctx context.Context, drafts []models.ItemDraft) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		s.rebind("INSERT INTO items (name, category, purchase_price, status) VALUES (?, ?, ?, ?)"))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, draft := range drafts {
		if _, err := stmt.ExecContext(ctx, draft.Name, draft.Category, draft.PurchasePrice, models.StatusUnsold); err != nil {
			return 0, fmt.Errorf("insert %q: %w", draft.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(drafts), nil
}

// Analysis aggregates sold items per category: count, revenue, mean profit
// and total profit.
func (s *Store) Analysis(ctx context.Context) ([]models.CategoryAnalysis, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT category,
		       COUNT(*),
		       SUM(sell_price),
		       AVG(sell_price - purchase_price),
		       SUM(sell_price - purchase_price)
		FROM items
		WHERE status = ?
		GROUP BY category
		ORDER BY category`), models.StatusSold)
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}
	defer rows.Close()

	result := make([]models.CategoryAnalysis, 0)
	for rows.Next() {
		var row models.CategoryAnalysis
		if err := rows.Scan(&row.Category, &row.ItemsSold, &row.TotalRevenue, &row.AverageProfit, &row.TotalProfit); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis: %w", err)
	}
	return result, nil
}

// Stats reports store-level counters for the admin endpoint.
func (s *Store) Stats(ctx context.Context) (map[string]any, error) {
	var total, sold, categories int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&total); err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT COUNT(*) FROM items WHERE status = ?"), models.StatusSold).Scan(&sold); err != nil {
		return nil, fmt.Errorf("count sold items: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT category) FROM items").Scan(&categories); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	return map[string]any{
		"items":      total,
		"sold_items": sold,
		"categories": categories,
		"driver":     s.driver,
	}, nil
}
