package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "resale-dashboard/internal/errors"
	"resale-dashboard/internal/models"
	"resale-dashboard/internal/store"

	"github.com/xuri/excelize/v2"
)

const (
	msgUnsupportedFormat = "Unsupported file format. Please upload a CSV or XLSX file."
	msgNoItems           = "No items found in the file."
)

// Importer turns an uploaded spreadsheet into items. Rows carry
// name, purchase_price, category; the first row is a header. The whole file
// is inserted in one transaction or not at all.
type Importer struct {
	store  *store.Store
	logger *slog.Logger
}

func NewImporter(st *store.Store, logger *slog.Logger) *Importer {
	return &Importer{store: st, logger: logger}
}

func (im *Importer) Import(ctx context.Context, filename string, r io.Reader) (models.ImportSummary, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".csv" && ext != ".xlsx" {
		return models.ImportSummary{}, apperrors.Import(msgUnsupportedFormat)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return models.ImportSummary{}, apperrors.ImportWrap(err, fmt.Sprintf("Error processing file: %v", err))
	}

	var drafts []models.ItemDraft
	switch ext {
	case ".csv":
		drafts, err = ParseCSVItems(data)
	case ".xlsx":
		drafts, err = ParseXLSXItems(data)
	}
	if err != nil {
		if _, ok := err.(*apperrors.AppError); ok {
			return models.ImportSummary{}, err
		}
		return models.ImportSummary{}, apperrors.ImportWrap(err, fmt.Sprintf("Error processing file: %v", err))
	}

	if len(drafts) == 0 {
		return models.ImportSummary{}, apperrors.Import(msgNoItems)
	}

	for i, draft := range drafts {
		if err := draft.Validate(); err != nil {
			return models.ImportSummary{}, apperrors.Import(fmt.Sprintf("Error processing file: row %d: %v", i+2, err))
		}
	}

	inserted, err := im.store.InsertBatch(ctx, drafts)
	if err != nil {
		return models.ImportSummary{}, apperrors.InternalWrap(err, "failed to import items")
	}

	im.logger.Info("bulk import completed", "filename", filename, "inserted", inserted)

	return models.ImportSummary{
		Inserted: inserted,
		Message:  fmt.Sprintf("Successfully imported %d items.", inserted),
	}, nil
}

// ParseCSVItems reads name,purchase_price,category rows, skipping the header
// and blank lines. A malformed row aborts the whole parse.
func ParseCSVItems(data []byte) ([]models.ItemDraft, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	drafts := make([]models.ItemDraft, 0, len(records)-1)
	for i, record := range records[1:] {
		if rowEmpty(record) {
			continue
		}
		draft, err := draftFromRow(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// ParseXLSXItems reads the active sheet of an XLSX workbook, rows from the
// second on.
func ParseXLSXItems(data []byte) ([]models.ItemDraft, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	drafts := make([]models.ItemDraft, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if rowEmpty(row) {
			continue
		}
		draft, err := draftFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func draftFromRow(row []string) (models.ItemDraft, error) {
	if len(row) < 3 {
		return models.ItemDraft{}, fmt.Errorf("expected 3 columns (name, purchase_price, category), got %d", len(row))
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return models.ItemDraft{}, fmt.Errorf("invalid purchase price %q", row[1])
	}

	return models.ItemDraft{
		Name:          strings.TrimSpace(row[0]),
		PurchasePrice: price,
		Category:      strings.TrimSpace(row[2]),
	}, nil
}
