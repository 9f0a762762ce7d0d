package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"grocer/internal/repositories"
	"grocer/pkg/events"

	"github.com/google/uuid"
)

// ImportRecord is one loosely-typed candidate row from a bulk source. Fields
// hold the raw text as read; the sanitizers decide what is valid.
type ImportRecord struct {
	Line     int
	Name     string
	Price    string
	Category string
}

// ImportResult is the per-batch accounting for a bulk import. Rows are
// processed best-effort: Errors collects every validation failure with enough
// of the offending row to diagnose it, and one bad row never aborts the rest.
type ImportResult struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

// ImportService handles bulk ingestion: CSV file imports and the one-time
// seeding of an empty catalog from a bundled dataset.
type ImportService struct {
	repo      repositories.ProductRepository
	publisher events.Publisher
}

// NewImportService creates a new ImportService. The publisher may be nil.
func NewImportService(repo repositories.ProductRepository, publisher events.Publisher) *ImportService {
	return &ImportService{
		repo:      repo,
		publisher: publisher,
	}
}

// BulkImport attempts to insert each record. Validation failures are caught
// per row and accumulated, never raised. Rows whose name is already taken are
// skipped silently; they count as neither imported nor failed. Only a storage
// failure aborts the batch, and rows already committed stay committed.
func (s *ImportService) BulkImport(records []ImportRecord) (*ImportResult, error) {
	result := &ImportResult{
		BatchID: uuid.New().String(),
		Errors:  []string{},
	}

	for _, rec := range records {
		product, err := sanitizeProduct(ProductInput{
			Name:     rec.Name,
			Price:    rec.Price,
			Category: rec.Category,
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, describeRowError(rec, err))
			continue
		}

		inserted, err := s.repo.CreateSkipDuplicate(product)
		if err != nil {
			return nil, &StorageError{Op: "bulk insert products", Err: err}
		}
		if inserted {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishImportCompleted(result.BatchID, result.Imported, result.Failed); err != nil {
			log.Printf("Failed to publish import completed event for batch %s: %v", result.BatchID, err)
		}
	}
	return result, nil
}

// ImportCSV parses an uploaded CSV file and bulk-imports its rows.
func (s *ImportService) ImportCSV(r io.Reader) (*ImportResult, error) {
	records, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return s.BulkImport(records)
}

// SeedIfEmpty bulk-inserts the given rows only when the catalog holds no
// products; otherwise it is a no-op. Seed data is trusted bootstrap input, so
// rows missing a name or a price are skipped without being counted as errors.
// It returns the number of products inserted.
func (s *ImportService) SeedIfEmpty(records []ImportRecord) (int, error) {
	count, err := s.repo.Count()
	if err != nil {
		return 0, &StorageError{Op: "count products", Err: err}
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, rec := range records {
		if strings.TrimSpace(rec.Name) == "" || strings.TrimSpace(rec.Price) == "" {
			continue
		}
		product, err := sanitizeProduct(ProductInput{
			Name:     rec.Name,
			Price:    rec.Price,
			Category: rec.Category,
		})
		if err != nil {
			log.Printf("Skipping seed row %d: %v", rec.Line, err)
			continue
		}
		ok, err := s.repo.CreateSkipDuplicate(product)
		if err != nil {
			return inserted, &StorageError{Op: "seed products", Err: err}
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

// SeedFromFile loads a CSV dataset from disk and seeds the catalog with it.
func (s *ImportService) SeedFromFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed dataset: %w", err)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return 0, fmt.Errorf("failed to parse seed dataset: %w", err)
	}
	return s.SeedIfEmpty(records)
}

// ParseCSV reads UTF-8 delimited text with a header row into ImportRecords.
// Header matching is case-insensitive (Name/name, Price/price,
// Category/category) and columns beyond those three are ignored. Line numbers
// count from the top of the file, so the header is line 1.
func ParseCSV(r io.Reader) ([]ImportRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("file is empty")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var records []ImportRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		line++
		records = append(records, ImportRecord{
			Line:     line,
			Name:     field(row, "name"),
			Price:    field(row, "price"),
			Category: field(row, "category"),
		})
	}
	return records, nil
}

// describeRowError renders one per-row failure with the row's content, so a
// bad line in a large upload can be found without re-reading the file.
func describeRowError(rec ImportRecord, err error) string {
	return fmt.Sprintf("row %d (name=%q, price=%q, category=%q): %v",
		rec.Line, rec.Name, rec.Price, rec.Category, err)
}
