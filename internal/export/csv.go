package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"edu-catalog/internal/domain"
)

// Keep header order EXACT; downstream spreadsheets address columns by position.
var catalogHeader = []string{
	"ID",
	"TITLE",
	"TYPE",
	"CATEGORY",
	"LEVEL",
	"INSTRUCTOR",
	"DURATION",
	"RATING",
	"PRICE",
	"DATE",
	"LOCATION",
	"THUMBNAIL",
}

// WriteCSV writes items one per row under catalogHeader.
func WriteCSV(w io.Writer, items []domain.EducationalItem) error {
	cw := csv.NewWriter(w)
	// match typical spreadsheet templates
	cw.UseCRLF = true

	if err := cw.Write(catalogHeader); err != nil {
		return err
	}
	for _, it := range items {
		if err := cw.Write(toRow(it)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV to path, creating its directory.
func WriteCSVFile(path string, items []domain.EducationalItem) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create csv: %w", err)
	}
	if err := WriteCSV(f, items); err != nil {
		_ = f.Close()
		return fmt.Errorf("export: write csv: %w", err)
	}
	return f.Close()
}

func toRow(it domain.EducationalItem) []string {
	return []string{
		it.ID,                           // ID
		oneLine(it.Title),               // TITLE
		string(it.Type),                 // TYPE
		it.Category,                     // CATEGORY
		string(it.Level),                // LEVEL
		oneLine(it.Instructor),          // INSTRUCTOR
		it.Duration,                     // DURATION
		FormatRating(it.Rating),         // RATING
		strconv.Itoa(it.Price),          // PRICE
		deref(it.Date),                  // DATE
		deref(it.Location),              // LOCATION
		strings.TrimSpace(it.Thumbnail), // THUMBNAIL
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// oneLine flattens embedded newlines so each item stays on one row.
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
