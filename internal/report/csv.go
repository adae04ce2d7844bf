package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vilaca/dora-metrics/internal/domain"
)

const (
	// DailyFileName is the CSV file holding the per-window table.
	DailyFileName = "daily_dora_metrics.csv"
	// MonthlyFileName is the CSV file holding the monthly rollup.
	MonthlyFileName = "monthly_dora_metrics.csv"
)

// CSVRenderer implements Renderer as CSV with a header row and no index column.
// The title is not written.
type CSVRenderer struct{}

// NewCSVRenderer creates a new CSV renderer.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) Render(w io.Writer, _ string, t domain.ReportTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(rowValues(t, row, formatCSV)); err != nil {
			return fmt.Errorf("failed to write row for project %d: %w", row.ProjectID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the daily and monthly tables to dir and returns the paths written.
func ExportCSV(dir string, daily, monthly domain.ReportTable) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	renderer := NewCSVRenderer()
	files := []struct {
		name  string
		table domain.ReportTable
	}{
		{DailyFileName, daily},
		{MonthlyFileName, monthly},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeFileAtomic(path, func(w io.Writer) error {
			return renderer.Render(w, f.name, f.table)
		}); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// writeFileAtomic writes to a temporary file first and renames it into place.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tempFile := path + ".tmp"

	f, err := os.OpenFile(tempFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tempFile, err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tempFile)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close %s: %w", tempFile, err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename %s: %w", tempFile, err)
	}

	return nil
}

// formatCSV writes the shortest exact decimal, always with a fractional part (1 -> 1.0).
func formatCSV(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
