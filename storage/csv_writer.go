package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"price-dashboard/models"
)

var csvHeader = []string{"date", "location", "active_users", "number_of_posts", "price", "feasible"}

// CSVWriter writes priced observations to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WritePriced appends priced rows to the file.
func (c *CSVWriter) WritePriced(rows []*models.PricedObservation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range rows {
		record := []string{
			r.Date.Format("2006-01-02"),
			r.Location,
			strconv.Itoa(r.ActiveUsers),
			strconv.Itoa(r.NumberOfPosts),
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			strconv.FormatBool(r.Feasible),
		}
		if err := c.writer.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	return c.file.Close()
}
