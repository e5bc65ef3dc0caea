package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pmurley/drivethumbs/internal/models"
	"github.com/pmurley/drivethumbs/internal/sheets"
)

// TableStorage reads and rewrites one CSV file holding a whole table
type TableStorage struct {
	mu       sync.RWMutex
	filePath string
}

func NewTableStorage(filePath string) *TableStorage {
	return &TableStorage{filePath: filePath}
}

func (ts *TableStorage) Path() string {
	return ts.filePath
}

// Load reads the file with its first row as header
func (ts *TableStorage) Load() (*models.Table, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	file, err := os.Open(ts.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", ts.filePath, err)
	}
	defer file.Close()

	records, err := sheets.ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ts.filePath, err)
	}

	table, err := models.NewTable(records)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ts.filePath, err)
	}
	return table, nil
}

// Save replaces the file with the table's header and rows. Row fields that
// are not in the header are not written.
func (ts *TableStorage) Save(table *models.Table) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if dir := filepath.Dir(ts.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp := ts.filePath + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(table.Records()); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write records: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, ts.filePath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", ts.filePath, err)
	}
	return nil
}
