package historystore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/yanqian/nutrisnap/internal/domain/history"
)

const csvColumns = 6

// CSVStore appends history rows to a flat file without a header row.
// The file is opened, appended and closed on every write. Each row is encoded
// in memory and written with a single call while holding mu, so concurrent
// requests never interleave rows.
type CSVStore struct {
	mu   sync.RWMutex
	path string
}

// NewCSVStore constructs a store writing to path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Append writes one row: timestamp, source, calories, items, nutrients, assessment.
func (s *CSVStore) Append(_ context.Context, entry history.Entry) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{
		entry.Timestamp,
		entry.Source,
		strconv.Itoa(entry.TotalCalories),
		entry.Items,
		entry.Nutrients,
		entry.Assessment,
	}); err != nil {
		return fmt.Errorf("encode history row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode history row: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	if _, err := file.Write(buf.Bytes()); err != nil {
		file.Close()
		return fmt.Errorf("write history row: %w", err)
	}
	return file.Close()
}

// List reads the whole file in storage order. A missing file is an empty history.
func (s *CSVStore) List(_ context.Context) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	var entries []history.Entry
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read history file: %w", err)
		}
		entries = append(entries, entryFromRecord(record))
	}
	return entries, nil
}

// entryFromRecord tolerates short rows and non-numeric calories.
func entryFromRecord(record []string) history.Entry {
	fields := make([]string, csvColumns)
	copy(fields, record)
	calories, _ := strconv.Atoi(strings.TrimSpace(fields[2]))
	return history.Entry{
		Timestamp:     fields[0],
		Source:        fields[1],
		TotalCalories: calories,
		Items:         fields[3],
		Nutrients:     fields[4],
		Assessment:    fields[5],
	}
}

var _ history.Repository = (*CSVStore)(nil)
