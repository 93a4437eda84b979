// Package store persists the durable artifacts: the latest snapshot, the
// signal log and the (externally written) trade log, as flat CSV files.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"OptionSentinel/internal/model"
)

// ErrStorage is the root of all durable read/write failures.
var ErrStorage = errors.New("storage failure")

// Store reads and writes the CSV artifacts. Writes replace the whole file
// atomically (temp file + rename), so a concurrent reader always observes
// either the previous or the new artifact, never a partial one.
type Store struct {
	mu           sync.Mutex
	SnapshotPath string
	SignalsPath  string
	TradesPath   string
}

// NewStore creates a Store, ensuring the artifact directories exist.
func NewStore(snapshotPath, signalsPath, tradesPath string) (*Store, error) {
	for _, p := range []string{snapshotPath, signalsPath, tradesPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("%w: create dir %s: %w", ErrStorage, dir, err)
			}
		}
	}
	return &Store{
		SnapshotPath: snapshotPath,
		SignalsPath:  signalsPath,
		TradesPath:   tradesPath,
	}, nil
}

// writeCSV marshals rows to a temp file in the target directory and renames
// it over the destination.
func (s *Store) writeCSV(path string, rows any) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if err := gocsv.MarshalFile(rows, tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("marshal csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// readCSV unmarshals a CSV file into rows. A missing or empty file is not an
// error; rows is left empty.
func readCSV(path string, rows any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := gocsv.UnmarshalBytes(data, rows); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

// SaveSnapshot replaces the durable snapshot wholesale.
func (s *Store) SaveSnapshot(rows []model.SnapshotRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeCSV(s.SnapshotPath, &rows); err != nil {
		return fmt.Errorf("%w: write snapshot: %w", ErrStorage, err)
	}
	return nil
}

// LoadSnapshot returns the last saved snapshot, or an empty table if none
// has been written yet.
func (s *Store) LoadSnapshot() ([]model.SnapshotRow, error) {
	var rows []model.SnapshotRow
	if err := readCSV(s.SnapshotPath, &rows); err != nil {
		return nil, fmt.Errorf("%w: load snapshot: %w", ErrStorage, err)
	}
	return rows, nil
}

// SaveSignals rewrites the full signal log. Callers treat the log as
// append-only; the rewrite is how appends reach durable storage.
func (s *Store) SaveSignals(signals []model.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeCSV(s.SignalsPath, &signals); err != nil {
		return fmt.Errorf("%w: write signals: %w", ErrStorage, err)
	}
	return nil
}

// LoadSignals returns the full signal log, empty if none exists.
func (s *Store) LoadSignals() ([]model.Signal, error) {
	var signals []model.Signal
	if err := readCSV(s.SignalsPath, &signals); err != nil {
		return nil, fmt.Errorf("%w: load signals: %w", ErrStorage, err)
	}
	return signals, nil
}

// LoadTrades returns the externally maintained trade log. This process never
// writes it.
func (s *Store) LoadTrades() ([]model.TradeRecord, error) {
	var trades []model.TradeRecord
	if err := readCSV(s.TradesPath, &trades); err != nil {
		return nil, fmt.Errorf("%w: load trades: %w", ErrStorage, err)
	}
	return trades, nil
}
