package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"RiskBarometer/internal/domain/models"
)

// FileStore publishes snapshots as JSON files. Each write goes through a
// temp file in the target directory followed by a rename, so a reader tailing
// the file never sees a half-written document.
type FileStore struct {
	dir           string
	barometerFile string
	marketFile    string
}

func NewFileStore(dir, barometerFile, marketFile string) *FileStore {
	return &FileStore{
		dir:           dir,
		barometerFile: barometerFile,
		marketFile:    marketFile,
	}
}

func (s *FileStore) WriteBarometer(snapshot *models.BarometerSnapshot) error {
	return s.writeJSON(s.barometerFile, snapshot)
}

func (s *FileStore) ReadBarometer() (*models.BarometerSnapshot, error) {
	var snapshot models.BarometerSnapshot
	if err := s.readJSON(s.barometerFile, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *FileStore) WriteMarket(overview *models.MarketOverview) error {
	return s.writeJSON(s.marketFile, overview)
}

func (s *FileStore) ReadMarket() (*models.MarketOverview, error) {
	var overview models.MarketOverview
	if err := s.readJSON(s.marketFile, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (s *FileStore) writeJSON(name string, v interface{}) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	b = append(b, '\n')

	// Temp file must live in the same directory as the target so the
	// rename stays on one filesystem.
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) readJSON(name string, v interface{}) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
