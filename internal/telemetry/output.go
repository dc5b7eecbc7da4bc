package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/iburimskiy/phase-backdrop/internal/config"
)

// OutputManager writes frame windows to frames.csv in an output directory.
type OutputManager struct {
	dir           string
	framesFile    *os.File
	headerWritten bool
}

// NewOutputManager creates dir and opens frames.csv inside it.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	return &OutputManager{dir: dir, framesFile: f}, nil
}

// WriteConfig saves the effective configuration next to the CSV.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteWindow appends one summary row, writing the header on first use.
func (om *OutputManager) WriteWindow(ws WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{ws}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.framesFile); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.framesFile); err != nil {
		return fmt.Errorf("writing frames: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes frames.csv.
func (om *OutputManager) Close() error {
	if om == nil || om.framesFile == nil {
		return nil
	}
	err := om.framesFile.Close()
	om.framesFile = nil
	return err
}
