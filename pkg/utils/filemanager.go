// =============================================================================
// TPV Report - File Manager
// =============================================================================
//
// This module provides file system operations for one report run:
//   - Discovering input files in the data directory
//   - Creating the report directory
//   - Resolving report file paths
//   - Writing the run manifest
//
// DISCOVERY RULES:
//   - Entries are returned in lexicographic order, so output is the same on
//     every file system
//   - Names starting with "~" are spreadsheet editor lock files and skipped
//   - Anything that is not a regular file (after following symlinks) is skipped
//   - Extensions are NOT filtered here; the loader decides what it can read
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/tpv-report/internal/types"
)

// ManifestFileName is the name of the manifest written into the report dir.
const ManifestFileName = "manifest.yaml"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles the data and report directories of a run.
type FileManager struct {
	// DataDir is the directory scanned for input files.
	DataDir string

	// ReportDir is the directory reports are written to.
	ReportDir string
}

// NewFileManager creates a new FileManager.
func NewFileManager(dataDir, reportDir string) *FileManager {
	return &FileManager{
		DataDir:   dataDir,
		ReportDir: reportDir,
	}
}

// =============================================================================
// DIRECTORY OPERATIONS
// =============================================================================

// EnsureReportDir creates the report directory, including parents.
func (fm *FileManager) EnsureReportDir() error {
	if err := os.MkdirAll(fm.ReportDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.ReportDir, err)
	}
	return nil
}

// ReportPath returns the path of a report file inside the report directory.
func (fm *FileManager) ReportPath(name string) string {
	return filepath.Join(fm.ReportDir, name)
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the candidate input files in the data directory.
//
// RETURNS:
//   - File paths (DataDir joined with the entry name), sorted by name.
//   - An error if the data directory does not exist or cannot be read.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var files []string
	for _, name := range names {
		if strings.HasPrefix(name, "~") {
			continue
		}

		path := filepath.Join(fm.DataDir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		files = append(files, path)
	}

	return files, nil
}

// =============================================================================
// RUN MANIFEST
// =============================================================================

// RunManifest records what one run read and wrote.
type RunManifest struct {
	RunID     string           `yaml:"run_id"`
	StartTime time.Time        `yaml:"start_time"`
	EndTime   time.Time        `yaml:"end_time"`
	DataDir   string           `yaml:"data_dir"`
	ReportDir string           `yaml:"report_dir"`
	TotalRows int              `yaml:"total_rows"`
	Customers int              `yaml:"customers"`
	Months    int              `yaml:"months"`
	Files     []types.FileStat `yaml:"files"`
	Notices   []types.Notice   `yaml:"notices,omitempty"`
	Reports   []string         `yaml:"reports"`
}

// NewRunManifest starts a manifest with a fresh run ID.
func (fm *FileManager) NewRunManifest(start time.Time) *RunManifest {
	return &RunManifest{
		RunID:     uuid.New().String(),
		StartTime: start,
		DataDir:   fm.DataDir,
		ReportDir: fm.ReportDir,
	}
}

// WriteManifest writes the manifest as YAML into the report directory.
//
// RETURNS:
//   - The path to the manifest file.
//   - An error if writing fails.
func (fm *FileManager) WriteManifest(manifest *RunManifest) (string, error) {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := fm.ReportPath(ManifestFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return path, nil
}
