// Package pathutil provides centralized path management for the ledger root,
// the audit database and exported snapshots.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathResolver manages paths below the ledger root.
type PathResolver struct {
	root         string
	databasePath string
	exportsDir   string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// Root is the ledger working directory (e.g., ~/accounting/ledger)
	Root string
	// DatabasePath is the path to the SQLite audit database
	DatabasePath string
	// ExportsDir is the directory snapshots are written to
	ExportsDir string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {Root}/.ledger/audit.db
// If ExportsDir is empty, it defaults to {Root}/exports
func New(config Config) *PathResolver {
	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(config.Root, ".ledger", "audit.db")
	}

	exportsDir := config.ExportsDir
	if exportsDir == "" {
		exportsDir = filepath.Join(config.Root, "exports")
	}

	return &PathResolver{
		root:         config.Root,
		databasePath: dbPath,
		exportsDir:   exportsDir,
	}
}

// Root returns the ledger root directory.
func (p *PathResolver) Root() string {
	return p.root
}

// DatabasePath returns the audit database file path.
func (p *PathResolver) DatabasePath() string {
	return p.databasePath
}

// ExportsDir returns the snapshot export directory.
func (p *PathResolver) ExportsDir() string {
	return p.exportsDir
}

// SnapshotPath returns the export path for a snapshot of the named journal.
// Example: exports/2025-q1.snapshot.json for journals/2025-q1.yaml
func (p *PathResolver) SnapshotPath(journalFile string) (string, error) {
	base := filepath.Base(journalFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid journal file name: %q", journalFile)
	}
	return filepath.Join(p.exportsDir, name+".snapshot.json"), nil
}

// EnsureParentDir ensures the parent directory of a file exists.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
