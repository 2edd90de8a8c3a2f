package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/audit"
	"github.com/shunichi-ikebuchi/bookkeeping/pkg/config"
	"github.com/shunichi-ikebuchi/bookkeeping/pkg/journal"
	"github.com/shunichi-ikebuchi/bookkeeping/pkg/templates"
)

var (
	outFile string
	export  bool
	record  bool
	quiet   bool
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run <journal.yaml>",
	Short: "Replay a journal and print the resulting snapshot",
	Long: `Replay a journal file against a fresh engine.

This command:
1. Resolves the bookkeeping config (--config, the journal's config key, or LEDGER_CONFIG)
2. Preloads the template chart of accounts, if any
3. Creates the declared accounts and books
4. Applies the entries in order, stopping at the first error
5. Prints the full snapshot as JSON

Example:
  ledger run journals/2025.yaml
  ledger run journals/2025.yaml --export --record`,
	Args: cobra.ExactArgs(1),
	Run:  runJournal,
}

func init() {
	runCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the snapshot to this file")
	runCmd.Flags().BoolVar(&export, "export", false, "write the snapshot below the exports directory")
	runCmd.Flags().BoolVar(&record, "record", false, "archive the snapshot in the audit database")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the snapshot")
}

func runJournal(cmd *cobra.Command, args []string) {
	journalPath := args[0]
	slog.Info("Replaying journal", "path", journalPath)

	settings, err := loadSettings()
	exitOnError(err, "failed to load settings")

	j, err := journal.Load(journalPath)
	exitOnError(err, "failed to load journal")

	if configFile == "" && j.Config != "" {
		settings.ConfigFile = journalRelative(journalPath, j.Config, config.StandardName)
	}
	if j.Template == "" {
		j.Template = settings.Template
	} else {
		j.Template = journalRelative(journalPath, j.Template, templates.StandardName)
	}

	engine, err := newEngine(settings)
	exitOnError(err, "failed to create engine")

	stats, err := j.Replay(engine)
	exitOnError(err, "failed to replay journal")

	slog.Info("Journal replayed",
		"accounts", stats.Accounts,
		"books", stats.Books,
		"entries", stats.Entries,
	)

	data, err := json.MarshalIndent(engine.Snapshot(), "", "  ")
	exitOnError(err, "failed to encode snapshot")

	paths := newPathResolver(settings)

	target := outFile
	if target == "" && export {
		target, err = paths.SnapshotPath(journalPath)
		exitOnError(err, "failed to resolve export path")
	}
	if target != "" {
		exitOnError(paths.EnsureParentDir(target), "failed to create export directory")
		exitOnError(os.WriteFile(target, append(data, '\n'), 0644), "failed to write snapshot")
		slog.Info("Snapshot written", "path", target)
	}

	if record {
		conn, err := audit.Open(paths.DatabasePath())
		exitOnError(err, "failed to open audit database")
		defer conn.Close()

		id, err := audit.NewArchive(conn).RecordSnapshot(journalPath, engine.Snapshot())
		exitOnError(err, "failed to archive snapshot")
		slog.Info("Snapshot archived", "id", id, "db", conn.Path())
	}

	if !quiet {
		fmt.Println(string(data))
	}
}

// journalRelative resolves a file reference relative to the journal file.
// builtin names an embedded resource and is returned unchanged.
func journalRelative(journalPath, ref, builtin string) string {
	if ref == builtin || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(journalPath), ref)
}
