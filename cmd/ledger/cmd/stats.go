package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/audit"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display audit archive statistics",
	Long: `Display statistics about archived snapshots.

Shows:
- Total number of archived snapshots
- Total number of archived postings
- Last archive timestamp

Example:
  ledger stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	settings, err := loadSettings()
	exitOnError(err, "failed to load settings")

	if err := settings.Validate("root"); err != nil {
		exitOnError(err, "invalid settings")
	}

	dbPath := newPathResolver(settings).DatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := audit.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	stats, err := audit.NewArchive(conn).GetStats()
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== Audit Statistics ===")
	fmt.Printf("Total snapshots: %d\n", stats.TotalSnapshots)
	fmt.Printf("Total postings:  %d\n", stats.TotalPostings)

	if stats.LastRecorded.Valid {
		fmt.Printf("Last recorded:   %s\n", stats.LastRecorded.String)
	} else {
		fmt.Printf("Last recorded:   (never)\n")
	}

	fmt.Println()
}
