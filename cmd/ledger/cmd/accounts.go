package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/journal"
	"github.com/shunichi-ikebuchi/bookkeeping/pkg/lookup"
	"github.com/shunichi-ikebuchi/bookkeeping/pkg/templates"
)

var (
	templateName string
	journalFile  string
)

// accountsCmd represents the accounts command.
var accountsCmd = &cobra.Command{
	Use:   "accounts [query]",
	Short: "List or search accounts",
	Long: `List accounts of a chart of accounts or journal, optionally filtered.

The query matches the account name or any alias, ignoring case.

Example:
  ledger accounts
  ledger accounts kasse
  ledger accounts debi --journal journals/2025.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAccounts,
}

func init() {
	accountsCmd.Flags().StringVar(&templateName, "template", templates.StandardName, "chart of accounts (name or file)")
	accountsCmd.Flags().StringVar(&journalFile, "journal", "", "list the accounts of a replayed journal instead")
}

func runAccounts(cmd *cobra.Command, args []string) {
	settings, err := loadSettings()
	exitOnError(err, "failed to load settings")

	engine, err := newEngine(settings)
	exitOnError(err, "failed to create engine")

	if journalFile != "" {
		j, err := journal.Load(journalFile)
		exitOnError(err, "failed to load journal")
		_, err = j.Replay(engine)
		exitOnError(err, "failed to replay journal")
	} else {
		chart, err := templates.Load(templateName)
		exitOnError(err, "failed to load chart of accounts")
		exitOnError(chart.Apply(engine), "failed to apply chart of accounts")
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	picker := lookup.NewPicker(engine, nil)
	matches := picker.Filter(query)
	if len(matches) == 0 {
		fmt.Println("No matching accounts")
		return
	}

	for _, ref := range matches {
		acc, _ := engine.AccountByCode(ref.Code)
		line := fmt.Sprintf("%4d  %-8s %-50s %14s", ref.Code, acc.Type(), ref.Name, acc.Balance().StringFixed(2))
		if len(ref.Aliases) > 0 {
			line += "  (" + strings.Join(ref.Aliases, ", ") + ")"
		}
		fmt.Println(line)
	}
}
