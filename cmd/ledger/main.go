// Package main is the entry point for the ledger CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/bookkeeping/cmd/ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
