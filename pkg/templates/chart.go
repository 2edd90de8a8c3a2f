// Package templates provides charts of accounts that can be preloaded into an
// engine.
package templates

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/ledger"
)

// StandardName is the name of the embedded chart.
const StandardName = "standard"

//go:embed standard.yaml
var standardChart []byte

// Entry is one account of a chart.
type Entry struct {
	Type    ledger.AccountType `yaml:"-"`
	Code    int                `yaml:"code"`
	Name    string             `yaml:"name"`
	Aliases []string           `yaml:"aliases"`
	Balance decimal.Decimal    `yaml:"balance"`
}

// chartFile represents the YAML layout, grouped by account type.
type chartFile struct {
	Name     string `yaml:"name"`
	Accounts struct {
		Aktiv   []Entry `yaml:"aktiv"`
		Passiv  []Entry `yaml:"passiv"`
		Aufwand []Entry `yaml:"aufwand"`
		Ertrag  []Entry `yaml:"ertrag"`
	} `yaml:"accounts"`
}

// Chart is a named list of accounts in file order, grouped by type.
type Chart struct {
	Name    string
	Entries []Entry
}

// Standard returns the embedded chart.
func Standard() (*Chart, error) {
	return Parse(standardChart)
}

// Load returns the embedded chart for StandardName and reads the file at
// nameOrPath otherwise.
func Load(nameOrPath string) (*Chart, error) {
	if nameOrPath == StandardName {
		return Standard()
	}

	data, err := os.ReadFile(nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a chart document.
func Parse(data []byte) (*Chart, error) {
	var file chartFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	chart := &Chart{Name: file.Name}
	groups := []struct {
		typ     ledger.AccountType
		entries []Entry
	}{
		{ledger.Aktiv, file.Accounts.Aktiv},
		{ledger.Passiv, file.Accounts.Passiv},
		{ledger.Aufwand, file.Accounts.Aufwand},
		{ledger.Ertrag, file.Accounts.Ertrag},
	}
	for _, group := range groups {
		for _, entry := range group.entries {
			entry.Type = group.typ
			chart.Entries = append(chart.Entries, entry)
		}
	}

	return chart, nil
}

// Apply creates every account of the chart in e. It stops at the first
// failure, typically a code that is already in use.
func (c *Chart) Apply(e *ledger.Engine) error {
	for _, entry := range c.Entries {
		_, err := e.CreateAccount(entry.Type, entry.Code, entry.Name, entry.Aliases, entry.Balance)
		if err != nil {
			return fmt.Errorf("chart %s: %w", c.Name, err)
		}
	}
	return nil
}
