// Package config provides the bookkeeping configuration consumed by the engine
// and the process settings loaded from environment variables and .env files.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// StandardName selects the built-in configuration instead of a file.
const StandardName = "standard-config"

func init() {
	// Rates, amounts and balances are JSON numbers in every snapshot.
	decimal.MarshalJSONWithoutQuotes = true
}

// Config is the bookkeeping configuration: the default currency, the rates
// converting other currencies into it, and the allowed enumerations.
type Config struct {
	DefaultCurrency      string                     `json:"defaultCurrency"`
	ExchangeRates        map[string]decimal.Decimal `json:"exchangeRates"`
	AllowedBookingTypes  []string                   `json:"allowedBookingTypes"`
	AllowedAccountTypes  []string                   `json:"allowedAccountTypes"`
	TransactionSideTypes []string                   `json:"transactionSideTypes"`
}

// fileConfig is the on-disk shape. Rates decode straight from their scalar
// text, so no precision is lost on the way in.
type fileConfig struct {
	DefaultCurrency      string                     `yaml:"defaultCurrency"`
	ExchangeRates        map[string]decimal.Decimal `yaml:"exchangeRates"`
	AllowedBookingTypes  []string                   `yaml:"allowedBookingTypes"`
	AllowedAccountTypes  []string                   `yaml:"allowedAccountTypes"`
	TransactionSideTypes []string                   `yaml:"transactionSideTypes"`
}

// Standard returns the built-in configuration.
func Standard() *Config {
	return &Config{
		DefaultCurrency: "CHF",
		ExchangeRates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("0.92"),
			"EUR": decimal.RequireFromString("0.95"),
			"GBP": decimal.RequireFromString("1.10"),
		},
		AllowedBookingTypes:  []string{"Buchung", "Sammelbuchung", "Splitsammelbuchung", "Rückbuchung"},
		AllowedAccountTypes:  []string{"Aktiv", "Passiv", "Aufwand", "Ertrag"},
		TransactionSideTypes: []string{"Soll", "Haben"},
	}
}

// LoadFile reads a configuration from a YAML or JSON file. Enumerations missing
// from the file are taken from Standard.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON configuration document.
func Parse(data []byte) (*Config, error) {
	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	std := Standard()
	cfg := &Config{
		DefaultCurrency:      raw.DefaultCurrency,
		ExchangeRates:        raw.ExchangeRates,
		AllowedBookingTypes:  orDefault(raw.AllowedBookingTypes, std.AllowedBookingTypes),
		AllowedAccountTypes:  orDefault(raw.AllowedAccountTypes, std.AllowedAccountTypes),
		TransactionSideTypes: orDefault(raw.TransactionSideTypes, std.TransactionSideTypes),
	}
	if cfg.ExchangeRates == nil {
		cfg.ExchangeRates = make(map[string]decimal.Decimal)
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = std.DefaultCurrency
	}

	return cfg, nil
}

// Resolve returns Standard for an empty name or StandardName, and loads the
// named file otherwise.
func Resolve(name string) (*Config, error) {
	if name == "" || name == StandardName {
		return Standard(), nil
	}
	return LoadFile(filepath.Clean(name))
}

// Validate checks the configuration is usable by the engine.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DefaultCurrency) == "" {
		problems = append(problems, "defaultCurrency is empty")
	}
	for _, currency := range slices.Sorted(maps.Keys(c.ExchangeRates)) {
		if !c.ExchangeRates[currency].IsPositive() {
			problems = append(problems, fmt.Sprintf("exchangeRates.%s must be positive", currency))
		}
	}
	if len(c.AllowedBookingTypes) == 0 {
		problems = append(problems, "allowedBookingTypes is empty")
	}
	if len(c.AllowedAccountTypes) == 0 {
		problems = append(problems, "allowedAccountTypes is empty")
	}
	if len(c.TransactionSideTypes) == 0 {
		problems = append(problems, "transactionSideTypes is empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Rate returns the configured rate for currency.
func (c *Config) Rate(currency string) (decimal.Decimal, bool) {
	rate, ok := c.ExchangeRates[currency]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, false
	}
	return rate, true
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	return &Config{
		DefaultCurrency:      c.DefaultCurrency,
		ExchangeRates:        maps.Clone(c.ExchangeRates),
		AllowedBookingTypes:  slices.Clone(c.AllowedBookingTypes),
		AllowedAccountTypes:  slices.Clone(c.AllowedAccountTypes),
		TransactionSideTypes: slices.Clone(c.TransactionSideTypes),
	}
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return slices.Clone(fallback)
	}
	return values
}
