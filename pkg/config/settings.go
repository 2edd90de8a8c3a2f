package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Settings represents the process settings of the ledger CLI.
type Settings struct {
	// ConfigFile is the bookkeeping config file, or StandardName.
	ConfigFile string
	// DefaultCurrency overrides the config's default currency when set.
	DefaultCurrency string
	// Root is the ledger working directory.
	Root string
	// DBPath is the audit database path (optional).
	DBPath string
	// Template is the chart of accounts to preload (optional).
	Template string
	Debug    bool
}

// LoadSettings loads settings from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func LoadSettings(envPath ...string) (*Settings, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	return &Settings{
		ConfigFile:      getEnvOrDefault("LEDGER_CONFIG", StandardName),
		DefaultCurrency: strings.ToUpper(os.Getenv("LEDGER_DEFAULT_CURRENCY")),
		Root:            getEnvOrDefault("LEDGER_ROOT", "./ledger"),
		DBPath:          os.Getenv("LEDGER_DB_PATH"),
		Template:        os.Getenv("LEDGER_TEMPLATE"),
		Debug:           os.Getenv("DEBUG") == "true",
	}, nil
}

// Ledger resolves the bookkeeping configuration and applies the currency
// override.
func (s *Settings) Ledger() (*Config, error) {
	cfg, err := Resolve(s.ConfigFile)
	if err != nil {
		return nil, err
	}
	if s.DefaultCurrency != "" {
		cfg.DefaultCurrency = s.DefaultCurrency
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the named settings are set.
func (s *Settings) Validate(required ...string) error {
	var missing []string
	for _, key := range required {
		var value string
		switch key {
		case "config":
			value = s.ConfigFile
		case "root":
			value = s.Root
		case "dbPath":
			value = s.DBPath
		case "template":
			value = s.Template
		}
		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %v\nPlease check your .env file or environment variables", missing)
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
