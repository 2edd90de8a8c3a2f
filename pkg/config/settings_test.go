package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ledger.yaml")
	if err := os.WriteFile(cfgPath, []byte("defaultCurrency: CHF\nexchangeRates:\n  USD: 0.9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, ".env")
	env := "LEDGER_CONFIG=" + cfgPath + "\nLEDGER_ROOT=" + dir + "\nLEDGER_DEFAULT_CURRENCY=usd\nDEBUG=true\n"
	if err := os.WriteFile(envPath, []byte(env), 0644); err != nil {
		t.Fatal(err)
	}

	// godotenv never overrides variables that are already set.
	for _, key := range []string{"LEDGER_CONFIG", "LEDGER_ROOT", "LEDGER_DEFAULT_CURRENCY", "LEDGER_DB_PATH", "LEDGER_TEMPLATE", "DEBUG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	settings, err := LoadSettings(envPath)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings.ConfigFile != cfgPath || settings.Root != dir || !settings.Debug {
		t.Errorf("settings = %+v", settings)
	}
	if settings.DefaultCurrency != "USD" {
		t.Errorf("DefaultCurrency = %s, want USD", settings.DefaultCurrency)
	}

	// USD is the default now and CHF has no rate, which is still valid.
	cfg, err := settings.Ledger()
	if err != nil {
		t.Fatalf("Ledger() error = %v", err)
	}
	if cfg.DefaultCurrency != "USD" {
		t.Errorf("DefaultCurrency = %s, want USD", cfg.DefaultCurrency)
	}

	if err := settings.Validate("root", "dbPath"); err == nil {
		t.Error("Validate(dbPath) expected missing setting error")
	}
	if err := settings.Validate("root", "config"); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadSettingsMissingEnvFile(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("LoadSettings() expected error for missing env file")
	}
}
