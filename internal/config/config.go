// Package config loads the invoicewiz settings file and its environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andy/invoicewiz/internal/domain"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g.
// INVOICEWIZ_INVOICE_NUMBER_PREFIX.
const EnvPrefix = "INVOICEWIZ"

type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Invoice  InvoiceConfig  `mapstructure:"invoice" yaml:"invoice"`

	// Issuer prefills step one when no profile has been remembered yet.
	Issuer IssuerConfig `mapstructure:"issuer" yaml:"issuer"`

	Locale string    `mapstructure:"locale" yaml:"locale"`
	Log    LogConfig `mapstructure:"log" yaml:"log"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type InvoiceConfig struct {
	OutputDir         string  `mapstructure:"output_dir" yaml:"output_dir"`
	NumberPrefix      string  `mapstructure:"number_prefix" yaml:"number_prefix"` // e.g. "INV" for INV-2024-0001
	DefaultDueDays    int     `mapstructure:"default_due_days" yaml:"default_due_days"`
	Currency          string  `mapstructure:"currency" yaml:"currency"`
	DefaultTaxPercent float64 `mapstructure:"default_tax_percent" yaml:"default_tax_percent"` // 19 means 19%
	DefaultUnit       string  `mapstructure:"default_unit" yaml:"default_unit"`
	RememberIssuer    bool    `mapstructure:"remember_issuer" yaml:"remember_issuer"`
}

type IssuerConfig struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Address   string `mapstructure:"address" yaml:"address"`
	Postcode  string `mapstructure:"postcode" yaml:"postcode"`
	Country   string `mapstructure:"country" yaml:"country"`
	TaxNumber string `mapstructure:"tax_number" yaml:"tax_number"`
	Email     string `mapstructure:"email" yaml:"email"`
	Website   string `mapstructure:"website" yaml:"website"`
	BankName  string `mapstructure:"bank_name" yaml:"bank_name"`
	IBAN      string `mapstructure:"iban" yaml:"iban"`
	BIC       string `mapstructure:"bic" yaml:"bic"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"` // empty disables logging
}

// Domain converts the prefill section into an issuer.
func (i IssuerConfig) Domain() domain.Issuer {
	return domain.Issuer{
		Name:      i.Name,
		Address:   i.Address,
		Postcode:  i.Postcode,
		Country:   i.Country,
		TaxNumber: i.TaxNumber,
		Email:     i.Email,
		Website:   i.Website,
		BankName:  i.BankName,
		IBAN:      i.IBAN,
		BIC:       i.BIC,
	}
}

// ConfigDir returns ~/.config/invoicewiz
func ConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "invoicewiz")
	}
	return filepath.Join(homeDir, ".config", "invoicewiz")
}

// DefaultConfigPath returns ~/.config/invoicewiz/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := ConfigDir()
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "invoicewiz.db"),
		},
		Invoice: InvoiceConfig{
			OutputDir:         filepath.Join(dir, "invoices"),
			NumberPrefix:      "INV",
			DefaultDueDays:    14,
			Currency:          "EUR",
			DefaultTaxPercent: 19,
			DefaultUnit:       "h",
			RememberIssuer:    true,
		},
		Locale: "en",
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "invoicewiz.log"),
		},
	}
}

// Load reads the config file at path on top of the defaults, then applies
// INVOICEWIZ_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("database.path", c.Database.Path)

	v.SetDefault("invoice.output_dir", c.Invoice.OutputDir)
	v.SetDefault("invoice.number_prefix", c.Invoice.NumberPrefix)
	v.SetDefault("invoice.default_due_days", c.Invoice.DefaultDueDays)
	v.SetDefault("invoice.currency", c.Invoice.Currency)
	v.SetDefault("invoice.default_tax_percent", c.Invoice.DefaultTaxPercent)
	v.SetDefault("invoice.default_unit", c.Invoice.DefaultUnit)
	v.SetDefault("invoice.remember_issuer", c.Invoice.RememberIssuer)

	for _, key := range []string{
		"name", "address", "postcode", "country", "tax_number",
		"email", "website", "bank_name", "iban", "bic",
	} {
		v.SetDefault("issuer."+key, "")
	}

	v.SetDefault("locale", c.Locale)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.file", c.Log.File)
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database, invoice and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Database.Path), c.Invoice.OutputDir}
	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
