package internal

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/zttl/internal/ledger"
	"github.com/starford/zttl/internal/zettel"
)

// Default ledger file names, created inside the vault root.
const (
	DefaultLedgerFile   = "rename_cache.txt"
	DefaultLedgerSQLite = "rename_cache.db"
)

var extensionRe = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	Ledger LedgerConfig      `yaml:"ledger"`
	Watch  WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Ledger.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// VaultConfig describes the vault directory and which files in it are notes.
type VaultConfig struct {
	Path       string   `yaml:"path"`
	Extensions []string `yaml:"extensions"`
	Exclude    string   `yaml:"exclude"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Extensions, validation.Required, validation.Each(validation.Match(extensionRe))),
	)
}

// Filter returns the note filter for this vault.
func (c *VaultConfig) Filter() zettel.Filter {
	return zettel.Filter{Extensions: c.Extensions, Exclude: c.Exclude}
}

// LedgerConfig selects the rename ledger backend and location.
//
// An empty Path places the ledger in the vault root, so separate vaults never
// share entries.
type LedgerConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Validate validates the ledger configuration.
func (c *LedgerConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = ledger.DriverFile
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(ledger.DriverFile, ledger.DriverSQLite)),
	)
}

// ResolvePath returns the ledger location for vaultPath.
func (c *LedgerConfig) ResolvePath(vaultPath string) string {
	if c.Path != "" {
		return c.Path
	}
	if c.Driver == ledger.DriverSQLite {
		return filepath.Join(vaultPath, DefaultLedgerSQLite)
	}
	return filepath.Join(vaultPath, DefaultLedgerFile)
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	filter := zettel.DefaultFilter()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path:       "./vault",
			Extensions: filter.Extensions,
			Exclude:    filter.Exclude,
		},
		Ledger: LedgerConfig{
			Driver: ledger.DriverFile,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}
