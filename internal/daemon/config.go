// Package daemon wires a coffee-machine session together: configuration,
// the interpreter, the audit journal, metrics and logging.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tutu-network/brew/internal/domain"
)

// Config is the on-disk configuration (~/.brew/config.toml).
type Config struct {
	Machine MachineConfig     `toml:"machine" yaml:"machine"`
	Catalog []domain.Beverage `toml:"catalog" yaml:"catalog"`
	Journal JournalConfig     `toml:"journal" yaml:"journal"`
	Metrics MetricsConfig     `toml:"metrics" yaml:"metrics"`
	Log     LogConfig         `toml:"log" yaml:"log"`
}

// MachineConfig holds the stock the machine starts every session with.
type MachineConfig struct {
	Water int `toml:"water" yaml:"water"`
	Milk  int `toml:"milk" yaml:"milk"`
	Beans int `toml:"beans" yaml:"beans"`
	Cups  int `toml:"cups" yaml:"cups"`
	Money int `toml:"money" yaml:"money"`
}

// JournalConfig controls the SQLite audit journal.
type JournalConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"` // "~" expands to the home directory
}

// MetricsConfig controls the Prometheus HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Addr    string `toml:"addr" yaml:"addr"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the factory configuration.
func DefaultConfig() Config {
	r := domain.DefaultResources()
	return Config{
		Machine: MachineConfig{
			Water: r.Water,
			Milk:  r.Milk,
			Beans: r.Beans,
			Cups:  r.Cups,
			Money: r.Money,
		},
		Catalog: domain.DefaultCatalog(),
		Journal: JournalConfig{
			Enabled: false,
			Dir:     "~/.brew",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9464",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// LoadConfig reads a TOML (or .yaml/.yml) config file over the defaults.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	// An explicit catalog replaces the default one rather than merging into it.
	cfg.Catalog = nil
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if len(cfg.Catalog) == 0 {
		cfg.Catalog = domain.DefaultCatalog()
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects negative stock, empty or duplicate beverage names and
// negative recipe quantities.
func (c Config) Validate() error {
	m := c.Machine
	if m.Water < 0 || m.Milk < 0 || m.Beans < 0 || m.Cups < 0 || m.Money < 0 {
		return fmt.Errorf("%w: machine stock must not be negative", domain.ErrInvalidConfig)
	}
	if len(c.Catalog) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, domain.ErrEmptyCatalog)
	}
	seen := make(map[string]bool, len(c.Catalog))
	for i, b := range c.Catalog {
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("%w: catalog entry %d has no name", domain.ErrInvalidConfig, i+1)
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: duplicate beverage %q", domain.ErrInvalidConfig, b.Name)
		}
		seen[b.Name] = true
		if b.Water < 0 || b.Milk < 0 || b.Beans < 0 || b.Price < 0 {
			return fmt.Errorf("%w: beverage %q has negative quantities", domain.ErrInvalidConfig, b.Name)
		}
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("%w: metrics enabled without an address", domain.ErrInvalidConfig)
	}
	return nil
}

// Resources converts the machine section into a ledger.
func (c Config) Resources() domain.Resources {
	return domain.Resources{
		Water: c.Machine.Water,
		Milk:  c.Machine.Milk,
		Beans: c.Machine.Beans,
		Cups:  c.Machine.Cups,
		Money: c.Machine.Money,
	}
}

// DefaultConfigPath returns ~/.brew/config.toml.
func DefaultConfigPath() string {
	return expandHome("~/.brew/config.toml")
}

// JournalDir returns the journal directory with a leading "~" expanded.
func (c Config) JournalDir() string {
	return expandHome(c.Journal.Dir)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
