package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SALESDASH_MODELS_DIR
const EnvPrefix = "SALESDASH"

// Config represents the application's configuration structure
type Config struct {
	Source string       `mapstructure:"source"`
	Data   DataConfig   `mapstructure:"data"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Models ModelsConfig `mapstructure:"models"`
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
}

// DataConfig locates the CSV extracts
type DataConfig struct {
	Sales     string `mapstructure:"sales"`
	Items     string `mapstructure:"items"`
	Suppliers string `mapstructure:"suppliers"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// ModelsConfig locates the trained per-item regressors
type ModelsConfig struct {
	Dir         string `mapstructure:"dir"`
	Pattern     string `mapstructure:"pattern"`
	Concurrency int    `mapstructure:"concurrency"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
}

// field: default value
var defaults = map[string]interface{}{
	"source":             "csv",
	"data.sales":         "data/sales.csv",
	"data.items":         "data/items.csv",
	"data.suppliers":     "data/proveedor.csv",
	"sqlite.path":        "data/salesdash.db",
	"models.dir":         "modelos",
	"models.pattern":     "modelo_%s.json",
	"models.concurrency": 4,
	"log.level":          "info",
	"log.encoding":       "console",
	"log.development":    false,
	"output.format":      "text",
	"output.dir":         "",
}

// flag name: config key
var flagKeys = map[string]string{
	"source":     "source",
	"format":     "output.format",
	"output":     "output.dir",
	"log-level":  "log.level",
	"models-dir": "models.dir",
	"sqlite":     "sqlite.path",
}

// Load reads configuration with increasing precedence from defaults, the
// config file, a .env file, environment variables and explicitly set flags.
// An empty path looks for an optional salesdash.{yaml,json,toml} in the working directory.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("salesdash")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("could not read config: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("could not bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Source {
	case "csv":
		if c.Data.Sales == "" {
			return fmt.Errorf("data.sales is required when source=csv")
		}
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required when source=sqlite")
		}
	default:
		return fmt.Errorf("unsupported source %q (expected csv or sqlite)", c.Source)
	}

	switch c.Output.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unsupported output format %q (expected text, json or csv)", c.Output.Format)
	}

	if !strings.Contains(c.Models.Pattern, "%s") {
		return fmt.Errorf("models.pattern %q must contain %%s for the item code", c.Models.Pattern)
	}
	if c.Models.Concurrency < 1 {
		return fmt.Errorf("models.concurrency must be positive, got %d", c.Models.Concurrency)
	}
	return nil
}
