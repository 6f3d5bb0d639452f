package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const defaultOpeningBalance = "100000.00"

// Config is the process configuration, loaded once at startup from an
// optional YAML file with environment-variable overrides.
type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"ssl_mode"`
		// ConnStr, when set, wins over the discrete fields.
		ConnStr string `yaml:"conn_str"`
	} `yaml:"database"`

	Wallet struct {
		OpeningBalance string `yaml:"opening_balance"`
	} `yaml:"wallet"`

	Pricing struct {
		CacheTTLMinutes int `yaml:"cache_ttl_minutes"`
		// Stocks and Bonds override the built-in reference price tables
		// when non-empty.
		Stocks map[string]string `yaml:"stocks"`
		Bonds  map[string]string `yaml:"bonds"`
	} `yaml:"pricing"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads the YAML config at path (skipped when the file does not exist)
// and applies environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// No config file is fine; env vars and defaults carry it.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if _, err := cfg.OpeningBalance(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Host = ""
	cfg.Server.Port = 3000
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Database.Host = "localhost"
	cfg.Database.Port = "5432"
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Name = "nivesh"
	cfg.Database.SSLMode = "disable"
	cfg.Wallet.OpeningBalance = defaultOpeningBalance
	cfg.Pricing.CacheTTLMinutes = 60
	cfg.Log.Level = "info"
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DB_CONN_STR"); v != "" {
		cfg.Database.ConnStr = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Addr returns the host:port the HTTP server binds to
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ConnString returns the Postgres connection string
func (c *Config) ConnString() string {
	if c.Database.ConnStr != "" {
		return c.Database.ConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode)
}

// OpeningBalance returns the wallet opening balance used to seed the
// singleton wallet row
func (c *Config) OpeningBalance() (decimal.Decimal, error) {
	balance, err := decimal.NewFromString(c.Wallet.OpeningBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid opening balance %q: %w", c.Wallet.OpeningBalance, err)
	}
	if balance.IsNegative() {
		return decimal.Zero, fmt.Errorf("opening balance must not be negative: %s", balance)
	}
	return balance, nil
}
