package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dukerupert/cadence/internal/calendar"
)

type Config struct {
	// DBPath is the SQLite file holding series, completions and todos.
	DBPath string `yaml:"db_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Owner is the member whose to-dos commands act on.
	Owner string `yaml:"owner"`

	// Today pins the current date (YYYY-MM-DD). Empty means the local date.
	Today string `yaml:"today"`

	// BackupPassphrase encrypts snapshots when set.
	BackupPassphrase string `yaml:"backup_passphrase"`
}

func Default() *Config {
	return &Config{
		DBPath:    "cadence.db",
		LogLevel:  "info",
		LogFormat: "text",
		Owner:     "default",
	}
}

// Load reads the YAML file at path, if any, then applies CADENCE_*
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	overrides := map[string]*string{
		"CADENCE_DB_PATH":    &cfg.DBPath,
		"CADENCE_LOG_LEVEL":  &cfg.LogLevel,
		"CADENCE_LOG_FORMAT": &cfg.LogFormat,
		"CADENCE_OWNER":      &cfg.Owner,
		"CADENCE_TODAY":      &cfg.Today,

		"CADENCE_BACKUP_PASSPHRASE": &cfg.BackupPassphrase,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "cadence.db"
	}
	if cfg.Owner == "" {
		cfg.Owner = "default"
	}
	return cfg, nil
}

// LoadDotEnv copies variables from a dotenv file into the environment without
// replacing ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// TodayDate resolves the configured current date, falling back to the
// calendar date of now in its own location.
func (c *Config) TodayDate(now time.Time) (civil.Date, error) {
	if c.Today == "" {
		return civil.DateOf(now), nil
	}
	d, err := calendar.Parse(c.Today)
	if err != nil {
		return civil.Date{}, fmt.Errorf("today: %w", err)
	}
	return d, nil
}
