// Package config loads and validates the pgpopulate connection profile and
// table selection.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = "pgpopulate.yaml"

// Config represents the pgpopulate configuration file.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database" json:"database"`
	Schema   string         `mapstructure:"schema" yaml:"schema" json:"schema"`
	Tables   []string       `mapstructure:"tables" yaml:"tables" json:"tables"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" yaml:"driver" json:"driver"`
	Host     string `mapstructure:"host" yaml:"host" json:"host"`
	Port     int    `mapstructure:"port" yaml:"port" json:"port"`
	Name     string `mapstructure:"name" yaml:"name" json:"name"`
	User     string `mapstructure:"user" yaml:"user" json:"user"`
	Password string `mapstructure:"password" yaml:"password" json:"password"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode" json:"sslmode"`
}

// OutputConfig holds the paths of the two generated files.
type OutputConfig struct {
	Inserts string `mapstructure:"inserts" yaml:"inserts" json:"inserts"`
	Queries string `mapstructure:"queries" yaml:"queries" json:"queries"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			Name:     "blueprint",
			User:     "postgres",
			Password: "postgres",
			SSLMode:  "disable",
		},
		Schema: "public",
		Tables: []string{"customer", "messaging_log"},
		Output: OutputConfig{
			Inserts: "insert_statements.sql",
			Queries: "generate_insert_query.sql",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", d.Database.SSLMode)

	v.SetDefault("schema", d.Schema)
	v.SetDefault("tables", []string{})

	v.SetDefault("output.inserts", d.Output.Inserts)
	v.SetDefault("output.queries", d.Output.Queries)
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the config file at path, applies PGPOPULATE_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PGPOPULATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every required field is set.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("database.driver must be postgres or pgx, got %q", c.Database.Driver)
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Name == "" {
		return errors.New("database.name is required")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.Password == "" {
		return errors.New("database.password is required")
	}
	if c.Schema == "" {
		return errors.New("schema is required")
	}
	if len(c.Tables) == 0 {
		return errors.New("tables is required and cannot be empty")
	}
	for i, table := range c.Tables {
		if table == "" {
			return fmt.Errorf("tables[%d] is empty", i)
		}
	}
	if c.Output.Inserts == "" {
		return errors.New("output.inserts is required")
	}
	if c.Output.Queries == "" {
		return errors.New("output.queries is required")
	}
	return nil
}

// DSN returns the postgres:// connection URL for the profile.
func (c *Config) DSN() string {
	db := c.Database

	host := db.Host
	if db.Port != 0 && !strings.Contains(host, ":") {
		host = fmt.Sprintf("%s:%d", host, db.Port)
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   host,
		Path:   "/" + db.Name,
		User:   url.UserPassword(db.User, db.Password),
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	return u.String()
}

// Write stores cfg at path, as JSON when the path ends in .json and YAML
// otherwise. An existing file is overwritten.
func Write(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
