package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "MEGASTORE_CONFIG"

type Config struct {
	Port            string        `mapstructure:"port"`
	DBDSN           string        `mapstructure:"db_dsn"`
	APIBaseURL      string        `mapstructure:"api_base_url"`
	LogFile         string        `mapstructure:"log_file"`
	LogLevel        string        `mapstructure:"log_level"`
	CMSTimeout      time.Duration `mapstructure:"cms_timeout"`
	CatalogAttempts int           `mapstructure:"catalog_attempts"`
	TemplatesDir    string        `mapstructure:"templates_dir"`
	StaticDir       string        `mapstructure:"static_dir"`
}

var defaults = map[string]any{
	"port":             "8080",
	"db_dsn":           "megastore.db", // sqlite file in project root
	"api_base_url":     "https://myshop-cms.onrender.com",
	"log_file":         "",
	"log_level":        "info",
	"cms_timeout":      10 * time.Second,
	"catalog_attempts": 3,
	"templates_dir":    "./web/templates",
	"static_dir":       "./web/static",
}

// Load merges, lowest first: defaults, optional config file, .env and process
// env vars (PORT, DB_DSN, API_BASE_URL, ...), then flags explicitly set in fs.
func Load(fs *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if path := configFile(fs); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := bindFlags(v, fs); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// bindFlags maps dashed flag names onto config keys (api-base-url -> api_base_url).
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err == nil {
			err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		}
	})
	return err
}

func configFile(fs *pflag.FlagSet) string {
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	if fs == nil {
		return ""
	}
	if f := fs.Lookup("config"); f != nil {
		return f.Value.String()
	}
	return ""
}

func (c Config) validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api_base_url: required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("port: required"))
	}
	if c.CatalogAttempts < 1 {
		errs = append(errs, errors.New("catalog_attempts: must be >= 1"))
	}
	return errors.Join(errs...)
}

// Fields is the config as log fields; nothing in it is secret.
func (c Config) Fields() map[string]any {
	return map[string]any{
		"port":             c.Port,
		"db_dsn":           c.DBDSN,
		"api_base_url":     c.APIBaseURL,
		"log_file":         c.LogFile,
		"log_level":        c.LogLevel,
		"cms_timeout":      c.CMSTimeout.String(),
		"catalog_attempts": c.CatalogAttempts,
		"templates_dir":    c.TemplatesDir,
		"static_dir":       c.StaticDir,
	}
}
