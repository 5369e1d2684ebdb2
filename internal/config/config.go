package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultRepoURL = "https://raw.githubusercontent.com/LeeMangold/OpenGRC-Bundles/main/index.json"

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	Environment string
	LogLevel    string

	RepoURL        string
	CriteriaAPIURL string
	FetchTimeout   time.Duration
	FetchRate      float64

	PruneStaleControls bool
	EvaluatorURL       string

	AdminUsername string
	AdminPassword string
}

// SyncConfig: то, что передаётся импортёрам явно, без глобального состояния.
type SyncConfig struct {
	RepoURL        string
	CriteriaAPIURL string
}

func (c *Config) Sync() SyncConfig {
	return SyncConfig{
		RepoURL:        c.RepoURL,
		CriteriaAPIURL: c.CriteriaAPIURL,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REPO_URL", DefaultRepoURL)
	v.SetDefault("CRITERIA_API_URL", "")
	v.SetDefault("FETCH_TIMEOUT", "30s")
	v.SetDefault("FETCH_RATE", 5.0)
	v.SetDefault("PRUNE_STALE_CONTROLS", false)
	v.SetDefault("EVALUATOR_URL", "")
	v.SetDefault("ADMIN_USERNAME", "admin@grc.local")
	v.SetDefault("ADMIN_PASSWORD", "Admin123!")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("SESSION_SECRET", "")
}

// FromViper собирает конфиг из уже настроенного экземпляра viper.
func FromViper(v *viper.Viper) *Config {
	setDefaults(v)

	timeout := v.GetDuration("FETCH_TIMEOUT")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Config{
		DBDSN:              v.GetString("DB_DSN"),
		ServerPort:         v.GetString("SERVER_PORT"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		Environment:        strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		RepoURL:            strings.TrimSpace(v.GetString("REPO_URL")),
		CriteriaAPIURL:     strings.TrimSpace(v.GetString("CRITERIA_API_URL")),
		FetchTimeout:       timeout,
		FetchRate:          v.GetFloat64("FETCH_RATE"),
		PruneStaleControls: v.GetBool("PRUNE_STALE_CONTROLS"),
		EvaluatorURL:       strings.TrimSpace(v.GetString("EVALUATOR_URL")),
		AdminUsername:      v.GetString("ADMIN_USERNAME"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
	}
}

// LoadEnv читает .env (если есть) и переменные окружения.
func LoadEnv() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

func (c *Config) Validate() error {
	var errs []error
	if c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is not set"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is not set"))
	}
	return errors.Join(errs...)
}

func Load() *Config {
	cfg := LoadEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	return cfg
}
