package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Source kinds for the three input tables.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Source string

	CandidatesPath string
	ResultsPath    string
	WinnersPath    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLitePath string

	HTTPAddr   string
	MarginBins int
	LogLevel   string
	MaxRetries int

	ChromeBin           string
	SnapshotDir         string
	SnapshotConcurrency int
	SnapshotRateLimitMs int
}

// Load reads the .env file, a config file, and the environment into the
// global viper instance and returns a populated Config. An empty path looks
// for an optional dashboard.yaml in the working directory; a non-empty path
// must name a readable file whose format viper infers from its extension.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	v := viper.GetViper()
	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}
	return LoadFrom(v), nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("dashboard")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("[config] Ignoring unreadable config file: %v", err)
		}
	}
	return nil
}

// LoadFrom builds a Config from v after registering defaults and environment
// lookups on it.
func LoadFrom(v *viper.Viper) *Config {
	SetDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Source: v.GetString("source"),

		CandidatesPath: v.GetString("candidates_path"),
		ResultsPath:    v.GetString("results_path"),
		WinnersPath:    v.GetString("winners_path"),

		PostgresHost:     v.GetString("postgres_host"),
		PostgresPort:     v.GetString("postgres_port"),
		PostgresUser:     v.GetString("postgres_user"),
		PostgresPassword: v.GetString("postgres_password"),
		PostgresDB:       v.GetString("postgres_db"),
		PostgresSSLMode:  v.GetString("postgres_sslmode"),

		SQLitePath: v.GetString("sqlite_path"),

		HTTPAddr:   v.GetString("http_addr"),
		MarginBins: positive(v.GetInt("margin_bins"), 20),
		LogLevel:   v.GetString("log_level"),
		MaxRetries: positive(v.GetInt("max_retries"), 1),

		ChromeBin:           v.GetString("chrome_bin"),
		SnapshotDir:         v.GetString("snapshot_dir"),
		SnapshotConcurrency: positive(v.GetInt("snapshot_concurrency"), 1),
		SnapshotRateLimitMs: v.GetInt("snapshot_rate_limit_ms"),
	}
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", SourceCSV)

	v.SetDefault("candidates_path", "./data/candidates_with_phase.csv")
	v.SetDefault("results_path", "./data/results_2024.csv")
	v.SetDefault("winners_path", "./data/results_2024_winners.csv")

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_user", "election")
	v.SetDefault("postgres_password", "election")
	v.SetDefault("postgres_db", "election_2024")
	v.SetDefault("postgres_sslmode", "disable")

	v.SetDefault("sqlite_path", "./data/election.db")

	v.SetDefault("http_addr", ":8501")
	v.SetDefault("margin_bins", 20)
	v.SetDefault("log_level", "info")
	v.SetDefault("max_retries", 5)

	v.SetDefault("chrome_bin", "")
	v.SetDefault("snapshot_dir", "./output/snapshots")
	v.SetDefault("snapshot_concurrency", 2)
	v.SetDefault("snapshot_rate_limit_ms", 500)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// SQLTarget returns the database/sql driver name and DSN for the configured
// SQL source. ok is false when Source is not a SQL kind.
func (c *Config) SQLTarget() (driver, dsn string, ok bool) {
	switch c.Source {
	case SourcePostgres:
		return "postgres", c.DSN(), true
	case SourceSQLite:
		return "sqlite", c.SQLitePath, true
	default:
		return "", "", false
	}
}

func positive(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}
