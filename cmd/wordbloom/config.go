package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"wordbloom.lopezb.com/internal/wordbloom/bloom"
)

const (
	envPrefix      = "WORDBLOOM"
	envFileVar     = "WORDBLOOM_ENV_FILE"
	defaultEnvFile = ".env"
)

// Config validation errors
var (
	ErrNoWordFiles      = errors.New("config: at least one word file is required")
	ErrNoQueryFile      = errors.New("config: query file cannot be empty")
	ErrInvalidLogFormat = errors.New("config: log format must be 'text' or 'json'")
	ErrInvalidLogLevel  = errors.New("config: log level must be debug, info, warn, or error")
)

type config struct {
	Bits        uint64       `envconfig:"BITS" default:"10000000"`
	Probes      int          `envconfig:"PROBES" default:"4"`
	Workers     int          `envconfig:"WORKERS" default:"4"`
	Scheme      bloom.Scheme `envconfig:"SCHEME" default:"double"`
	WordFiles   []string     `envconfig:"WORD_FILES" default:"SHAKESPEARE.txt,MOBY_DICK.txt,LITTLE_WOMEN.txt"`
	QueryFile   string       `envconfig:"QUERY_FILE" default:"query.txt"`
	MetricsFile string       `envconfig:"METRICS_FILE"`
	LogFormat   string       `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel    string       `envconfig:"LOG_LEVEL" default:"info"`
}

// filterConfig is the part of the configuration owned by the filter.
func (c config) filterConfig() bloom.Config {
	return bloom.Config{
		Bits:    c.Bits,
		Probes:  c.Probes,
		Workers: c.Workers,
		Scheme:  c.Scheme,
	}
}

// loadConfig resolves the configuration from, in increasing precedence, the
// built-in defaults, an optional .env file, WORDBLOOM_* environment variables
// and command-line flags.
func loadConfig(args []string, stderr io.Writer) (config, error) {
	var cfg config

	if err := loadEnvFile(); err != nil {
		return cfg, err
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}

	fset := flag.NewFlagSet("wordbloom", flag.ContinueOnError)
	fset.SetOutput(stderr)

	fset.Uint64Var(&cfg.Bits, "bits", cfg.Bits, "Bloom filter bit array size (M)")
	fset.IntVar(&cfg.Probes, "probes", cfg.Probes, "Probe positions per item (k)")
	fset.IntVar(&cfg.Workers, "workers", cfg.Workers, "Worker goroutines for bulk insert and scoring (1 = sequential)")
	fset.TextVar(&cfg.Scheme, "scheme", cfg.Scheme, "Probe derivation: double, salted, seeded or single")
	fset.Func("words", "Comma-separated word files (default "+strings.Join(cfg.WordFiles, ",")+")", func(s string) error {
		cfg.WordFiles = splitList(s)
		return nil
	})
	fset.StringVar(&cfg.QueryFile, "queries", cfg.QueryFile, "Labelled query file (word and 0/1 per line)")
	fset.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this textfile after the run")
	fset.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	fset.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := fset.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, ValidateConfig(&cfg)
}

// loadEnvFile loads WORDBLOOM_ENV_FILE (default .env) into the process
// environment. A missing file is not an error; variables already set win.
func loadEnvFile() error {
	path := os.Getenv(envFileVar)
	if path == "" {
		path = defaultEnvFile
	}

	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: load %s: %w", path, err)
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *config) error {
	if len(cfg.WordFiles) == 0 {
		return ErrNoWordFiles
	}
	if cfg.QueryFile == "" {
		return ErrNoQueryFile
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return ErrInvalidLogFormat
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return cfg.filterConfig().Validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, ErrInvalidLogLevel
}

// newLogger builds the application logger from a validated configuration.
func newLogger(cfg config, w io.Writer) *slog.Logger {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
