// Package config loads portal settings from the environment, an optional
// .env file and an optional TOML file of detail-view label overrides.
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const minCSRFKeyLen = 32

type Config struct {
	Port string

	// APIURL is the census web app endpoint used for getSummary/getRecords.
	APIURL string
	// WriteURL receives form submissions. Defaults to APIURL.
	WriteURL string
	// APITimeout bounds each census API call. Zero means no client timeout;
	// calls are still cancelled with the originating request.
	APITimeout time.Duration

	JournalPath string
	LogLevel    string
	SessionTTL  time.Duration

	CSRFKey []byte
	// CSRFSecure marks the CSRF cookie Secure. Off for plain-HTTP local runs.
	CSRFSecure bool

	// FormNotice is markdown shown above the census form.
	FormNotice string

	LabelsFile string
	Labels     map[string]string
}

// Load reads .env (a missing file only logs a warning) and then the process
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:        valueOr(getenv("PORT"), "8080"),
		APIURL:      strings.TrimSpace(getenv("CENSUS_API_URL")),
		JournalPath: valueOr(getenv("JOURNAL_PATH"), "census.db"),
		LogLevel:    valueOr(getenv("LOG_LEVEL"), "info"),
		FormNotice:  getenv("FORM_NOTICE"),
		LabelsFile:  strings.TrimSpace(getenv("LABELS_FILE")),
	}
	cfg.WriteURL = valueOr(strings.TrimSpace(getenv("CENSUS_WRITE_URL")), cfg.APIURL)

	var err error
	if cfg.APITimeout, err = parseDuration(getenv("CENSUS_API_TIMEOUT"), 0); err != nil {
		return nil, fmt.Errorf("CENSUS_API_TIMEOUT: %w", err)
	}
	if cfg.SessionTTL, err = parseDuration(getenv("SESSION_TTL"), 2*time.Hour); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL: must be positive")
	}
	if v := getenv("CSRF_SECURE"); v != "" {
		if cfg.CSRFSecure, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("CSRF_SECURE: %w", err)
		}
	}

	if key := getenv("CSRF_KEY"); key != "" {
		if len(key) < minCSRFKeyLen {
			return nil, fmt.Errorf("CSRF_KEY: need at least %d bytes, got %d", minCSRFKeyLen, len(key))
		}
		cfg.CSRFKey = []byte(key)
	} else {
		cfg.CSRFKey = make([]byte, minCSRFKeyLen)
		if _, err := rand.Read(cfg.CSRFKey); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
	}

	if cfg.LabelsFile != "" {
		if cfg.Labels, err = LoadLabels(cfg.LabelsFile); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

type labelsFile struct {
	Labels map[string]string `toml:"labels"`
}

// LoadLabels reads a TOML file of the form
//
//	[labels]
//	Dikabelo_YN = "Dikabelo Pledge (Yes/No)"
//
// mapping field keys to display labels.
func LoadLabels(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels file: %w", err)
	}
	return ParseLabels(data)
}

func ParseLabels(data []byte) (map[string]string, error) {
	var lf labelsFile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse labels file: %w", err)
	}
	if lf.Labels == nil {
		lf.Labels = map[string]string{}
	}
	return lf.Labels, nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseDuration(v string, def time.Duration) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	return time.ParseDuration(v)
}
