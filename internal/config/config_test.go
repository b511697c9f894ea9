package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"CENSUS_API_URL": "https://example.test/exec",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.WriteURL != cfg.APIURL {
		t.Errorf("WriteURL = %q, want fallback to APIURL %q", cfg.WriteURL, cfg.APIURL)
	}
	if cfg.APITimeout != 0 {
		t.Errorf("APITimeout = %v, want 0", cfg.APITimeout)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if cfg.JournalPath != "census.db" {
		t.Errorf("JournalPath = %q", cfg.JournalPath)
	}
	if len(cfg.CSRFKey) != minCSRFKeyLen {
		t.Errorf("generated CSRF key len = %d", len(cfg.CSRFKey))
	}
	if cfg.CSRFSecure {
		t.Error("CSRFSecure should default to false")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"PORT":               "9000",
		"CENSUS_API_URL":     "https://read.test/exec",
		"CENSUS_WRITE_URL":   "https://write.test/exec",
		"CENSUS_API_TIMEOUT": "15s",
		"SESSION_TTL":        "30m",
		"CSRF_KEY":           strings.Repeat("k", 32),
		"CSRF_SECURE":        "true",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "9000" || cfg.WriteURL != "https://write.test/exec" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.APITimeout != 15*time.Second || cfg.SessionTTL != 30*time.Minute {
		t.Errorf("durations = %v, %v", cfg.APITimeout, cfg.SessionTTL)
	}
	if string(cfg.CSRFKey) != strings.Repeat("k", 32) || !cfg.CSRFSecure {
		t.Errorf("csrf = %q secure=%v", cfg.CSRFKey, cfg.CSRFSecure)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"short csrf key":   {"CSRF_KEY": "short"},
		"bad timeout":      {"CENSUS_API_TIMEOUT": "soon"},
		"zero session ttl": {"SESSION_TTL": "0s"},
		"bad secure flag":  {"CSRF_SECURE": "maybe"},
		"missing labels":   {"LABELS_FILE": filepath.Join(os.TempDir(), "does-not-exist.toml")},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := FromEnv(envOf(env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.toml")
	content := "[labels]\nDikabelo_YN = \"Dikabelo Pledge (Yes/No)\"\nBlock_Name = \"Section\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := FromEnv(envOf(map[string]string{"LABELS_FILE": path}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if got := cfg.Labels["Dikabelo_YN"]; got != "Dikabelo Pledge (Yes/No)" {
		t.Errorf("Dikabelo_YN = %q", got)
	}
	if got := cfg.Labels["Block_Name"]; got != "Section" {
		t.Errorf("Block_Name = %q", got)
	}
}

func TestParseLabels_EmptyAndInvalid(t *testing.T) {
	labels, err := ParseLabels([]byte(""))
	if err != nil {
		t.Fatalf("empty: %v", err)
	}
	if labels == nil || len(labels) != 0 {
		t.Errorf("labels = %v, want empty map", labels)
	}
	if _, err := ParseLabels([]byte("[labels\nx=")); err == nil {
		t.Error("expected parse error")
	}
}
