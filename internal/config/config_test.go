package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Sources.Feeds) == 0 {
		t.Error("expected feeds to be populated")
	}
	if len(cfg.Analysis.Stopwords) < 90 {
		t.Errorf("expected ~100 stopwords, got %d", len(cfg.Analysis.Stopwords))
	}
	if cfg.Analysis.Countries[0] != "Shqipëri" {
		t.Errorf("expected first country 'Shqipëri', got %q", cfg.Analysis.Countries[0])
	}
	if cfg.Analysis.UnknownCountry != "Vendi i panjohur" {
		t.Errorf("expected sentinel 'Vendi i panjohur', got %q", cfg.Analysis.UnknownCountry)
	}
	if len(cfg.Analysis.Channels) != 5 {
		t.Errorf("expected 5 channels, got %d", len(cfg.Analysis.Channels))
	}
	if cfg.Analysis.SummarySentences != 3 {
		t.Errorf("expected 3 summary sentences, got %d", cfg.Analysis.SummarySentences)
	}
	if cfg.Analysis.MaxKeywords != 10 {
		t.Errorf("expected 10 keywords, got %d", cfg.Analysis.MaxKeywords)
	}
	if cfg.Fetch.Timeout != 15*time.Second {
		t.Errorf("expected 15s fetch timeout, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
analysis:
  channels: ["RTSH"]
fetch:
  timeout: 5s
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Fetch.Timeout)
	}
	if len(cfg.Analysis.Channels) != 1 || cfg.Analysis.Channels[0] != "RTSH" {
		t.Errorf("expected channels to be replaced, got %v", cfg.Analysis.Channels)
	}
	// Defaults should still be set for unspecified fields
	if len(cfg.Analysis.Stopwords) == 0 {
		t.Error("expected default stopwords to survive")
	}
	if cfg.Fetch.UserAgent == "" {
		t.Error("expected default user agent")
	}
}

func TestParseLexiconOverrides(t *testing.T) {
	data := []byte(`
analysis:
  lexicon:
    positive:
      triumf: 0.9
    negative:
      skandal: 0.8
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	if cfg.Analysis.Lexicon.Positive["triumf"] != 0.9 {
		t.Errorf("expected triumf=0.9, got %v", cfg.Analysis.Lexicon.Positive["triumf"])
	}
	if cfg.Analysis.Lexicon.Negative["skandal"] != 0.8 {
		t.Errorf("expected skandal=0.8, got %v", cfg.Analysis.Lexicon.Negative["skandal"])
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := parse([]byte("server: [unterminated")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Sources.Feeds) == 0 {
		t.Error("expected feeds to be populated from file")
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	t.Setenv("NEWSLENS_DATA_DIR", "/tmp/newslens-env")
	t.Setenv("NEWSLENS_PORT", "9100")
	t.Setenv("NEWSLENS_FETCH_TIMEOUT", "3s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.GetDataDir() != "/tmp/newslens-env" {
		t.Errorf("expected env data dir, got %q", cfg.GetDataDir())
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected env port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Fetch.Timeout != 3*time.Second {
		t.Errorf("expected env timeout 3s, got %v", cfg.Fetch.Timeout)
	}
}

func TestResolveConfigPathExplicitMissing(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
	if cfg.DBPath() != filepath.Join("/custom/path", "newslens.db") {
		t.Errorf("unexpected db path %q", cfg.DBPath())
	}
}
