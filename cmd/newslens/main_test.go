package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"Shqipëria fitoi ndeshjen", 12, "Shqipëria..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestReadInput(t *testing.T) {
	data, err := readInput(bytes.NewBufferString("from stdin"), "-")
	if err != nil || string(data) != "from stdin" {
		t.Errorf("unexpected stdin read: %q %v", data, err)
	}

	path := filepath.Join(t.TempDir(), "article.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err = readInput(nil, path)
	if err != nil || string(data) != "from file" {
		t.Errorf("unexpected file read: %q %v", data, err)
	}

	if _, err := readInput(nil, filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	chdir(t, t.TempDir())

	configPath = ""
	c, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(c.Analysis.Countries) == 0 {
		t.Error("expected default countries")
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	defer func() { configPath = "" }()

	if _, err := loadConfig(); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestRunRejectsUnknownSentiment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	chdir(t, t.TempDir())
	defer func() { historySentiment = "" }()

	if code := run([]string{"history", "--sentiment", "mixed"}); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestRunHistoryBySentiment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	chdir(t, t.TempDir())
	defer func() { historySentiment = "" }()

	if code := run([]string{"history", "--sentiment", "negative"}); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
