package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// EnvPrefix is the prefix for environment variable overrides (NEWSLENS_DATA_DIR, ...).
const EnvPrefix = "newslens"

type Config struct {
	Analysis Analysis `yaml:"analysis"`
	Fetch    Fetch    `yaml:"fetch"`
	Sources  Sources  `yaml:"sources"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type Analysis struct {
	Stopwords        []string `yaml:"stopwords"`
	Countries        []string `yaml:"countries"`
	UnknownCountry   string   `yaml:"unknown_country"`
	Channels         []string `yaml:"channels"`
	SummarySentences int      `yaml:"summary_sentences"`
	MaxKeywords      int      `yaml:"max_keywords"`
	Lexicon          Lexicon  `yaml:"lexicon"`
}

// Lexicon holds extra sentiment words merged over the built-in lexicon.
type Lexicon struct {
	Positive map[string]float64 `yaml:"positive"`
	Negative map[string]float64 `yaml:"negative"`
}

type Fetch struct {
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	MinFeedContent int           `yaml:"min_feed_content"`
}

type Sources struct {
	Feeds []Feed `yaml:"feeds"`
}

type Feed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// envOverrides are read from NEWSLENS_* variables and win over the file.
type envOverrides struct {
	DataDir      string        `envconfig:"DATA_DIR"`
	Port         int           `envconfig:"PORT"`
	LogLevel     string        `envconfig:"LOG_LEVEL"`
	LogFile      string        `envconfig:"LOG_FILE"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT"`
}

// ConfigDir returns the XDG config directory for newslens.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newslens")
}

// DataDir returns the XDG data directory for newslens.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "newslens")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newslens/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'newslens init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file, then applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded default configuration with environment overrides.
func Default() (*Config, error) {
	cfg, err := parse(nil)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse parses YAML bytes into a Config. The embedded default config is decoded
// first so that any section missing from data keeps its default.
func parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(DefaultConfigYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing default config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Analysis.SummarySentences <= 0 {
		cfg.Analysis.SummarySentences = 3
	}
	// Stored records hold at most 10 keywords.
	if cfg.Analysis.MaxKeywords <= 0 || cfg.Analysis.MaxKeywords > 10 {
		cfg.Analysis.MaxKeywords = 10
	}
	if cfg.Fetch.Timeout <= 0 {
		cfg.Fetch.Timeout = 15 * time.Second
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	if env.DataDir != "" {
		c.Output.DataDir = env.DataDir
	}
	if env.Port != 0 {
		c.Server.Port = env.Port
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.LogFile != "" {
		c.Logging.File = env.LogFile
	}
	if env.FetchTimeout > 0 {
		c.Fetch.Timeout = env.FetchTimeout
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// DBPath returns the path of the analysis database inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "newslens.db")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
