package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures optional patchstatus settings for a project.
type Config struct {
	Version int `yaml:"version"`
	// Manifest and Lock are resolved against the project root.
	Manifest string         `yaml:"manifest"`
	Lock     string         `yaml:"lock"`
	Patch    PatchConfig    `yaml:"patch"`
	Download DownloadConfig `yaml:"download"`
	LogDir   string         `yaml:"log_dir,omitempty"`
}

// PatchConfig controls the status probes.
type PatchConfig struct {
	Binary string `yaml:"binary"`
	Levels []int  `yaml:"levels"`
	// BaseDir is where relative patch locations are looked up, resolved
	// against the project root.
	BaseDir string `yaml:"base_dir"`
}

// DownloadConfig controls retrieval of remote patches.
type DownloadConfig struct {
	Tools    []string `yaml:"tools"`
	TimeoutS int      `yaml:"timeout_s"`
	User     string   `yaml:"user,omitempty"`
	Password string   `yaml:"password,omitempty"`
}

// Environment variables that supply download credentials when the config
// file leaves them empty.
const (
	EnvHTTPUser     = "PATCHSTATUS_HTTP_USER"
	EnvHTTPPassword = "PATCHSTATUS_HTTP_PASSWORD"
)

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version:  1,
		Manifest: "../composer.json",
		Lock:     "../composer.lock",
		Patch: PatchConfig{
			Binary:  "patch",
			Levels:  []int{1, 0},
			BaseDir: ".",
		},
		Download: DownloadConfig{
			Tools:    []string{"wget", "curl"},
			TimeoutS: 30,
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills fields the YAML omits and pulls download credentials
// from the environment when unset.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Manifest == "" {
		c.Manifest = defaults.Manifest
	}
	if c.Lock == "" {
		c.Lock = defaults.Lock
	}
	if c.Patch.Binary == "" {
		c.Patch.Binary = defaults.Patch.Binary
	}
	if c.Patch.Levels == nil {
		c.Patch.Levels = defaults.Patch.Levels
	}
	if c.Patch.BaseDir == "" {
		c.Patch.BaseDir = defaults.Patch.BaseDir
	}
	if c.Download.Tools == nil {
		c.Download.Tools = defaults.Download.Tools
	}
	if c.Download.TimeoutS == 0 {
		c.Download.TimeoutS = defaults.Download.TimeoutS
	}
	if c.Download.User == "" {
		c.Download.User = os.Getenv(EnvHTTPUser)
	}
	if c.Download.Password == "" {
		c.Download.Password = os.Getenv(EnvHTTPPassword)
	}
}

// Marshal returns the YAML encoding of the configuration with the password
// masked.
func (c Config) Marshal() ([]byte, error) {
	if c.Download.Password != "" {
		c.Download.Password = "********"
	}
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
