package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
)

// DefaultFile is loaded from the working directory when no --config is given.
const DefaultFile = "bookstage.yaml"

// Config represents the application configuration.
type Config struct {
	Source      string      `yaml:"source"`
	Dest        string      `yaml:"dest"`
	Only        []string    `yaml:"only,omitempty"`
	Concurrency int         `yaml:"concurrency,omitempty"`
	Build       BuildConfig `yaml:"build"`
	ReportFile  string      `yaml:"report_file,omitempty"`
	MetricsFile string      `yaml:"metrics_file,omitempty"`
	BookDir     string      `yaml:"book_dir,omitempty"` // markdown sources scanned by `check`
	Watch       WatchConfig `yaml:"watch"`
}

// BuildConfig describes how the external book builder is invoked.
type BuildConfig struct {
	Skip    bool          `yaml:"skip,omitempty"`
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args,omitempty"`
	Dir     string        `yaml:"dir,omitempty"` // working directory; defaults to the destination root
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce       time.Duration `yaml:"debounce,omitempty"`
	ResyncInterval time.Duration `yaml:"resync_interval,omitempty"`
}

// Default returns a configuration populated with defaults only. Config files are
// decoded on top of these values, so an explicit zero (e.g. `timeout: 0s`)
// disables the corresponding limit.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			Command: "mdbook",
			Args:    []string{"build"},
			Timeout: 10 * time.Minute,
		},
		Watch: WatchConfig{
			Debounce:       500 * time.Millisecond,
			ResyncInterval: 5 * time.Minute,
		},
	}
}

// Load reads configuration from path. An empty path loads DefaultFile when it
// exists and falls back to defaults otherwise. Environment variables from .env
// files are loaded first and ${VAR} references in the YAML are expanded.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied config path
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		cfg := Default()
		applyEnv(cfg)
		return cfg, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, ferrors.ConfigError("configuration file not found").WithContext("path", path).Build()
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", path).Build()
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config file").
			Fatal().WithContext("path", path).Build()
	}
	applyEnv(cfg)
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	cfg := Default()
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}

	example := Default()
	example.Source = "../rustviz/src/examples"
	example.Dest = "src/assets/code_examples"
	example.BookDir = "src"
	example.Build.Dir = "."
	example.Concurrency = 4

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
