package commands

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bookstage/internal/config"
	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
)

// Global carries process-wide state into commands. ExitCode is read by main
// after a command returns without error.
type Global struct {
	Stdout   io.Writer
	ExitCode int
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) exit(code int) {
	if g != nil {
		g.ExitCode = code
	}
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./bookstage.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	StageAndBuild StageAndBuildCmd `cmd:"" default:"withargs" help:"Stage every complete example and build the book (default)"`
	Watch         WatchCmd         `cmd:"" help:"Stage and build, then again whenever the example sources change"`
	Check         CheckCmd         `cmd:"" help:"Check book references and staged SVGs against the asset directory"`
	Init          InitCmd          `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// StageFlags are shared by the commands that run the staging pipeline. Zero
// values leave the configured value untouched.
type StageFlags struct {
	Source       string         `help:"Example source root (one directory per example)"`
	Dest         string         `help:"Asset destination root inside the book"`
	Only         []string       `help:"Comma-separated example names to stage"`
	SkipBuild    bool           `name:"skip-build" help:"Stage only; do not invoke the book builder"`
	BuildTimeout *time.Duration `name:"build-timeout" help:"Kill the book builder after this long (0 disables)"`
	Concurrency  int            `help:"Examples staged in parallel (default: number of CPUs)"`
	ReportFile   string         `name:"report-file" help:"Write a JSON run report to this path"`
	MetricsFile  string         `name:"metrics-file" help:"Write Prometheus metrics in text format to this path"`
}

// resolve loads the configuration file and applies flag overrides.
// Precedence: flags > config file > defaults.
func (f *StageFlags) resolve(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if f.Source != "" {
		cfg.Source = f.Source
	}
	if f.Dest != "" {
		cfg.Dest = f.Dest
	}
	if len(f.Only) > 0 {
		cfg.Only = f.Only
	}
	if f.SkipBuild {
		cfg.Build.Skip = true
	}
	if f.BuildTimeout != nil {
		cfg.Build.Timeout = *f.BuildTimeout
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.ReportFile != "" {
		cfg.ReportFile = f.ReportFile
	}
	if f.MetricsFile != "" {
		cfg.MetricsFile = f.MetricsFile
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Source); err != nil {
		return nil, ferrors.NotFoundError("source root does not exist").
			WithCause(err).WithContext("path", cfg.Source).Build()
	}
	return cfg, nil
}
