package commands

import (
	"context"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bookstage/internal/build"
	"git.home.luguber.info/inful/bookstage/internal/config"
	"git.home.luguber.info/inful/bookstage/internal/logfields"
	"git.home.luguber.info/inful/bookstage/internal/metrics"
	"git.home.luguber.info/inful/bookstage/internal/report"
	"git.home.luguber.info/inful/bookstage/internal/revision"
	"git.home.luguber.info/inful/bookstage/internal/stage"
)

// StageAndBuildCmd implements the default 'stage-and-build' command.
type StageAndBuildCmd struct {
	StageFlags `embed:""`
}

func (s *StageAndBuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := s.resolve(root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	code, err := RunPipeline(ctx, cfg, g.stdout(), nil)
	if err != nil {
		return err
	}
	g.exit(code)
	return nil
}

// RunPipeline stages every selected example, runs the book builder after the
// last example finished, and writes the report to out. It returns the process
// exit code; an error means the run could not start (missing source root).
// A nil runner uses build.ExecRunner.
func RunPipeline(ctx context.Context, cfg *config.Config, out io.Writer, runner build.Runner) (int, error) {
	start := time.Now()
	runID := uuid.NewString()

	rev, err := revision.Read(cfg.Source)
	if err != nil {
		slog.Warn("Source revision unavailable", logfields.Source(cfg.Source), logfields.Error(err))
	}
	slog.Info("Starting staging run",
		logfields.RunID(runID),
		logfields.Source(cfg.Source),
		logfields.Dest(cfg.Dest),
		logfields.Revision(revision.Short(rev)))

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		registry *prom.Registry
	)
	if cfg.MetricsFile != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	outcomes, err := stage.Run(ctx, &stage.RunContext{
		SourceRoot:  cfg.Source,
		DestRoot:    cfg.Dest,
		Only:        cfg.OnlyNames(),
		Concurrency: cfg.Concurrency,
		Recorder:    recorder,
	})
	if err != nil {
		return 0, err
	}

	opts := []build.Option{build.WithRecorder(recorder)}
	if runner != nil {
		opts = append(opts, build.WithRunner(runner))
	}
	br := build.NewOrchestrator(cfg.Build, opts...).Build(ctx, cfg.Dest)

	summary := report.Summarize(outcomes, br)
	summary.RunID = runID
	summary.Source = cfg.Source
	summary.Dest = cfg.Dest
	summary.Revision = rev
	summary.Start = start
	summary.End = time.Now()
	code := report.NewEmitter(out).Emit(summary)
	recorder.ObserveRunDuration(summary.End.Sub(start))

	if cfg.ReportFile != "" {
		if err := summary.Persist(cfg.ReportFile); err != nil {
			slog.Error("Failed to write run report", logfields.Path(cfg.ReportFile), logfields.Error(err))
		}
	}
	if registry != nil {
		if err := metrics.WriteTextfile(cfg.MetricsFile, registry); err != nil {
			slog.Error("Failed to write metrics", logfields.Path(cfg.MetricsFile), logfields.Error(err))
		}
	}

	slog.Info("Staging run finished",
		logfields.RunID(runID),
		logfields.ExitCode(code),
		logfields.Duration(summary.End.Sub(start)))
	return code, nil
}
