package stage

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"git.home.luguber.info/inful/bookstage/internal/examples"
	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
	"git.home.luguber.info/inful/bookstage/internal/logfields"
	"git.home.luguber.info/inful/bookstage/internal/metrics"
)

// RunContext carries everything one staging run needs.
type RunContext struct {
	SourceRoot  string
	DestRoot    string
	Only        []examples.Name // empty means every example under SourceRoot
	Concurrency int             // <= 0 means runtime.NumCPU()
	Recorder    metrics.Recorder
	Results     *Collector // replaced by Run with one slot per selected example
}

// Run validates and stages every selected example with a bounded worker pool and
// returns once every example has reached a terminal state. Outcomes are sorted by
// name. Only root-level problems (a missing source root) return an error; per
// example failures are recorded as Failed results and do not stop other examples.
//
// Canceling ctx stops dispatching; examples never started are reported as
// Failed with reason "canceled".
func Run(ctx context.Context, rc *RunContext) ([]Outcome, error) {
	seq, err := examples.ListExamples(rc.SourceRoot)
	if err != nil {
		return nil, err
	}
	names := rc.Only
	if len(names) == 0 {
		names = slices.Collect(seq)
		if n, ok := destExample(rc.SourceRoot, rc.DestRoot); ok {
			names = slices.DeleteFunc(names, func(c examples.Name) bool { return c == n })
		}
	} else {
		available := slices.Collect(seq)
		for _, n := range names {
			if !slices.Contains(available, n) {
				slog.Warn("Requested example not found in source root", logfields.Example(string(n)))
			}
		}
	}

	recorder := rc.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	rc.Results = NewCollector(len(names))
	if len(names) == 0 {
		slog.Warn("No examples found", logfields.Source(rc.SourceRoot))
		return nil, nil
	}

	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	concurrency = max(1, min(concurrency, len(names)))
	recorder.SetStagingConcurrency(concurrency)

	stager := NewStager(rc.SourceRoot, rc.DestRoot)
	tasks := make(chan int)
	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for i := range tasks {
			start := time.Now()
			res := process(rc.SourceRoot, stager, names[i])
			dur := time.Since(start)
			rc.Results.Set(i, Outcome{Name: names[i], Result: res, Duration: dur})
			recorder.ObserveExampleDuration(res.label(), dur)
			recorder.IncExampleResult(res.label())
			logOutcome(names[i], res, dur)
		}
	}
	wg.Add(concurrency)
	for range concurrency {
		go worker()
	}
dispatch:
	for i := range names {
		select {
		case <-ctx.Done():
			break dispatch
		case tasks <- i:
		}
	}
	close(tasks)
	wg.Wait()

	for i, n := range names {
		if rc.Results.Filled(i) {
			continue
		}
		err := ferrors.WrapError(ctx.Err(), ferrors.CategoryCanceled, "staging canceled").
			WithContext("example", string(n)).
			Build()
		rc.Results.Set(i, Outcome{Name: n, Result: Failed("canceled", err)})
		recorder.IncExampleResult(metrics.ResultCanceled)
	}
	return rc.Results.Outcomes(), nil
}

// destExample returns the candidate name the destination root would be listed
// under when it is an immediate child of the source root.
func destExample(sourceRoot, destRoot string) (examples.Name, bool) {
	src, err := filepath.Abs(sourceRoot)
	if err != nil {
		return "", false
	}
	dst, err := filepath.Abs(destRoot)
	if err != nil || filepath.Dir(dst) != src {
		return "", false
	}
	return examples.Name(filepath.Base(dst)), true
}

// process drives one example through Unprocessed -> Validated|Skipped -> Staged|Failed.
func process(sourceRoot string, stager *Stager, name examples.Name) Result {
	status, err := examples.Validate(sourceRoot, name)
	if err != nil {
		reason := err.Error()
		if ce, ok := ferrors.AsClassified(err); ok {
			reason = ce.Message()
			if path, ok := ce.Context().GetString("path"); ok {
				reason += ": " + path
			}
		}
		return Failed(reason, err)
	}
	if !status.Complete() {
		res := Skipped(status.Missing)
		res.Err = ferrors.MissingAssetsError("example is missing required assets").
			WithContext("example", string(name)).
			WithContext("missing", res.MissingFiles()).
			Build()
		return res
	}
	return stager.Stage(name)
}

func logOutcome(name examples.Name, res Result, dur time.Duration) {
	attrs := []any{logfields.Example(string(name)), logfields.Result(string(res.Kind)), logfields.Duration(dur)}
	switch res.Kind {
	case KindStaged:
		slog.Debug("Example staged", attrs...)
	case KindSkippedMissingAssets:
		slog.Info("Example skipped", append(attrs, slog.String("missing", res.MissingFiles()))...)
	default:
		slog.Error("Example failed", append(attrs,
			slog.String("category", string(ferrors.GetCategory(res.Err))),
			logfields.Error(res.Err))...)
	}
}
