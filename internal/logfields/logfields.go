package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyExample    = "example"
	KeyRole       = "role"
	KeyPath       = "path"
	KeySource     = "source"
	KeyDest       = "dest"
	KeyResult     = "result"
	KeyDurationMS = "duration_ms"
	KeyExitCode   = "exit_code"
	KeyRevision   = "revision"
	KeyError      = "error"
)

func RunID(id string) slog.Attr      { return slog.String(KeyRunID, id) }
func Example(name string) slog.Attr  { return slog.String(KeyExample, name) }
func Role(r string) slog.Attr        { return slog.String(KeyRole, r) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr      { return slog.String(KeySource, p) }
func Dest(p string) slog.Attr        { return slog.String(KeyDest, p) }
func Result(r string) slog.Attr      { return slog.String(KeyResult, r) }
func ExitCode(code int) slog.Attr    { return slog.Int(KeyExitCode, code) }
func Revision(rev string) slog.Attr  { return slog.String(KeyRevision, rev) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
