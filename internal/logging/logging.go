// Package logging provides structured logging setup for blog-comments.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely logs are written.
type Options struct {
	// Dev selects human-readable text at debug level; otherwise JSON at info.
	Dev bool
	// File, when set, receives the logs instead of stderr and is rotated.
	File string
	// MaxSizeMB is the rotation threshold for File (default 10).
	MaxSizeMB int
}

// Setup initializes the default slog logger. The returned closer flushes
// and closes the log file, if any; it is always safe to call.
func Setup(opts Options) io.Closer {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		if opts.MaxSizeMB == 0 {
			opts.MaxSizeMB = 10
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: 3,
			MaxAge:     28,
		}
		w, closer = lj, lj
	}

	slog.SetDefault(slog.New(NewHandler(w, opts.Dev)))
	return closer
}

// NewHandler returns the handler Setup installs: text at debug in dev mode,
// JSON at info otherwise.
func NewHandler(w io.Writer, dev bool) slog.Handler {
	if dev {
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
