// Package logging builds the process logger. Records are rendered as
// "<component>: <LEVEL> - <message> key=value ..." and delivered to the
// system log, the console, or both.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Output targets accepted by Options.Output.
const (
	OutputSyslog  = "syslog"
	OutputConsole = "console"
	OutputBoth    = "both"
)

// ErrSyslogUnavailable is returned by New when the system log cannot be reached.
var ErrSyslogUnavailable = errors.New("syslog unavailable")

// Options configures New.
type Options struct {
	Component string
	Level     string
	Output    string
	Console   io.Writer
	Color     bool
}

// New returns a logger for opts together with a function that releases the
// sinks it opened. The logger is not installed as the slog default.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var sinks []sink
	var closers []io.Closer

	switch opts.Output {
	case OutputConsole:
	case OutputSyslog, OutputBoth:
		s, err := dialSyslog(opts.Component)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrSyslogUnavailable, err)
		}
		sinks = append(sinks, s)
		closers = append(closers, s)
	default:
		return nil, nil, fmt.Errorf("invalid log output %q: must be '%s', '%s' or '%s'",
			opts.Output, OutputSyslog, OutputConsole, OutputBoth)
	}

	if opts.Output == OutputConsole || opts.Output == OutputBoth {
		w := opts.Console
		if w == nil {
			w = os.Stderr
		}
		sinks = append(sinks, newConsoleSink(w, opts.Component, opts.Color))
	}

	closeFn := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}

	return slog.New(newLineHandler(level, sinks...)), closeFn, nil
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", name)
	}
}

// ValidOutput reports whether name is an accepted Options.Output value.
func ValidOutput(name string) bool {
	switch name {
	case OutputSyslog, OutputConsole, OutputBoth:
		return true
	}
	return false
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
