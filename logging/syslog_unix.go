//go:build !windows && !plan9

package logging

import (
	"log/slog"
	"log/syslog"
)

type syslogSink struct {
	w *syslog.Writer
}

func dialSyslog(tag string) (*syslogSink, error) {
	w, err := syslog.New(syslog.LOG_USER|syslog.LOG_INFO, tag)
	if err != nil {
		return nil, err
	}
	return &syslogSink{w: w}, nil
}

// The writer tags each message with the component, so only the level and
// message are sent.
func (s *syslogSink) writeLine(level slog.Level, msg string) error {
	line := level.String() + " - " + msg
	switch {
	case level >= slog.LevelError:
		return s.w.Err(line)
	case level >= slog.LevelWarn:
		return s.w.Warning(line)
	case level >= slog.LevelInfo:
		return s.w.Info(line)
	default:
		return s.w.Debug(line)
	}
}

func (s *syslogSink) Close() error {
	return s.w.Close()
}
