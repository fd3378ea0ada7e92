package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
)

type consoleSink struct {
	w         io.Writer
	component string
	debug     *color.Color
	info      *color.Color
	warn      *color.Color
	err       *color.Color
}

func newConsoleSink(w io.Writer, component string, useColor bool) *consoleSink {
	s := &consoleSink{
		w:         w,
		component: component,
		debug:     color.New(color.FgHiBlack),
		info:      color.New(color.FgGreen),
		warn:      color.New(color.FgYellow),
		err:       color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{s.debug, s.info, s.warn, s.err} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s *consoleSink) writeLine(level slog.Level, msg string) error {
	var c *color.Color
	switch {
	case level >= slog.LevelError:
		c = s.err
	case level >= slog.LevelWarn:
		c = s.warn
	case level >= slog.LevelInfo:
		c = s.info
	default:
		c = s.debug
	}

	_, err := fmt.Fprintf(s.w, "%s: %s - %s\n", s.component, c.Sprint(level.String()), msg)
	return err
}
