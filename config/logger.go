package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger. With a log file configured logs go there,
// otherwise to fallback as human-readable console output. A nil fallback discards them.
func NewLogger(o *Options, fallback io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
	}

	if o.LogFile != "" {
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return zerolog.New(f).Level(level).With().Timestamp().Logger(), f, nil
	}

	if fallback == nil {
		return zerolog.Nop(), nil, nil
	}
	console := zerolog.ConsoleWriter{Out: fallback, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(level).With().Timestamp().Logger(), nil, nil
}
