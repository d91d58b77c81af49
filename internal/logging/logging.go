// Package logging builds the process logger from the [log] config section.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/mchurichi/ddattrs/internal/config"
	"github.com/mchurichi/ddattrs/pkg/attrs"
)

// New returns a logger writing to w. Console output is human readable,
// anything else is one JSON event per line.
func New(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	out := w
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// Violations logs one warning per shape violation of the given input line.
func Violations(logger zerolog.Logger, line int, report *attrs.Report) {
	if report == nil {
		return
	}
	for _, v := range report.Violations {
		logger.Warn().
			Int("line", line).
			Str("field", v.Field).
			Interface("value", v.Value).
			Str("reason", v.Reason).
			Msg("shape violation")
	}
}

// Unknown logs the unknown fields of a line at debug level.
func Unknown(logger zerolog.Logger, line int, report *attrs.Report) {
	if report == nil {
		return
	}
	for _, u := range report.Unknown {
		logger.Debug().Int("line", line).Str("field", u.Field).Msg("unknown field")
	}
}
