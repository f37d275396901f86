// Package logging builds the zerolog loggers used by co2cast.
//
// Loggers are plain zerolog.Logger values passed into each component; there
// is no package-level logger. Components derive a child logger with
// Component and never mutate the one they were given.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Standard field names.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldCountry   = "country"
	FieldStrategy  = "strategy"
)

// Config selects the level and output format of a logger.
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// New returns a logger writing to w (stderr when nil).
//
// The level is parsed with ParseLevel; an unknown format falls back to the
// human-readable console writer.
func New(cfg Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	out := w
	if !strings.EqualFold(cfg.Format, FormatJSON) {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    !isTerminal(w),
		}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ParseLevel parses level, defaulting to info when it is empty or unknown.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// ValidFormat reports whether format is a supported output format.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatConsole, FormatJSON:
		return true
	}
	return false
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str(FieldComponent, name).Logger()
}

// WithRequestID returns a child logger tagged with id, generating a new
// request id when id is empty.
func WithRequestID(logger zerolog.Logger, id string) (zerolog.Logger, string) {
	if id == "" {
		id = uuid.New().String()
	}
	return logger.With().Str(FieldRequestID, id).Logger(), id
}
