package tablequery

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds a human-readable console logger for hosts that have none.
// An unparsable level falls back to info. A nil writer means stderr.
func NewLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if w == nil {
		w = os.Stderr
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}).
		Level(lvl).
		With().
		Timestamp().
		Str("component", "tablequery").
		Logger()
}
