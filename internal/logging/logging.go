// Package logging configures the process-wide zerolog logger. Both binaries
// log to an append-only file so the terminal stays free for the chat UI.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// Setup opens (or creates) the log file and returns a timestamped logger
// writing to it. The caller owns the returned close function.
func Setup(path string) (zerolog.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	logger := zerolog.New(f).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return logger, f.Close, nil
}
