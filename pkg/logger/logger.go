// Package logger builds the structured logger shared by the daemon.
package logger

import (
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
)

// New creates a logger writing to dst at the given level. Format is "json"
// for line-delimited JSON or "console" for human-readable output.
func New(dst io.Writer, level, format string) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	opts := []log.Option{log.LevelOption(lvl)}
	switch format {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "console", "text":
		opts = append(opts, log.ColorOption(false))
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return log.NewLogger(dst, opts...), nil
}
