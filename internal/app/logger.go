package app

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger with timestamps and caller reporting at the
// given level. The writer defaults to os.Stderr.
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true, ReportCaller: true})
	logger.SetLevel(lvl)
	return logger, nil
}
