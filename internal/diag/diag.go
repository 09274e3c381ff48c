// Package diag centralises the diagnostic-logging setup shared by the
// assembler and emulator CLI entry points. Library packages (pkg/asm,
// pkg/vm) never log; they return errors, and only the CLI layer here
// decides how loudly to report them.
package diag

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a text-formatted logger whose level is taken from the
// -v/--verbose flag count (0=warn, 1=info, 2+=debug) or, if verbosity is
// zero, from the SUBLEQ_LOG environment variable.
func NewLogger(verbosity int) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	level := logrus.WarnLevel
	switch {
	case verbosity >= 2:
		level = logrus.DebugLevel
	case verbosity == 1:
		level = logrus.InfoLevel
	default:
		if parsed, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("SUBLEQ_LOG"))); err == nil {
			level = parsed
		}
	}
	log.SetLevel(level)
	return log
}
