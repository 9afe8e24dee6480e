package simulate

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/salesboard/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging routes simulator logs to stdout and, when logFile is set, to
// that file as well.
func SetupLogging(logFile, format string, verbose bool) (func() error, error) {
	var out io.Writer = os.Stdout
	closeFn := func() error { return nil }
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closeFn = file.Close
	}
	if err := logger.Init(logger.WithOutput(out), logger.WithFormat(format)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closeFn, nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Salesboard Simulator
====================

Installs a generated member catalog and scoring table on a running server,
logs random activity events concurrently, then checks the served
leaderboards against a local computation over the same events.

WARNING: the member catalog and scoring table on the target are replaced.

Usage:
  go run ./cmd/simulate [options]

Options:
  -url string        Base URL of the service (default "http://localhost:3000")
  -members int       Members per role (default 10)
  -events int        Number of events to log (default 1000)
  -workers int       Number of concurrent submitters (default CPU cores * 2)
  -start string      First day of the window, YYYY-MM-DD (default: 30 days ago)
  -days int          Window length in days (default 30)
  -seed uint         Generator seed, 0 for random (default 0)
  -timeout duration  HTTP request timeout (default 30s)
  -output string     Write the logged events to this JSON file
  -log string        Also write logs to this file
  -verbose           Log every rejected request
  -help              Show this help message
`)
}
