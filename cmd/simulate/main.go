package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/simulate"
	"github.com/okian/salesboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultMembers     = 10
	defaultNumEvents   = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultDays        = 30
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		baseURL = flag.String("url", "http://localhost:3000", "Base URL of the service")
		members = flag.Int("members", defaultMembers, "Members per role")
		events  = flag.Int("events", defaultNumEvents, "Number of events to log")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		start   = flag.String("start", "", "First day of the window, YYYY-MM-DD")
		days    = flag.Int("days", defaultDays, "Window length in days")
		seed    = flag.Uint64("seed", 0, "Generator seed, 0 for random")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		output  = flag.String("output", "", "Write the logged events to this JSON file")
		logFile = flag.String("log", "", "Also write logs to this file")
		format  = flag.String("log-format", logger.FormatText, "Log format: text or json")
		verbose = flag.Bool("verbose", false, "Log every rejected request")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return 0
	}

	closeLog, err := simulate.SetupLogging(*logFile, *format, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = closeLog() }()

	startDate := model.DateOf(time.Now()).AddDays(-*days)
	if *start != "" {
		if startDate, err = model.ParseDate(*start); err != nil {
			_, _ = os.Stderr.WriteString("Invalid -start: " + err.Error() + "\n")
			return 1
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:    *baseURL,
		Members:    *members,
		NumEvents:  *events,
		Workers:    *workers,
		Timeout:    *timeout,
		Start:      startDate,
		Days:       *days,
		Seed:       *seed,
		OutputFile: *output,
		Verbose:    *verbose,
	}
	if _, err := simulate.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		return 1
	}
	return 0
}
