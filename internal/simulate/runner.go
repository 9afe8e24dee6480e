// Package simulate drives a running server end to end: it installs a
// generated catalog, logs random activity concurrently and checks the
// served leaderboards against a local computation over the same data.
package simulate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/salesboard/internal/domain/leaderboard"
	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
	percentMultiplier   = 100
)

// ErrMismatch is returned when the served leaderboard differs from the
// locally computed one.
var ErrMismatch = errors.New("leaderboard mismatch")

// Run executes the complete simulation.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()
	if err := validate(cfg); err != nil {
		return stats, err
	}

	log.Info(ctx, "starting salesboard simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("members", cfg.Members),
		logger.Int("events", cfg.NumEvents),
		logger.Int("workers", cfg.Workers),
		logger.String("start", cfg.Start.String()),
		logger.Int("days", cfg.Days),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	gen := newGenerator(cfg.Seed)
	members, activities, err := install(ctx, client, gen, cfg.Members)
	if err != nil {
		return stats, err
	}

	if err := checkUnknownMemberRejected(ctx, client, cfg.Start); err != nil {
		return stats, err
	}

	payloads := make([]logPayload, cfg.NumEvents)
	for i := range payloads {
		payloads[i] = gen.event(members, cfg)
	}
	stats.EventsGenerated = len(payloads)

	logged := submit(ctx, client, cfg, payloads, stats)
	if stats.EventsFailed > 0 {
		return stats, fmt.Errorf("%d of %d events failed to log", stats.EventsFailed, stats.EventsGenerated)
	}

	start, end := cfg.Window()
	actual, err := client.Leaderboard(ctx, start, end)
	if err != nil {
		return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	w, err := leaderboard.NewWindow(start, end)
	if err != nil {
		return stats, err
	}
	expected := leaderboard.Compute(w, logged, members, activities)
	stats.OutOfWindow = len(logged) - expected.Considered
	stats.SalesEntries = len(actual.Sales)
	stats.AMEntries = len(actual.AccountManagers)

	if err := compareBoards(expected.Boards, actual); err != nil {
		return stats, err
	}
	log.Info(ctx, "leaderboards verified", logger.String("window", w.String()))

	if cfg.OutputFile != "" {
		if err := saveEvents(cfg.OutputFile, logged); err != nil {
			log.Warn(ctx, "failed to save events to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.BaseURL == "":
		return errors.New("base url is required")
	case cfg.Members < 1:
		return errors.New("members must be at least 1")
	case cfg.NumEvents < 0:
		return errors.New("events must not be negative")
	case cfg.Workers < 1:
		return errors.New("workers must be at least 1")
	case cfg.Days < 1:
		return errors.New("days must be at least 1")
	case cfg.Start.IsZero():
		return errors.New("start date is required")
	}
	return nil
}

// install replaces both catalogs on the server and returns them as stored,
// ids included.
func install(ctx context.Context, client *HTTPClient, gen *generator, perRole int) ([]model.Member, []model.Activity, error) {
	if err := expectStatus(client.Action(ctx, "updateMembers", map[string]any{"members": gen.members(perRole)}))(http.StatusOK); err != nil {
		return nil, nil, fmt.Errorf("install members: %w", err)
	}
	if err := expectStatus(client.Action(ctx, "updateScores", map[string]any{"activities": gen.activities()}))(http.StatusOK); err != nil {
		return nil, nil, fmt.Errorf("install activities: %w", err)
	}
	settings, err := client.Settings(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read back catalogs: %w", err)
	}
	logger.Get().Info(ctx, "catalogs installed",
		logger.Int("members", len(settings.Members)),
		logger.Int("activities", len(settings.Activities)),
	)
	return settings.Members, settings.Activities, nil
}

func checkUnknownMemberRejected(ctx context.Context, client *HTTPClient, date model.Date) error {
	payload := logPayload{Date: date, SAMName: "nobody-" + uuid.NewString(), Activity: salesActivities[0]}
	if err := expectStatus(client.Action(ctx, "logActivity", payload))(http.StatusBadRequest); err != nil {
		return fmt.Errorf("unknown member was not rejected: %w", err)
	}
	return nil
}

// submit logs payloads with a bounded pool of workers and returns the
// events the server accepted.
func submit(ctx context.Context, client *HTTPClient, cfg *Config, payloads []logPayload, stats *Stats) []model.ActivityEvent {
	log := logger.Get()
	log.Info(ctx, "logging events", logger.Int("events", len(payloads)), logger.Int("workers", cfg.Workers))

	var (
		mu      sync.Mutex
		logged  = make([]model.ActivityEvent, 0, len(payloads))
		wg      sync.WaitGroup
		payload = make(chan logPayload, cfg.Workers*2)
	)

	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range payload {
				err := expectStatus(client.Action(ctx, "logActivity", p))(http.StatusCreated)
				if err != nil {
					if cfg.Verbose {
						log.Warn(ctx, "event rejected", logger.String("sam_name", p.SAMName), logger.Error(err))
					}
					continue
				}
				mu.Lock()
				logged = append(logged, p.toEvent())
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(payload)
		for _, p := range payloads {
			select {
			case <-ctx.Done():
				return
			case payload <- p:
			}
		}
	}()
	wg.Wait()

	stats.EventsLogged = len(logged)
	// Anything not accepted, including payloads never sent after cancellation.
	stats.EventsFailed = len(payloads) - len(logged)
	return logged
}

// expectStatus adapts a client call result into a check for want.
func expectStatus(status int, body []byte, err error) func(want int) error {
	return func(want int) error {
		if err != nil {
			return err
		}
		if status != want {
			return fmt.Errorf("status %d, want %d: %s", status, want, body)
		}
		return nil
	}
}

func saveEvents(filename string, events []model.ActivityEvent) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, eventsPerSecond float64
	if stats.EventsGenerated > 0 {
		successRate = float64(stats.EventsLogged) / float64(stats.EventsGenerated) * percentMultiplier
	}
	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsLogged) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("eventsGenerated", stats.EventsGenerated),
		logger.Int("eventsLogged", stats.EventsLogged),
		logger.Int("eventsFailed", stats.EventsFailed),
		logger.Int("outOfWindow", stats.OutOfWindow),
		logger.Int("salesEntries", stats.SalesEntries),
		logger.Int("amEntries", stats.AMEntries),
		logger.Duration("duration", stats.Duration),
		logger.String("successRate", fmt.Sprintf("%.1f%%", successRate)),
		logger.String("eventsPerSecond", fmt.Sprintf("%.1f", eventsPerSecond)),
	)
}
