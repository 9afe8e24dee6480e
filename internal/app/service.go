// Package service implements the operations behind the HTTP API: catalog
// reads and replacement, activity logging and leaderboard computation.
// Leaderboards are always recomputed from the stored log; nothing is cached.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/okian/salesboard/internal/adapters/repository"
	"github.com/okian/salesboard/internal/domain/leaderboard"
	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/pkg/logger"
	"github.com/okian/salesboard/pkg/metrics"
)

// Settings is the pair of catalogs returned to the admin screens.
type Settings struct {
	Members    []model.Member   `json:"members"`
	Activities []model.Activity `json:"activities"`
}

// LogRequest is the payload of a logActivity call.
type LogRequest struct {
	Date       model.Date       `json:"date"`
	SAMName    string           `json:"sam_name" validate:"required"`
	Activity   string           `json:"activity" validate:"required"`
	ClientType model.ClientType `json:"client_type" validate:"client_type"`
}

// Stats summarises the stored state.
type Stats struct {
	Driver     string `json:"driver"`
	Members    int    `json:"members"`
	Activities int    `json:"activities"`
	Events     int    `json:"events"`
}

// Service implements the API dependencies for the leaderboard system.
type Service struct {
	store    repository.Store
	driver   string
	logger   logger.Logger
	location *time.Location
	now      func() time.Time
	newID    func() (model.ID, error)
	validate *validator.Validate
}

// New constructs a Service. Without WithStore it runs on an in-memory store.
func New(opts ...Option) *Service {
	s := &Service{
		location: time.UTC,
		now:      time.Now,
		newID:    model.NewID,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.driver = repository.DriverMemory
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// Settings returns both catalogs. An unreadable store yields empty catalogs.
func (s *Service) Settings(ctx context.Context) Settings {
	cat := s.catalogs(ctx, "settings")
	return Settings{Members: cat.Members, Activities: cat.Activities}
}

// Leaderboard computes both role boards for the inclusive window
// [start, end] from the current log and catalogs.
func (s *Service) Leaderboard(ctx context.Context, start, end model.Date) (leaderboard.Report, error) {
	w, err := leaderboard.NewWindow(start, end)
	if err != nil {
		metrics.RecordLeaderboardError()
		return leaderboard.Report{}, err
	}

	began := time.Now()
	cat := s.catalogs(ctx, "leaderboard")
	events := s.events(ctx, "leaderboard")
	report := leaderboard.Compute(w, events, cat.Members, cat.Activities)
	metrics.RecordLeaderboardComputation(float64(time.Since(began).Microseconds()) / 1000)

	if report.Orphaned > 0 {
		metrics.RecordOrphanedEvents(report.Orphaned)
		s.logger.Debug(ctx, "events for unknown members skipped",
			logger.String("window", w.String()),
			logger.Int("orphaned", report.Orphaned),
		)
	}
	if len(report.DuplicateNames) > 0 {
		s.logger.Warn(ctx, "member catalog repeats names; last entry wins",
			logger.Strings("names", report.DuplicateNames),
		)
	}
	s.logger.Debug(ctx, "leaderboard computed",
		logger.String("window", w.String()),
		logger.Int("considered", report.Considered),
		logger.Int("sales", len(report.Boards.Sales)),
		logger.Int("am", len(report.Boards.AccountManagers)),
	)
	return report, nil
}

// LogActivity validates req and appends it to the activity log. The event
// takes the member's current role. A missing date means today in the
// configured time zone. Nothing is appended when the member is unknown.
func (s *Service) LogActivity(ctx context.Context, req LogRequest) (model.ActivityEvent, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		metrics.RecordEventRejected("invalid")
		return model.ActivityEvent{}, invalid("", err)
	}

	cat := s.catalogs(ctx, "log_activity")
	member, ok := model.FindMember(cat.Members, req.SAMName)
	if !ok {
		metrics.RecordEventRejected("unknown_member")
		s.logger.Debug(ctx, "rejected event for unknown member", logger.String("sam_name", req.SAMName))
		return model.ActivityEvent{}, fmt.Errorf("%w: %q", ErrUnknownMember, req.SAMName)
	}

	id, err := s.newID()
	if err != nil {
		return model.ActivityEvent{}, fmt.Errorf("generate event id: %w", err)
	}
	e := model.ActivityEvent{
		ID:         id,
		Date:       req.Date,
		SAMName:    member.Name,
		Activity:   req.Activity,
		ClientType: req.ClientType,
		Role:       member.Role,
	}
	if e.Date.IsZero() {
		e.Date = model.DateOf(s.now().In(s.location))
	}
	if e.ClientType == "" {
		e.ClientType = model.ClientNA
	}

	began := time.Now()
	if err := s.store.AppendEvent(ctx, e); err != nil {
		s.logger.Error(ctx, "failed to append event", logger.Error(err))
		return model.ActivityEvent{}, fmt.Errorf("append event: %w", err)
	}
	metrics.RecordStoreUpdateLatency(float64(time.Since(began).Microseconds()) / 1000)
	metrics.RecordEventLogged()

	s.logger.Info(ctx, "activity logged",
		logger.String("id", string(e.ID)),
		logger.String("sam_name", e.SAMName),
		logger.String("activity", e.Activity),
		logger.String("date", e.Date.String()),
	)
	return e, nil
}

// UpdateScores replaces the scoring table. Every row is validated before
// anything is written; rows without an id get one.
func (s *Service) UpdateScores(ctx context.Context, activities []model.Activity) error {
	out := make([]model.Activity, len(activities))
	for i, a := range activities {
		if err := s.validate.StructCtx(ctx, a); err != nil {
			return invalid(fmt.Sprintf("activities[%d]", i), err)
		}
		if a.ID == "" {
			id, err := s.newID()
			if err != nil {
				return fmt.Errorf("generate activity id: %w", err)
			}
			a.ID = id
		}
		out[i] = a
	}

	began := time.Now()
	if err := s.store.ReplaceActivities(ctx, out); err != nil {
		s.logger.Error(ctx, "failed to replace activities", logger.Error(err))
		return fmt.Errorf("replace activities: %w", err)
	}
	metrics.RecordStoreUpdateLatency(float64(time.Since(began).Microseconds()) / 1000)
	metrics.RecordCatalogReplacement("activities")
	s.logger.Info(ctx, "scoring table replaced", logger.Int("activities", len(out)))
	return nil
}

// UpdateMembers replaces the member catalog. Names must be unique because
// events are attributed by name.
func (s *Service) UpdateMembers(ctx context.Context, members []model.Member) error {
	out := make([]model.Member, len(members))
	seen := make(map[string]int, len(members))
	for i, m := range members {
		if err := s.validate.StructCtx(ctx, m); err != nil {
			return invalid(fmt.Sprintf("members[%d]", i), err)
		}
		if first, dup := seen[m.Name]; dup {
			return fmt.Errorf("%w: %q at members[%d] and members[%d]", ErrDuplicateMemberName, m.Name, first, i)
		}
		seen[m.Name] = i
		if m.ID == "" {
			id, err := s.newID()
			if err != nil {
				return fmt.Errorf("generate member id: %w", err)
			}
			m.ID = id
		}
		out[i] = m
	}

	began := time.Now()
	if err := s.store.ReplaceMembers(ctx, out); err != nil {
		s.logger.Error(ctx, "failed to replace members", logger.Error(err))
		return fmt.Errorf("replace members: %w", err)
	}
	metrics.RecordStoreUpdateLatency(float64(time.Since(began).Microseconds()) / 1000)
	metrics.RecordCatalogReplacement("members")
	s.logger.Info(ctx, "member catalog replaced", logger.Int("members", len(out)))
	return nil
}

// GetStats returns service statistics for monitoring and refreshes the
// catalog and log gauges.
func (s *Service) GetStats(ctx context.Context) Stats {
	cat := s.catalogs(ctx, "stats")
	events := s.events(ctx, "stats")

	metrics.UpdateCatalogSizes(len(cat.Members), len(cat.Activities))
	metrics.UpdateEventCount(len(events))

	return Stats{
		Driver:     s.driver,
		Members:    len(cat.Members),
		Activities: len(cat.Activities),
		Events:     len(events),
	}
}

// Close releases the store if it holds external resources.
func (s *Service) Close() error {
	if closer, ok := s.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// catalogs loads both catalogs, degrading to empty ones on failure.
func (s *Service) catalogs(ctx context.Context, op string) repository.Catalogs {
	began := time.Now()
	cat, err := s.store.LoadCatalogs(ctx)
	if err != nil {
		s.fallback(ctx, op, "catalogs", err)
		return repository.Catalogs{Members: []model.Member{}, Activities: []model.Activity{}}
	}
	metrics.RecordStoreQueryLatency(float64(time.Since(began).Microseconds()) / 1000)
	return cat
}

// events loads the activity log, degrading to an empty log on failure.
func (s *Service) events(ctx context.Context, op string) []model.ActivityEvent {
	began := time.Now()
	events, err := s.store.LoadEvents(ctx)
	if err != nil {
		s.fallback(ctx, op, "events", err)
		return []model.ActivityEvent{}
	}
	metrics.RecordStoreQueryLatency(float64(time.Since(began).Microseconds()) / 1000)
	return events
}

func (s *Service) fallback(ctx context.Context, op, what string, err error) {
	metrics.RecordStoreFallback(op)
	fields := []logger.Field{
		logger.String("operation", op),
		logger.String("collection", what),
		logger.Error(err),
	}
	if errors.Is(err, context.Canceled) {
		s.logger.Debug(ctx, "store read cancelled", fields...)
		return
	}
	s.logger.Warn(ctx, "store read failed; using empty collection", fields...)
}
