package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okian/salesboard/internal/domain/model"
)

// schema is applied on every start; all statements are idempotent.
// Catalog rows carry their list position so reads return catalog order.
const schema = `
CREATE TABLE IF NOT EXISTS members (
	position INTEGER NOT NULL PRIMARY KEY,
	id       TEXT    NOT NULL,
	name     TEXT    NOT NULL,
	role     TEXT    NOT NULL,
	region   TEXT    NOT NULL DEFAULT '',
	bu       TEXT    NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS activities (
	position INTEGER NOT NULL PRIMARY KEY,
	id       TEXT    NOT NULL,
	activity TEXT    NOT NULL,
	role     TEXT    NOT NULL,
	score    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS activity_events (
	seq         BIGSERIAL PRIMARY KEY,
	id          TEXT NOT NULL UNIQUE,
	event_date  DATE,
	sam_name    TEXT NOT NULL,
	activity    TEXT NOT NULL,
	client_type TEXT NOT NULL DEFAULT '',
	role        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS activity_events_date_idx ON activity_events (event_date);
`

// PostgresStore persists catalogs and the activity log in PostgreSQL.
// Catalog replacement deletes and re-copies rows inside one transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, pings and applies the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// LoadCatalogs implements Store.
func (s *PostgresStore) LoadCatalogs(ctx context.Context) (Catalogs, error) {
	memberRows, err := s.pool.Query(ctx, `SELECT id, name, role, region, bu FROM members ORDER BY position`)
	if err != nil {
		return Catalogs{}, unavailable("query members", err)
	}
	members, err := pgx.CollectRows(memberRows, func(row pgx.CollectableRow) (model.Member, error) {
		var m model.Member
		err := row.Scan(&m.ID, &m.Name, &m.Role, &m.Region, &m.BU)
		return m, err
	})
	if err != nil {
		return Catalogs{}, unavailable("scan members", err)
	}

	activityRows, err := s.pool.Query(ctx, `SELECT id, activity, role, score FROM activities ORDER BY position`)
	if err != nil {
		return Catalogs{}, unavailable("query activities", err)
	}
	activities, err := pgx.CollectRows(activityRows, func(row pgx.CollectableRow) (model.Activity, error) {
		var a model.Activity
		err := row.Scan(&a.ID, &a.Activity, &a.Role, &a.Score)
		return a, err
	})
	if err != nil {
		return Catalogs{}, unavailable("scan activities", err)
	}
	return Catalogs{Members: nonNil(members), Activities: nonNil(activities)}, nil
}

// LoadEvents implements Store.
func (s *PostgresStore) LoadEvents(ctx context.Context) ([]model.ActivityEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, event_date, sam_name, activity, client_type, role
		FROM activity_events ORDER BY seq`)
	if err != nil {
		return nil, unavailable("query events", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ActivityEvent, error) {
		var (
			e    model.ActivityEvent
			date *time.Time
		)
		if err := row.Scan(&e.ID, &date, &e.SAMName, &e.Activity, &e.ClientType, &e.Role); err != nil {
			return e, err
		}
		if date != nil {
			e.Date = model.NewDate(date.Date())
		}
		return e, nil
	})
	if err != nil {
		return nil, unavailable("scan events", err)
	}
	return nonNil(events), nil
}

// ReplaceMembers implements Store.
func (s *PostgresStore) ReplaceMembers(ctx context.Context, members []model.Member) error {
	rows := make([][]any, len(members))
	for i, m := range members {
		rows[i] = []any{i, string(m.ID), m.Name, string(m.Role), m.Region, m.BU}
	}
	return s.replace(ctx, "members", []string{"position", "id", "name", "role", "region", "bu"}, rows)
}

// ReplaceActivities implements Store.
func (s *PostgresStore) ReplaceActivities(ctx context.Context, activities []model.Activity) error {
	rows := make([][]any, len(activities))
	for i, a := range activities {
		rows[i] = []any{i, string(a.ID), a.Activity, string(a.Role), a.Score}
	}
	return s.replace(ctx, "activities", []string{"position", "id", "activity", "role", "score"}, rows)
}

// AppendEvent implements Store.
func (s *PostgresStore) AppendEvent(ctx context.Context, e model.ActivityEvent) error {
	var date any
	if !e.Date.IsZero() {
		date = e.Date.Time()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO activity_events (id, event_date, sam_name, activity, client_type, role)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.ID), date, e.SAMName, e.Activity, string(e.ClientType), string(e.Role))
	if err != nil {
		return writeFailed("insert event", err)
	}
	return nil
}

// Reset removes every catalog row and logged event.
func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE members, activities, activity_events RESTART IDENTITY`); err != nil {
		return writeFailed("truncate", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) replace(ctx context.Context, table string, columns []string, rows [][]any) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return writeFailed("begin "+table, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, "DELETE FROM "+pgx.Identifier{table}.Sanitize()); err != nil {
		return writeFailed("clear "+table, err)
	}
	if _, err = tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows)); err != nil {
		return writeFailed("copy "+table, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return writeFailed("commit "+table, err)
	}
	return nil
}
