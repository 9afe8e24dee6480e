package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/salesboard/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds redis driver connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key the store touches.
	Prefix string
}

// RedisStore keeps the catalogs as JSON documents and the activity log as a
// redis list of JSON events. Replacements are single SET commands and
// appends single RPUSH commands, so each write is atomic on the server.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string { return s.prefix + ":" + name }

// LoadCatalogs implements Store.
func (s *RedisStore) LoadCatalogs(ctx context.Context) (Catalogs, error) {
	vals, err := s.client.MGet(ctx, s.key("members"), s.key("activities")).Result()
	if err != nil {
		return Catalogs{}, unavailable("mget catalogs", err)
	}
	members, err := decodeDocument[model.Member](vals[0])
	if err != nil {
		return Catalogs{}, unavailable("decode members", err)
	}
	activities, err := decodeDocument[model.Activity](vals[1])
	if err != nil {
		return Catalogs{}, unavailable("decode activities", err)
	}
	return Catalogs{Members: members, Activities: activities}, nil
}

// LoadEvents implements Store.
func (s *RedisStore) LoadEvents(ctx context.Context) ([]model.ActivityEvent, error) {
	raw, err := s.client.LRange(ctx, s.key("events"), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, unavailable("lrange events", err)
	}
	rows := make([]json.RawMessage, len(raw))
	for i, item := range raw {
		rows[i] = json.RawMessage(item)
	}
	return decodeEvents(rows), nil
}

// ReplaceMembers implements Store.
func (s *RedisStore) ReplaceMembers(ctx context.Context, members []model.Member) error {
	return s.setDocument(ctx, "members", nonNil(members))
}

// ReplaceActivities implements Store.
func (s *RedisStore) ReplaceActivities(ctx context.Context, activities []model.Activity) error {
	return s.setDocument(ctx, "activities", nonNil(activities))
}

// AppendEvent implements Store.
func (s *RedisStore) AppendEvent(ctx context.Context, e model.ActivityEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return writeFailed("encode event", err)
	}
	if err := s.client.RPush(ctx, s.key("events"), data).Err(); err != nil {
		return writeFailed("rpush event", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) setDocument(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return writeFailed("encode "+name, err)
	}
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return writeFailed("set "+name, err)
	}
	return nil
}

// decodeDocument decodes an MGET value; a missing key is an empty list.
func decodeDocument[T any](v any) ([]T, error) {
	if v == nil {
		return []T{}, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected value type %T", v)
	}
	var out []T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}
