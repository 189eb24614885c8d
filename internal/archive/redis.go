package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	showKeyPrefix     = "show:"
	roomShowsPrefix   = "room:shows:"
	recentShowsKey    = "shows:recent"
	defaultMaxRecent  = 50
	defaultRecentPage = 10
)

// ErrShowNotFound is returned when a show is not found
var ErrShowNotFound = errors.New("show not found")

// Config holds configuration for the Redis show archive
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// MaxRecent caps the recent-shows list
	MaxRecent int

	// Retention expires show records; zero keeps them forever
	Retention time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client    *redis.Client
	maxRecent int
	retention time.Duration
}

// NewRedis creates a new Redis-backed show archive
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	maxRecent := cfg.MaxRecent
	if maxRecent <= 0 {
		maxRecent = defaultMaxRecent
	}

	return &redisRepository{
		client:    cfg.RedisClient,
		maxRecent: maxRecent,
		retention: cfg.Retention,
	}, nil
}

// SaveShow persists a show and indexes it by recency and by room
func (r *redisRepository) SaveShow(ctx context.Context, input *SaveShowInput) error {
	if input == nil || input.Show == nil {
		return errors.New("input and show cannot be nil")
	}
	if input.Show.ID == "" {
		return errors.New("show ID cannot be empty")
	}

	showJSON, err := json.Marshal(input.Show)
	if err != nil {
		return fmt.Errorf("failed to marshal show: %w", err)
	}

	pipe := r.client.TxPipeline()

	pipe.Set(ctx, showKeyPrefix+input.Show.ID, showJSON, r.retention)

	pipe.LPush(ctx, recentShowsKey, input.Show.ID)
	pipe.LTrim(ctx, recentShowsKey, 0, int64(r.maxRecent-1))

	roomKey := roomShowsPrefix + input.Show.RoomCode
	pipe.ZAdd(ctx, roomKey, redis.Z{
		Score:  float64(input.Show.FinishedAt.UnixNano()),
		Member: input.Show.ID,
	})
	if r.retention > 0 {
		pipe.Expire(ctx, roomKey, r.retention)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save show: %w", err)
	}

	return nil
}

// GetShow retrieves a show by ID
func (r *redisRepository) GetShow(ctx context.Context, input *GetShowInput) (*ShowRecord, error) {
	if input == nil || input.ShowID == "" {
		return nil, errors.New("input and show ID cannot be empty")
	}

	showJSON, err := r.client.Get(ctx, showKeyPrefix+input.ShowID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrShowNotFound
		}
		return nil, fmt.Errorf("failed to get show: %w", err)
	}

	var show ShowRecord
	if err := json.Unmarshal([]byte(showJSON), &show); err != nil {
		return nil, fmt.Errorf("failed to unmarshal show: %w", err)
	}

	return &show, nil
}

// GetRecentShows lists the newest shows across all rooms
func (r *redisRepository) GetRecentShows(ctx context.Context, input *GetRecentShowsInput) (*GetRecentShowsOutput, error) {
	limit := defaultRecentPage
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}
	if limit > r.maxRecent {
		limit = r.maxRecent
	}

	ids, err := r.client.LRange(ctx, recentShowsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent shows: %w", err)
	}

	shows, err := r.loadShows(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &GetRecentShowsOutput{Shows: shows}, nil
}

// GetShowsByRoom lists the shows performed in one room, newest first
func (r *redisRepository) GetShowsByRoom(ctx context.Context, input *GetShowsByRoomInput) ([]*ShowRecord, error) {
	if input == nil || input.RoomCode == "" {
		return nil, errors.New("input and room code cannot be empty")
	}

	ids, err := r.client.ZRevRange(ctx, roomShowsPrefix+input.RoomCode, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list room shows: %w", err)
	}

	return r.loadShows(ctx, ids)
}

// loadShows fetches show records in id order, skipping expired ones
func (r *redisRepository) loadShows(ctx context.Context, ids []string) ([]*ShowRecord, error) {
	shows := make([]*ShowRecord, 0, len(ids))
	if len(ids) == 0 {
		return shows, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = showKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get shows: %w", err)
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var show ShowRecord
		if err := json.Unmarshal([]byte(raw), &show); err != nil {
			return nil, fmt.Errorf("failed to unmarshal show: %w", err)
		}
		shows = append(shows, &show)
	}

	return shows, nil
}
