// Package cache keeps a read-through copy of the public project list.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robaadekings/Robert-portifolio-website/internal/config"
	"github.com/robaadekings/Robert-portifolio-website/internal/models"
	"github.com/robaadekings/Robert-portifolio-website/pkg/logger"
)

const (
	projectListKey = "portfolio:projects:list"
	generationKey  = "portfolio:projects:gen"
)

// ProjectCache stores the full, already-sorted project list.
//
// GetProjects reports the cache generation alongside a miss. A fill must
// pass that generation back to SetProjects, which drops the write if an
// Invalidate happened in between.
type ProjectCache interface {
	GetProjects(ctx context.Context) (projects []models.Project, gen int64, ok bool)
	SetProjects(ctx context.Context, gen int64, projects []models.Project)
	Invalidate(ctx context.Context)
	Ping(ctx context.Context) error
	Enabled() bool
}

// RedisCache implements ProjectCache on a Redis client.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// New connects to Redis when enabled and returns a no-op cache otherwise.
func New(ctx context.Context, cfg *config.RedisConfig) (ProjectCache, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}
	logger.Info().Str("addr", opts.Addr).Msg("project cache connected to Redis")

	return NewRedisCache(client, time.Duration(cfg.TTLSeconds)*time.Second), nil
}

func (r *RedisCache) GetProjects(ctx context.Context) ([]models.Project, int64, bool) {
	vals, err := r.client.MGet(ctx, projectListKey, generationKey).Result()
	if err != nil {
		logger.Warn().Err(err).Msg("project cache read failed")
		return nil, -1, false
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		logger.Warn().Err(err).Msg("project cache generation is corrupt")
		return nil, -1, false
	}

	data, ok := vals[0].(string)
	if !ok {
		return nil, gen, false
	}

	var projects []models.Project
	if err := json.Unmarshal([]byte(data), &projects); err != nil {
		logger.Warn().Err(err).Msg("project cache entry is corrupt, dropping it")
		r.Invalidate(ctx)
		return nil, -1, false
	}
	return projects, gen, true
}

// SetProjects stores projects only while the generation still equals gen.
func (r *RedisCache) SetProjects(ctx context.Context, gen int64, projects []models.Project) {
	if gen < 0 {
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		logger.Warn().Err(err).Msg("project cache encode failed")
		return
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, generationKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		current, err := parseGeneration(raw)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, projectListKey, data, r.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		logger.Debug().Int64("generation", gen).Msg("project cache fill skipped, list changed meanwhile")
	default:
		logger.Warn().Err(err).Msg("project cache write failed")
	}
}

// Invalidate bumps the generation before deleting the list so that fills
// started earlier are rejected.
func (r *RedisCache) Invalidate(ctx context.Context) {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, projectListKey)
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("project cache invalidate failed")
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Enabled() bool { return true }

// Close releases the Redis connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

var errStaleFill = errors.New("stale project cache fill")

func parseGeneration(v interface{}) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case string:
		if t == "" {
			return 0, nil
		}
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected generation type %T", v)
	}
}

// Noop is used when Redis is not configured.
type Noop struct{}

func (Noop) GetProjects(context.Context) ([]models.Project, int64, bool) { return nil, 0, false }
func (Noop) SetProjects(context.Context, int64, []models.Project)        {}
func (Noop) Invalidate(context.Context)                                  {}
func (Noop) Ping(context.Context) error                                  { return nil }
func (Noop) Enabled() bool                                               { return false }
