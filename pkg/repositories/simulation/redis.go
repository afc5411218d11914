package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fadedpez/aceshigh/pkg/entities"
)

const (
	// Key prefixes for Redis
	runKeyPrefix       = "run:"
	modeRunsKeyPrefix  = "runs:"
	allRunsKey         = "runs:all"
	cribHandsKeyPrefix = "crib_hands:"
)

// RedisConfig holds configuration for the Redis repository
type RedisConfig struct {
	RedisClient *redis.Client
}

// RedisRepository implements the Repository interface using Redis
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a new Redis repository
func NewRedisRepository(cfg *RedisConfig) (*RedisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRepository{client: cfg.RedisClient}, nil
}

// SaveRun stores a run and indexes it by completion time
func (r *RedisRepository) SaveRun(ctx context.Context, run *entities.SimulationRun) error {
	if run == nil {
		return errors.New("run cannot be nil")
	}

	runJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	score := float64(run.CompletedAt.UnixNano())

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, runKeyPrefix+run.ID, runJSON, 0)
	pipe.ZAdd(ctx, allRunsKey, redis.Z{Score: score, Member: run.ID})
	pipe.ZAdd(ctx, modeRunsKeyPrefix+string(run.Mode), redis.Z{Score: score, Member: run.ID})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID
func (r *RedisRepository) GetRun(ctx context.Context, id string) (*entities.SimulationRun, error) {
	runJSON, err := r.client.Get(ctx, runKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, runNotFound(id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return decodeRun([]byte(runJSON))
}

// ListRuns retrieves the most recent runs, optionally for one mode
func (r *RedisRepository) ListRuns(ctx context.Context, mode entities.Mode, limit int) ([]*entities.SimulationRun, error) {
	key := allRunsKey
	if mode != "" {
		key = modeRunsKeyPrefix + string(mode)
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := r.client.ZRevRange(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(ids) == 0 {
		return []*entities.SimulationRun{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = runKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}

	runs := make([]*entities.SimulationRun, 0, len(values))
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			// Index entry without a run body
			continue
		}
		run, err := decodeRun([]byte(s))
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	// Members with equal scores come back in reverse lexical order
	sortNewestFirst(runs)
	return runs, nil
}

// SaveCribHands appends collected hands to a run
func (r *RedisRepository) SaveCribHands(ctx context.Context, runID string, hands []*entities.CribHandRecord) error {
	if len(hands) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(hands))
	for _, h := range hands {
		record := *h
		record.RunID = runID
		data, err := json.Marshal(&record)
		if err != nil {
			return fmt.Errorf("failed to marshal crib hand: %w", err)
		}
		values = append(values, data)
	}

	if err := r.client.RPush(ctx, cribHandsKeyPrefix+runID, values...).Err(); err != nil {
		return fmt.Errorf("failed to save crib hands: %w", err)
	}
	return nil
}

// GetCribHands retrieves the first limit hands collected by a run
func (r *RedisRepository) GetCribHands(ctx context.Context, runID string, limit int) ([]*entities.CribHandRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	values, err := r.client.LRange(ctx, cribHandsKeyPrefix+runID, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get crib hands: %w", err)
	}

	hands := make([]*entities.CribHandRecord, 0, len(values))
	for _, value := range values {
		var h entities.CribHandRecord
		if err := json.Unmarshal([]byte(value), &h); err != nil {
			return nil, fmt.Errorf("failed to unmarshal crib hand: %w", err)
		}
		hands = append(hands, &h)
	}
	return hands, nil
}

// Close closes the Redis client
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func decodeRun(data []byte) (*entities.SimulationRun, error) {
	var run entities.SimulationRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	if run.Histogram == nil {
		run.Histogram = make(entities.Histogram)
	}
	return &run, nil
}
