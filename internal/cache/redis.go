// Package cache keeps vote tallies in redis so repeated reads of a busy poll skip the aggregation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

const defaultTallyTTL = 10 * time.Minute

// Options configures the redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// TallyCache stores the JSON-encoded tally of each poll under "tally:<pollID>" and its
// generation counter under "tally:gen:<pollID>".
type TallyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect opens a client and checks it with a PING.
func Connect(ctx context.Context, opts Options) (*TallyCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 3 * time.Second,
		ReadTimeout: 3 * time.Second,
		PoolSize:    10,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}
	slog.Info("redis connected", "addr", opts.Addr)
	return NewTallyCache(client, opts.TTL), nil
}

func NewTallyCache(client *redis.Client, ttl time.Duration) *TallyCache {
	if ttl <= 0 {
		ttl = defaultTallyTTL
	}
	return &TallyCache{client: client, ttl: ttl}
}

func tallyKey(pollID string) string {
	return "tally:" + pollID
}

func generationKey(pollID string) string {
	return "tally:gen:" + pollID
}

func (c *TallyCache) Get(ctx context.Context, pollID string) ([]models.Tally, bool, error) {
	raw, err := c.client.Get(ctx, tallyKey(pollID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var tallies []models.Tally
	if err := json.Unmarshal(raw, &tallies); err != nil {
		return nil, false, fmt.Errorf("decoding cached tally: %w", err)
	}
	return tallies, true, nil
}

func (c *TallyCache) Generation(ctx context.Context, pollID string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(pollID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set writes tallies only while the generation still equals generation. The check and the
// write run in one WATCH transaction; losing the race to an Invalidate is not an error.
func (c *TallyCache) Set(ctx context.Context, pollID string, generation int64, tallies []models.Tally) error {
	raw, err := json.Marshal(tallies)
	if err != nil {
		return err
	}

	genKey := generationKey(pollID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, tallyKey(pollID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *TallyCache) Invalidate(ctx context.Context, pollIDs ...string) error {
	if len(pollIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range pollIDs {
			pipe.Incr(ctx, generationKey(id))
			pipe.Del(ctx, tallyKey(id))
		}
		return nil
	})
	return err
}

// Health reports the redis status in the same shape as the database health map.
func (c *TallyCache) Health(ctx context.Context) map[string]string {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}
	return map[string]string{"status": "up"}
}

func (c *TallyCache) Close() error {
	return c.client.Close()
}
