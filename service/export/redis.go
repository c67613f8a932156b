package export

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink stores each product as JSON under
// <prefix>:<store>:product:<legacy id> and keeps the id set at
// <prefix>:<store>:products.
type RedisSink struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSink(client *redis.Client, prefix string, ttl time.Duration) *RedisSink {
	if prefix == "" {
		prefix = "shopify"
	}
	return &RedisSink{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) key(parts ...string) string {
	return s.prefix + ":" + strings.Join(parts, ":")
}

func (s *RedisSink) ProductKey(store, legacyID string) string {
	return s.key(store, "product", legacyID)
}

func (s *RedisSink) IndexKey(store string) string {
	return s.key(store, "products")
}

func (s *RedisSink) Write(ctx context.Context, batch *Batch) (int, error) {
	if s.client == nil {
		return 0, fmt.Errorf("redis sink: no client configured")
	}
	values := make(map[string][]byte, len(batch.Products))
	ids := make([]interface{}, 0, len(batch.Products))
	for _, p := range batch.Products {
		raw, err := json.Marshal(p)
		if err != nil {
			return 0, fmt.Errorf("encode %s: %w", p.ID, err)
		}
		values[p.LegacyID()] = raw
		ids = append(ids, p.LegacyID())
	}

	index := s.IndexKey(batch.Store)
	var stale []string
	if batch.Complete {
		previous, err := s.client.SMembers(ctx, index).Result()
		if err != nil && err != redis.Nil {
			return 0, fmt.Errorf("redis export: read index: %w", err)
		}
		stale = staleIDs(previous, values)
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if batch.Complete {
			for _, id := range stale {
				pipe.Del(ctx, s.ProductKey(batch.Store, id))
			}
			pipe.Del(ctx, index)
		}
		for id, raw := range values {
			pipe.Set(ctx, s.ProductKey(batch.Store, id), raw, s.ttl)
		}
		if len(ids) > 0 {
			pipe.SAdd(ctx, index, ids...)
		}
		pipe.Set(ctx, s.key(batch.Store, "exported_at"), batch.ExportedAt.Format(time.RFC3339), s.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis export: %w", err)
	}
	return len(values), nil
}

// staleIDs lists the previously indexed ids missing from the current batch.
func staleIDs(previous []string, current map[string][]byte) []string {
	var out []string
	for _, id := range previous {
		if _, ok := current[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (s *RedisSink) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
