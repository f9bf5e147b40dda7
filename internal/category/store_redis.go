package category

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key holding the admissible set. A plain SET: SADD to admit a
// category, SREM to retire one, no deploy needed.
const categoriesKey = "todotrack:categories"

const lookupTimeout = 200 * time.Millisecond

// RedisValidator answers category checks from a shared Redis set so every
// instance sees the same admissible categories. On Redis errors it degrades
// to the static fallback rather than rejecting writes outright.
//
// The todolist.CategoryValidator port is context-free on purpose (the domain
// stays free of context.Context), so lookups run under a short internal
// timeout.
type RedisValidator struct {
	client   *redis.Client
	fallback *StaticValidator
	logger   *slog.Logger
}

// NewRedisValidator wraps a Redis client with a static fallback.
func NewRedisValidator(client *redis.Client, fallback *StaticValidator, logger *slog.Logger) *RedisValidator {
	return &RedisValidator{client: client, fallback: fallback, logger: logger}
}

// Seed admits the fallback's categories in Redis when the set is empty, so a
// fresh deployment starts from the configured defaults.
func (v *RedisValidator) Seed(ctx context.Context) error {
	n, err := v.client.SCard(ctx, categoriesKey).Result()
	if err != nil {
		return fmt.Errorf("check category set: %w", err)
	}
	if n > 0 {
		return nil
	}
	members := make([]any, 0, len(v.fallback.names))
	for _, name := range v.fallback.ValidCategories() {
		members = append(members, name)
	}
	if err := v.client.SAdd(ctx, categoriesKey, members...).Err(); err != nil {
		return fmt.Errorf("seed category set: %w", err)
	}
	return nil
}

func (v *RedisValidator) IsValidCategory(category string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	ok, err := v.client.SIsMember(ctx, categoriesKey, category).Result()
	if err != nil {
		v.logger.Warn("category lookup degraded to static fallback", "error", err)
		return v.fallback.IsValidCategory(category)
	}
	return ok
}

func (v *RedisValidator) ValidCategories() []string {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	names, err := v.client.SMembers(ctx, categoriesKey).Result()
	if err != nil || len(names) == 0 {
		if err != nil {
			v.logger.Warn("category listing degraded to static fallback", "error", err)
		}
		return v.fallback.ValidCategories()
	}
	slices.Sort(names)
	return names
}
