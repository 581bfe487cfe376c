package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/config"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

const (
	policyRowsKeyPrefix = "policy:rows"
	policyScanBatchSize = 100
)

// PolicyCache memoises policy evaluations. Evaluations are deterministic, so
// an entry is valid for as long as the catalog version it was keyed on.
type PolicyCache interface {
	GetRows(ctx context.Context, version string, params domain.PolicyParams) ([]domain.PolicyRow, bool, error)
	SetRows(ctx context.Context, version string, params domain.PolicyParams, rows []domain.PolicyRow) error
	InvalidateAll(ctx context.Context) error
}

type redisPolicyCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPolicyCache struct{}

func NewPolicyCache(cfg config.CacheConfig) (PolicyCache, error) {
	if !cfg.Enabled {
		return &noopPolicyCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisPolicyCache(client, ttl), nil
}

// NewRedisPolicyCache wraps an existing client.
func NewRedisPolicyCache(client *redis.Client, ttl time.Duration) PolicyCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisPolicyCache{
		client: client,
		ttl:    ttl,
	}
}

func NewNoopPolicyCache() PolicyCache {
	return &noopPolicyCache{}
}

func (c *redisPolicyCache) GetRows(ctx context.Context, version string, params domain.PolicyParams) ([]domain.PolicyRow, bool, error) {
	key := BuildPolicyRowsKey(version, params)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var rows []domain.PolicyRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, false, fmt.Errorf("decode policy rows cache: %w", err)
	}

	return rows, true, nil
}

func (c *redisPolicyCache) SetRows(ctx context.Context, version string, params domain.PolicyParams, rows []domain.PolicyRow) error {
	key := BuildPolicyRowsKey(version, params)
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode policy rows cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPolicyCache) InvalidateAll(ctx context.Context) error {
	deleted, err := deleteKeysWithPrefix(ctx, c.client, policyRowsKeyPrefix, policyScanBatchSize)
	if err != nil {
		return err
	}
	log.Debug().Int("keys", deleted).Msg("policy cache invalidated")
	return nil
}

func (n *noopPolicyCache) GetRows(ctx context.Context, version string, params domain.PolicyParams) ([]domain.PolicyRow, bool, error) {
	return nil, false, nil
}

func (n *noopPolicyCache) SetRows(ctx context.Context, version string, params domain.PolicyParams, rows []domain.PolicyRow) error {
	return nil
}

func (n *noopPolicyCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// BuildPolicyRowsKey derives the cache key for a (catalog version, z,
// holding multiplier) triple. The service level is not part of the key since
// it only selects z.
func BuildPolicyRowsKey(version string, params domain.PolicyParams) string {
	parts := []string{
		"version=" + strings.TrimSpace(version),
		"z=" + strconv.FormatFloat(params.Z, 'g', -1, 64),
		"holding_multiplier=" + strconv.FormatFloat(params.HoldingMultiplier, 'g', -1, 64),
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%s", policyRowsKeyPrefix, hex.EncodeToString(sum[:]))
}
