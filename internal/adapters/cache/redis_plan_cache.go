package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/ports"
)

const (
	planKeyFormat   = "tiffin:plan:%s:g%d:%s:z%d:o%t:r%t"
	planIndexFormat = "tiffin:plan:idx:%s"
	planGenFormat   = "tiffin:plan:gen:%s"

	DefaultPlanTTL = 2 * time.Minute
)

// RedisPlanCache keeps planned deliveries in Redis as JSON. Every key written
// for a store is also recorded in a per-store set so the whole store can be
// invalidated at once.
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	return &RedisPlanCache{client: client, ttl: ttl}
}

func planKey(k ports.PlanKey) string {
	return fmt.Sprintf(planKeyFormat, k.StoreID, k.Generation, k.Date, int(k.Zone), k.Optimize, k.ReturnToStore)
}

func planGenKey(storeID string) string {
	return fmt.Sprintf(planGenFormat, storeID)
}

func planIndexKey(storeID string) string {
	return fmt.Sprintf(planIndexFormat, storeID)
}

func (c *RedisPlanCache) Get(ctx context.Context, key ports.PlanKey) (*domain.DeliveryPlan, bool, error) {
	val, err := c.client.Get(ctx, planKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached plan: %w", err)
	}

	var plan domain.DeliveryPlan
	if err := json.Unmarshal([]byte(val), &plan); err != nil {
		return nil, false, fmt.Errorf("decode cached plan: %w", err)
	}
	return &plan, true, nil
}

func (c *RedisPlanCache) Put(ctx context.Context, key ports.PlanKey, plan *domain.DeliveryPlan) error {
	if plan == nil {
		return errors.New("put cached plan: plan is nil")
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	k := planKey(key)
	idx := planIndexKey(key.StoreID)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, k, data, c.ttl)
	pipe.SAdd(ctx, idx, k)
	// The index outlives its members by one TTL at most.
	pipe.Expire(ctx, idx, 2*c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put cached plan: %w", err)
	}
	return nil
}

// Generation returns the store's plan generation, 0 when it was never
// invalidated.
func (c *RedisPlanCache) Generation(ctx context.Context, storeID string) (int64, error) {
	gen, err := c.client.Get(ctx, planGenKey(storeID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get plan generation of store %s: %w", storeID, err)
	}
	return gen, nil
}

func (c *RedisPlanCache) Invalidate(ctx context.Context, storeID string) error {
	idx := planIndexKey(storeID)

	keys, err := c.client.SMembers(ctx, idx).Result()
	if err != nil {
		return fmt.Errorf("invalidate plans of store %s: %w", storeID, err)
	}

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, planGenKey(storeID))
	pipe.Del(ctx, append(keys, idx)...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate plans of store %s: %w", storeID, err)
	}
	return nil
}
