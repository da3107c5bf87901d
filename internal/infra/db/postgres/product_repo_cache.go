package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/repository"
	"adobe-subscription-store/internal/infra/metrics"
	red "adobe-subscription-store/internal/infra/redis"
)

var _ repository.ProductRepository = (*productRepoCacheDecorator)(nil)

// productRepoCacheDecorator caches catalog reads in Redis with a short TTL.
// The catalog is reference data, so staleness within the TTL is acceptable;
// writes invalidate both the per-product key and the full list.
type productRepoCacheDecorator struct {
	inner repository.ProductRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewProductRepoCacheDecorator(inner repository.ProductRepository, cache red.RedisClient, ttl time.Duration) repository.ProductRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &productRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *productRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	key := fmt.Sprintf("product:%s", id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		metrics.IncCacheRequest("product", "hit")
		var p model.Product
		if json.Unmarshal([]byte(val), &p) == nil {
			return &p, nil
		}
	}

	metrics.IncCacheRequest("product", "miss")
	p, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		bytes, _ := json.Marshal(p)
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return p, nil
}

func (d *productRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	const key = "products:all"
	if val, err := d.cache.Get(ctx, key); err == nil {
		metrics.IncCacheRequest("product_list", "hit")
		var ps []*model.Product
		if json.Unmarshal([]byte(val), &ps) == nil {
			return ps, nil
		}
	}

	metrics.IncCacheRequest("product_list", "miss")
	ps, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(ps) > 0 {
		bytes, _ := json.Marshal(ps)
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return ps, nil
}

func (d *productRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("product:%s", p.ID), "products:all")
	return d.inner.Save(ctx, tx, p)
}

func (d *productRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("product:%s", id), "products:all")
	return d.inner.Delete(ctx, tx, id)
}
