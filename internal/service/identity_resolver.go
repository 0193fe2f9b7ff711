package service

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"go-notes-api/internal/metrics"
	"go-notes-api/internal/model"
)

const sharedLookupTimeout = 5 * time.Second

// IdentityFinder resolves a token subject to the stored identity.
type IdentityFinder interface {
	FindByUsername(ctx context.Context, username string) (model.Identity, error)
}

// IdentityResolver fronts an IdentityFinder with a short-lived cache.
// Concurrent misses for the same username share one store round trip.
type IdentityResolver struct {
	finder  IdentityFinder
	cache   *lru.LRU[string, model.Identity]
	group   singleflight.Group
	metrics *metrics.Metrics
}

// NewIdentityResolver disables caching when size is zero.
func NewIdentityResolver(finder IdentityFinder, size int, ttl time.Duration, m *metrics.Metrics) *IdentityResolver {
	r := &IdentityResolver{finder: finder, metrics: m}
	if size > 0 {
		r.cache = lru.NewLRU[string, model.Identity](size, nil, ttl)
	}
	return r
}

func (r *IdentityResolver) FindByUsername(ctx context.Context, username string) (model.Identity, error) {
	username = model.NormalizeUsername(username)

	if r.cache != nil {
		if identity, ok := r.cache.Get(username); ok {
			r.metrics.IdentityLookup(metrics.ResultCacheHit)
			return identity, nil
		}
	}
	r.metrics.IdentityLookup(metrics.ResultCacheMiss)

	// The shared lookup outlives any single caller; each caller still
	// gives up when its own ctx is done.
	ch := r.group.DoChan(username, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()

		identity, err := r.finder.FindByUsername(lookupCtx, username)
		if err != nil {
			return model.Identity{}, err
		}
		if r.cache != nil {
			r.cache.Add(username, identity)
		}
		return identity, nil
	})

	select {
	case <-ctx.Done():
		return model.Identity{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.Identity{}, res.Err
		}
		return res.Val.(model.Identity), nil
	}
}

func (r *IdentityResolver) Invalidate(username string) {
	if r.cache == nil {
		return
	}
	r.cache.Remove(model.NormalizeUsername(username))
}
