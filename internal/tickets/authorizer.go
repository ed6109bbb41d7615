package tickets

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"traveltix/pkg/cache"
	"traveltix/pkg/logger"
)

// Authorizer answers who may act on a ticket. identity is the caller email.
type Authorizer interface {
	IsAdmin(ctx context.Context, identity string) (bool, error)
	IsOwnerOf(ctx context.Context, identity string, activityID uint) (bool, error)
}

// CachedAuthorizer memoizes role and ownership lookups in Redis. A cache
// outage degrades to the wrapped authorizer instead of failing the scan.
type CachedAuthorizer struct {
	next  Authorizer
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedAuthorizer(next Authorizer, c cache.Service, ttl time.Duration, log *logger.Logger) *CachedAuthorizer {
	return &CachedAuthorizer{next: next, cache: c, ttl: ttl, log: log}
}

func (a *CachedAuthorizer) IsAdmin(ctx context.Context, identity string) (bool, error) {
	identity = normalizeIdentity(identity)
	return a.lookup(ctx, cache.Key("authz", "admin", identity), func() (bool, error) {
		return a.next.IsAdmin(ctx, identity)
	})
}

func (a *CachedAuthorizer) IsOwnerOf(ctx context.Context, identity string, activityID uint) (bool, error) {
	identity = normalizeIdentity(identity)
	key := cache.Key("authz", "owner", strconv.FormatUint(uint64(activityID), 10), identity)
	return a.lookup(ctx, key, func() (bool, error) {
		return a.next.IsOwnerOf(ctx, identity, activityID)
	})
}

func (a *CachedAuthorizer) lookup(ctx context.Context, key string, fetch func() (bool, error)) (bool, error) {
	var allowed bool
	err := a.cache.Get(ctx, key, &allowed)
	if err == nil {
		return allowed, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		a.log.WarnContext(ctx, "Authorization cache read failed", "key", key, "error", err)
	}

	allowed, err = fetch()
	if err != nil {
		return false, err
	}

	if err := a.cache.Set(ctx, key, allowed, a.ttl); err != nil {
		a.log.WarnContext(ctx, "Authorization cache write failed", "key", key, "error", err)
	}
	return allowed, nil
}

func normalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}
