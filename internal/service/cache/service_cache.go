package cache

import (
	"context"
	"errors"
	"time"

	pkgcache "MarketPulse/pkg/cache"
)

// ServiceCache adapts a pkg/cache Service to the BytesCache port.
// Values are stored as strings so both the memory and Redis backends
// round-trip them unchanged.
type ServiceCache struct {
	svc pkgcache.Service
}

// NewServiceCache wraps a cache service.
func NewServiceCache(svc pkgcache.Service) *ServiceCache {
	return &ServiceCache{svc: svc}
}

func (c *ServiceCache) GetBytes(key string) ([]byte, bool, error) {
	var s string
	err := c.svc.Get(context.Background(), key, &s)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(s), true, nil
}

func (c *ServiceCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	return c.svc.Set(context.Background(), key, string(value), ttl)
}
