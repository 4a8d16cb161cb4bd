package source

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"crypto-forecast-backend/internal/asset"
	"crypto-forecast-backend/internal/model"
)

// CachedLoader 进程级只读缓存：每个数据源成功加载一次后常驻内存，不过期。
// 加载失败不缓存，下次请求会重试。
type CachedLoader struct {
	next Loader

	mu      sync.RWMutex
	entries map[string][]model.ForecastPoint
	group   singleflight.Group
}

func NewCachedLoader(next Loader) *CachedLoader {
	return &CachedLoader{
		next:    next,
		entries: make(map[string][]model.ForecastPoint),
	}
}

func (c *CachedLoader) Load(ctx context.Context, src asset.Source) ([]model.ForecastPoint, error) {
	if points, ok := c.get(src.Key); ok {
		return points, nil
	}

	// 同一 key 的并发请求共享一次加载，不随首个调用方取消
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(src.Key, func() (any, error) {
		if points, ok := c.get(src.Key); ok {
			return points, nil
		}
		points, err := c.next.Load(shared, src)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[src.Key] = points
		c.mu.Unlock()
		return points, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.ForecastPoint), nil
}

// Len 已缓存的数据源数量
func (c *CachedLoader) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *CachedLoader) get(key string) ([]model.ForecastPoint, bool) {
	c.mu.RLock()
	points, ok := c.entries[key]
	c.mu.RUnlock()
	return points, ok
}
