package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"crypto-forecast-backend/internal/asset"
	"crypto-forecast-backend/internal/cache"
	"crypto-forecast-backend/internal/forecast"
	"crypto-forecast-backend/internal/model"
)

// ForecastService 校验请求并组装预测，成功的响应写入缓存
type ForecastService struct {
	bounds    forecast.Bounds
	assembler *forecast.Assembler
	cache     cache.Provider
	ttl       time.Duration
}

// NewForecastService provider 可以为 nil，表示不缓存响应
func NewForecastService(bounds forecast.Bounds, assembler *forecast.Assembler, provider cache.Provider, ttl time.Duration) *ForecastService {
	return &ForecastService{
		bounds:    bounds,
		assembler: assembler,
		cache:     provider,
		ttl:       ttl,
	}
}

// GetForecast 校验失败不会触达数据源
func (s *ForecastService) GetForecast(ctx context.Context, assetID, startDate, endDate string) (*model.ForecastResponse, error) {
	req, err := forecast.Validate(s.bounds, assetID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	key := cacheKey(req)
	if s.cache != nil {
		var cached model.ForecastResponse
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("[WARN][Forecast] 读取缓存 %s 失败: %v", key, err)
		}
	}

	resp, err := s.assembler.Assemble(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.ttl); err != nil {
			log.Printf("[WARN][Forecast] 写入缓存 %s 失败: %v", key, err)
		}
	}
	return resp, nil
}

// ListAssets 支持的资产列表
func (s *ForecastService) ListAssets() []model.AssetInfo {
	all := asset.All()
	out := make([]model.AssetInfo, 0, len(all))
	for _, a := range all {
		out = append(out, model.AssetInfo{
			ID:     a.Slug,
			Name:   a.Name,
			Symbol: a.Symbol,
			Hybrid: a.Hybrid(),
		})
	}
	return out
}

func cacheKey(req forecast.Request) string {
	return fmt.Sprintf("forecast:%s:%s:%s", req.Asset.Slug, req.StartDate(), req.EndDate())
}
