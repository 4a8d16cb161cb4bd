package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/gin-gonic/gin"

	"crypto-forecast-backend/internal/cache"
	"crypto-forecast-backend/internal/config"
	"crypto-forecast-backend/internal/forecast"
	"crypto-forecast-backend/internal/handler"
	"crypto-forecast-backend/internal/service"
	"crypto-forecast-backend/internal/source"
)

// App 组装完成的服务
type App struct {
	Router  *gin.Engine
	closers []io.Closer
}

// New 按配置组装数据源、缓存、服务和路由
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	bounds, window, err := forecast.FromConfig(cfg.Bounds)
	if err != nil {
		return nil, err
	}

	var loader source.Loader
	if cfg.Data.Bundle != "" {
		bundle, err := source.OpenSQLiteLoader(cfg.Data.Bundle)
		if err != nil {
			return nil, fmt.Errorf("open forecast bundle: %w", err)
		}
		a.closers = append(a.closers, bundle)
		loader = bundle
		log.Printf("[INFO][App] 使用数据包 %s", bundle.Path())
	} else {
		loader = source.NewFileLoader(cfg.Data.Dir, cfg.Data.Files)
		log.Printf("[INFO][App] 使用静态文件目录 %s", cfg.Data.Dir)
	}

	deps := map[string]handler.Pinger{}
	var provider cache.Provider
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("[WARN][App] Redis不可用，改用进程内缓存: %v", err)
			provider = cache.NewMemory(cfg.Redis.MaxEntries)
		} else {
			a.closers = append(a.closers, rdb)
			deps["redis"] = rdb
			provider = rdb
		}
	} else {
		provider = cache.NewMemory(cfg.Redis.MaxEntries)
	}

	assembler := forecast.NewAssembler(source.NewCachedLoader(loader), window)
	svc := service.NewForecastService(bounds, assembler, provider, cfg.Redis.TTL)

	a.Router = handler.NewRouter(cfg.Server.AllowOrigins, handler.NewForecastHandler(svc), handler.NewHealthHandler(deps))
	return a, nil
}

// Close 释放数据包和 Redis 连接
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
