// Package app wires configuration into a ready CountryPostsService.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/country-posts/config"
	"github.com/d60-Lab/country-posts/internal/cache"
	"github.com/d60-Lab/country-posts/internal/pgxstore"
	"github.com/d60-Lab/country-posts/internal/repository"
	"github.com/d60-Lab/country-posts/internal/service"
	"github.com/d60-Lab/country-posts/pkg/database"
	"github.com/d60-Lab/country-posts/pkg/logger"
)

// App 已装配的依赖；Close 释放连接
type App struct {
	Store   repository.ReadStore
	Service service.CountryPostsService

	closers []func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	var (
		postsCache service.PostsCache
		opts       []service.Option
	)
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, cache reads will fall back to store", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		postsCache = cache.NewCountryPosts(client, cfg.Redis.TTL)

		if cfg.Redis.FillWorkers > 0 {
			filler := service.NewCacheFiller(postsCache, cfg.Redis.FillQueue)
			stop := filler.Start(cfg.Redis.FillWorkers)
			a.closers = append(a.closers, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = stop(ctx)
			})
			opts = append(opts, service.WithCacheFiller(filler))
		}
	}

	a.Service = service.NewCountryPostsService(store, postsCache, opts...)
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (repository.ReadStore, error) {
	if cfg.Database.Driver == "pgx" {
		pool, err := database.InitPgxPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		return pgxstore.NewStore(pool), nil
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	return repository.NewStore(db), nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
