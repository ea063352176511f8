package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/d60-Lab/country-posts/internal/model"
	"github.com/d60-Lab/country-posts/internal/repository"
	"github.com/d60-Lab/country-posts/pkg/logger"
)

const tracerName = "github.com/d60-Lab/country-posts/internal/service"

// PostsCache 国家文章列表的读穿缓存
type PostsCache interface {
	Get(ctx context.Context, countryID uint64) ([]*model.Post, bool, error)
	Set(ctx context.Context, countryID uint64, posts []*model.Post) error
}

// CountryPostsService 国家 -> 用户 -> 文章
type CountryPostsService interface {
	// ResolvePosts 返回该国家所有用户的文章，按文章主键升序；国家不存在返回 ErrCountryNotFound
	ResolvePosts(ctx context.Context, countryID uint64) ([]*model.Post, error)
}

type countryPostsService struct {
	store  repository.ReadStore
	cache  PostsCache
	filler *CacheFiller
}

type Option func(*countryPostsService)

// WithCacheFiller 缓存未命中后异步回填
func WithCacheFiller(f *CacheFiller) Option {
	return func(s *countryPostsService) { s.filler = f }
}

// NewCountryPostsService cache 可为 nil
func NewCountryPostsService(store repository.ReadStore, cache PostsCache, opts ...Option) CountryPostsService {
	s := &countryPostsService{store: store, cache: cache}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *countryPostsService) ResolvePosts(ctx context.Context, countryID uint64) ([]*model.Post, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "CountryPosts.ResolvePosts")
	defer span.End()
	span.SetAttributes(attribute.Int64("country.id", int64(countryID)))

	if posts, ok := s.fromCache(ctx, countryID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true), attribute.Int("posts.count", len(posts)))
		return posts, nil
	}

	posts, err := s.load(ctx, countryID)
	if err != nil {
		if !errors.Is(err, ErrCountryNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("posts.count", len(posts)))

	switch {
	case s.filler != nil:
		s.filler.Enqueue(countryID, posts)
	case s.cache != nil:
		if err := s.cache.Set(ctx, countryID, posts); err != nil {
			logger.Warn("country posts cache set failed", zap.Uint64("country_id", countryID), zap.Error(err))
		}
	}
	return posts, nil
}

func (s *countryPostsService) fromCache(ctx context.Context, countryID uint64) ([]*model.Post, bool) {
	if s.cache == nil {
		return nil, false
	}
	posts, ok, err := s.cache.Get(ctx, countryID)
	if err != nil {
		logger.Warn("country posts cache get failed, fallback to store", zap.Uint64("country_id", countryID), zap.Error(err))
		return nil, false
	}
	return posts, ok
}

// load 国家查询与 join 在同一只读事务内
func (s *countryPostsService) load(ctx context.Context, countryID uint64) ([]*model.Post, error) {
	var posts []*model.Post
	op := "begin"
	err := s.store.ReadTx(ctx, func(r repository.Readers) error {
		op = "find country"
		if _, err := r.Countries.FindByID(ctx, countryID); err != nil {
			return err
		}
		op = "list posts"
		var err error
		posts, err = r.Posts.ListByCountry(ctx, countryID)
		if err != nil {
			return err
		}
		op = "commit"
		return nil
	})
	switch {
	case errors.Is(err, ErrCountryNotFound):
		logger.Debug("country not found", zap.Uint64("country_id", countryID))
		return nil, ErrCountryNotFound
	case err != nil:
		logger.Error("resolve country posts failed", zap.Uint64("country_id", countryID), zap.String("op", op), zap.Error(err))
		return nil, &StorageError{Op: op, Err: err}
	}
	if posts == nil {
		posts = make([]*model.Post, 0)
	}
	return posts, nil
}
