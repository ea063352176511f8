package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/d60-Lab/country-posts/internal/model"
	"github.com/d60-Lab/country-posts/internal/relation"
)

// PostReader 按国家读取文章（countries -> users -> posts）
type PostReader interface {
	ListByCountry(ctx context.Context, countryID uint64) ([]*model.Post, error)
}

type PostRepository interface {
	PostReader
	// ListByCountryPerUser 逐用户查询（N+1），仅用于与 join 对比的基准
	ListByCountryPerUser(ctx context.Context, countryID uint64) ([]*model.Post, error)
}

type postRepository struct {
	db  *gorm.DB
	rel relation.HasManyThrough
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, rel: relation.CountryPosts}
}

func (r *postRepository) ListByCountry(ctx context.Context, countryID uint64) ([]*model.Post, error) {
	res := make([]*model.Post, 0)
	err := r.db.WithContext(ctx).Scopes(r.rel.Scope(countryID)).Find(&res).Error
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *postRepository) ListByCountryPerUser(ctx context.Context, countryID uint64) ([]*model.Post, error) {
	var userIDs []uint64
	if err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("country_id = ?", countryID).
		Pluck("id", &userIDs).Error; err != nil {
		return nil, err
	}
	res := make([]*model.Post, 0)
	for _, uid := range userIDs {
		var posts []*model.Post
		if err := r.db.WithContext(ctx).Where("user_id = ?", uid).Find(&posts).Error; err != nil {
			return nil, err
		}
		res = append(res, posts...)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}
