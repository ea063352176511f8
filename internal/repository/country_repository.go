package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/country-posts/internal/model"
)

// CountryReader 按主键读取国家
type CountryReader interface {
	FindByID(ctx context.Context, id uint64) (*model.Country, error)
}

type CountryRepository interface {
	CountryReader
}

type countryRepository struct {
	db *gorm.DB
}

func NewCountryRepository(db *gorm.DB) CountryRepository { return &countryRepository{db: db} }

func (r *countryRepository) FindByID(ctx context.Context, id uint64) (*model.Country, error) {
	var c model.Country
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCountryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
