package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Readers 同一只读事务内的读取器
type Readers struct {
	Countries CountryReader
	Posts     PostReader
}

// ReadStore 在一个只读事务内执行 fn
type ReadStore interface {
	ReadTx(ctx context.Context, fn func(Readers) error) error
	Ping(ctx context.Context) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) ReadStore { return &gormStore{db: db} }

func (s *gormStore) ReadTx(ctx context.Context, fn func(Readers) error) error {
	var opts []*sql.TxOptions
	// sqlite 驱动不支持只读事务选项
	if s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{ReadOnly: true})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Readers{
			Countries: NewCountryRepository(tx),
			Posts:     NewPostRepository(tx),
		})
	}, opts...)
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
