package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/country-posts/internal/model"
	"github.com/d60-Lab/country-posts/internal/seed"
)

func openDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(tb, err)
	sqlDB, err := db.DB()
	require.NoError(tb, err)
	// :memory: 每个连接是独立的库
	sqlDB.SetMaxOpenConns(1)
	return db
}

func setupDB(tb testing.TB, f seed.Fixture) *gorm.DB {
	tb.Helper()
	db := openDB(tb)
	require.NoError(tb, seed.Apply(context.Background(), db, f))
	return db
}

func postIDs(posts []*model.Post) []uint64 {
	ids := make([]uint64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
