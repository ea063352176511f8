// Package seed creates tables and fixture rows for local inspection,
// benchmarks and tests. It is not part of the service's read path.
package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/country-posts/internal/model"
)

// Fixture 一组待写入的数据
type Fixture struct {
	Countries []model.Country
	Users     []model.User
	Posts     []model.Post
}

// Migrate 建表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Country{}, &model.User{}, &model.Post{})
}

// Apply 建表并写入数据；主键冲突的行跳过，可重复执行。
func Apply(ctx context.Context, db *gorm.DB, f Fixture) error {
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	insert := func(v any) error {
		return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(v, 500).Error
	}
	if len(f.Countries) > 0 {
		if err := insert(&f.Countries); err != nil {
			return fmt.Errorf("seed countries: %w", err)
		}
	}
	if len(f.Users) > 0 {
		if err := insert(&f.Users); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	if len(f.Posts) > 0 {
		if err := insert(&f.Posts); err != nil {
			return fmt.Errorf("seed posts: %w", err)
		}
	}
	return nil
}

// Demo 三个国家：1 号有用户 10、12，2 号有用户 11，3 号没有用户。
func Demo() Fixture {
	return Fixture{
		Countries: []model.Country{
			{ID: 1, Name: "Japan"},
			{ID: 2, Name: "Brazil"},
			{ID: 3, Name: "Iceland"},
		},
		Users: []model.User{
			{ID: 10, CountryID: 1, Name: "aiko", Email: "aiko@example.com"},
			{ID: 11, CountryID: 2, Name: "bruno", Email: "bruno@example.com"},
			{ID: 12, CountryID: 1, Name: "kenji", Email: "kenji@example.com"},
		},
		Posts: []model.Post{
			{ID: 100, UserID: 10, Title: "hello from tokyo", Body: "first"},
			{ID: 101, UserID: 11, Title: "ola do rio", Body: "primeiro"},
			{ID: 102, UserID: 12, Title: "osaka notes", Body: "second"},
			{ID: 103, UserID: 10, Title: "kyoto trip", Body: "third"},
		},
	}
}

// Synthetic 生成 countries 个国家，每个国家 usersPer 个用户，每个用户 postsPer 篇文章。
func Synthetic(countries, usersPer, postsPer int) Fixture {
	var f Fixture
	var userID, postID uint64
	for c := 1; c <= countries; c++ {
		f.Countries = append(f.Countries, model.Country{ID: uint64(c), Name: fmt.Sprintf("country-%d", c)})
		for u := 0; u < usersPer; u++ {
			userID++
			f.Users = append(f.Users, model.User{
				ID:        userID,
				CountryID: uint64(c),
				Name:      fmt.Sprintf("user-%d", userID),
				Email:     fmt.Sprintf("user-%d@example.com", userID),
			})
			for p := 0; p < postsPer; p++ {
				postID++
				f.Posts = append(f.Posts, model.Post{ID: postID, UserID: userID, Title: fmt.Sprintf("post-%d", postID)})
			}
		}
	}
	return f
}
