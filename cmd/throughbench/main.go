package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/d60-Lab/country-posts/config"
	"github.com/d60-Lab/country-posts/internal/relation"
	"github.com/d60-Lab/country-posts/internal/repository"
	"github.com/d60-Lab/country-posts/internal/seed"
	"github.com/d60-Lab/country-posts/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	if cfg.Database.Driver == "pgx" {
		cfg.Database.Driver = "postgres"
	}
	db := must(database.InitDB(cfg))
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	// 国家数 / 每国用户数 / 每用户文章数 / 每种方式查询次数
	COUNTRIES := envInt("COUNTRIES", 4)
	USERS := envInt("USERS", 500)
	POSTS := envInt("POSTS", 5)
	ROUNDS := envInt("ROUNDS", 200)

	f := seed.Synthetic(COUNTRIES, USERS, POSTS)
	if err := seed.Apply(ctx, db, f); err != nil {
		panic(err)
	}

	measure := func(fn func(context.Context, uint64) error) []time.Duration {
		out := make([]time.Duration, 0, ROUNDS)
		for i := 0; i < ROUNDS; i++ {
			st := time.Now()
			if err := fn(ctx, uint64(i%COUNTRIES)+1); err != nil {
				panic(err)
			}
			out = append(out, time.Since(st))
		}
		return out
	}

	join := measure(func(ctx context.Context, id uint64) error {
		_, err := repo.ListByCountry(ctx, id)
		return err
	})
	perUser := measure(func(ctx context.Context, id uint64) error {
		_, err := repo.ListByCountryPerUser(ctx, id)
		return err
	})

	fmt.Printf("COUNTRIES=%d USERS=%d POSTS=%d ROUNDS=%d driver=%s\n", COUNTRIES, USERS, POSTS, ROUNDS, cfg.Database.Driver)
	fmt.Printf("relation: %s\n", relation.CountryPosts)
	fmt.Printf("sql: %s\n", relation.CountryPosts.SQL("?"))
	fmt.Printf("Join      (1 query):   p50=%v p95=%v p99=%v\n", pct(join, 0.50), pct(join, 0.95), pct(join, 0.99))
	fmt.Printf("Per-user  (%d queries): p50=%v p95=%v p99=%v\n", USERS+1, pct(perUser, 0.50), pct(perUser, 0.95), pct(perUser, 0.99))
}
