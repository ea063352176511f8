package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/d60-Lab/country-posts/config"
	"github.com/d60-Lab/country-posts/internal/seed"
	"github.com/d60-Lab/country-posts/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func main() {
	countries := flag.Int("countries", 0, "synthetic countries (0 = demo fixture)")
	users := flag.Int("users", 10, "users per country")
	posts := flag.Int("posts", 5, "posts per user")
	flag.Parse()

	cfg := must(config.Load())
	if cfg.Database.Driver == "pgx" {
		// 建表走 gorm
		cfg.Database.Driver = "postgres"
	}
	db := must(database.InitDB(cfg))

	f := seed.Demo()
	if *countries > 0 {
		f = seed.Synthetic(*countries, *users, *posts)
	}
	if err := seed.Apply(context.Background(), db, f); err != nil {
		panic(err)
	}
	fmt.Printf("seeded countries=%d users=%d posts=%d\n", len(f.Countries), len(f.Users), len(f.Posts))
}
