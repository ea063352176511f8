// Command dumpposts resolves the posts of one country and prints them as
// indented JSON, for inspecting the has-many-through lookup by hand.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/d60-Lab/country-posts/config"
	"github.com/d60-Lab/country-posts/internal/app"
	"github.com/d60-Lab/country-posts/internal/service"
	"github.com/d60-Lab/country-posts/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	countryID := flag.Uint64("country", cfg.Lookup.CountryID, "country id to resolve")
	timeout := flag.Duration("timeout", 10*time.Second, "query timeout")
	flag.Parse()

	_ = logger.Init(cfg.Log.Level, "console")
	defer func() { _ = logger.Sync() }()

	os.Exit(run(cfg, *countryID, *timeout))
}

func run(cfg *config.Config, countryID uint64, timeout time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer a.Close()

	posts, err := a.Service.ResolvePosts(ctx, countryID)
	switch {
	case errors.Is(err, service.ErrCountryNotFound):
		fmt.Fprintf(os.Stderr, "country %d not found\n", countryID)
		return 2
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
