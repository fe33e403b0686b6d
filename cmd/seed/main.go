// Command seed gives a user the demo projects. Usage: seed [email]
package main

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/application/project"
	"github.com/amirhosseinghanipour/launchpad/internal/config"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/cache"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/persistence"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := persistence.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer stores.Close()

	// The server may hold a cached empty dashboard for this user; the seed must retire it.
	var viewCache ports.ViewCache = cache.Noop{}
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse redis url")
		}
		client := redis.NewClient(opt)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis unreachable; refusing to seed behind a stale dashboard cache")
		}
		viewCache = cache.NewRedisViewCache(client, cfg.Redis.ViewTTL)
	}

	email := ""
	if len(os.Args) > 1 {
		email = os.Args[1]
	}
	result, err := project.NewSeedDemoProjects(stores.Users, stores.Projects, viewCache).Execute(ctx, project.SeedDemoInput{Email: email})
	if err != nil {
		log.Error().Err(err).Msg("seed failed")
		stores.Close()
		os.Exit(1)
	}
	if result.Existing > 0 {
		log.Info().Str("email", result.User.Email).Int("existing", result.Existing).Msg("user already has projects; nothing inserted")
		return
	}
	log.Info().Str("email", result.User.Email).Int("inserted", result.Inserted).Msg("seeded demo projects")
}
