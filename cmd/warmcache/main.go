// warmcache walks the backend's hotel listing and pre-fetches every hotel
// detail into the redis cache, so the first guests after a deploy or a cache
// flush do not all miss at once.
package main

import (
	"context"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"menufront/internal/adapters/menuapi"
	"menufront/internal/adapters/observability"
	redisad "menufront/internal/adapters/redis"
	"menufront/internal/app"
	"menufront/internal/shared"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().
		Str("base", cfg.APIBase).
		Int("workers", cfg.Workers).
		Msg("cache warmer starting")

	api, err := menuapi.New(cfg.APIBase, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize menu API client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	browse := app.NewBrowseService(api, cache, cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	page := 1
	for {
		out, err := browse.ListHotels(ctx, page)
		if err != nil {
			log.Fatal().Err(err).Int("page", page).Msg("list hotels failed")
		}
		for _, h := range out.Items {
			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				log.Fatal().Err(err).Msg("semaphore acquire failed")
			}
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				defer sem.Release(1)

				if _, err := browse.GetHotel(ctx, id); err != nil {
					log.Warn().Int64("id", id).Err(err).Msg("warm failed")
					return
				}
				log.Info().Int64("id", id).Msg("warm ok")
			}(h.ID)
		}
		if page >= out.Page.LastPage {
			break
		}
		page++
	}

	wg.Wait()
	log.Info().Msg("cache warm completed")
}
