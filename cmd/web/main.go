package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"menufront/internal/adapters/geoip"
	"menufront/internal/adapters/menuapi"
	"menufront/internal/adapters/observability"
	"menufront/internal/adapters/qr"
	redisad "menufront/internal/adapters/redis"
	"menufront/internal/adapters/session"
	"menufront/internal/adapters/web"
	"menufront/internal/app"
	"menufront/internal/shared"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	api, err := menuapi.New(cfg.APIBase, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize menu API client")
	}
	locator, err := geoip.Open(cfg.GeoIPPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open GeoIP database")
	}
	defer locator.Close()

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := session.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SessionTTL)

	browse := app.NewBrowseService(api, cache, cfg.CacheTTL)
	// nearby results age out fast: coordinates and radius change often
	nearbyTTL := cfg.CacheTTL
	if nearbyTTL > time.Minute {
		nearbyTTL = time.Minute
	}
	nearby := app.NewNearbyService(api, cache, nearbyTTL)
	admin := app.NewAdminService(api, browse)
	sess := app.NewSessionService(api, sessions)

	srv := web.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&web.Handlers{
		Browse: browse,
		Nearby: nearby,
		Admin:  admin,
		Sess:   sess,
		Loc:    locator,
		QR:     qr.New(cfg.PublicBase, cfg.QRImage),
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("web front end listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("shut down cleanly")
}
