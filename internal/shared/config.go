package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	APIBase   string // external hotel-menu backend
	APIRPS    int    // client-side rate limit on outbound calls
	RedisAddr string
	RedisDB   int
	RedisPass string

	PublicBase string // public address encoded into QR share links
	QRImage    string // third-party QR image service base
	GeoIPPath  string // MaxMind City mmdb; empty disables IP fallback

	CacheTTL   time.Duration
	SessionTTL time.Duration
	Workers    int // cache-warmer concurrency
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		APIBase:     env("MENU_API_BASE_URL", "http://localhost:8000/api"),
		APIRPS:      atoi("MENU_API_RPS", 10),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		PublicBase:  env("PUBLIC_BASE_URL", "http://localhost:8080"),
		QRImage:     env("QR_IMAGE_BASE_URL", "https://api.qrserver.com/v1/create-qr-code/"),
		GeoIPPath:   env("GEOIP_CITY_DB", ""),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SessionTTL:  time.Duration(atoi("SESSION_TTL_SECONDS", 86400)) * time.Second,
		Workers:     atoi("WARM_WORKERS", 8),
	}
	if c.GeoIPPath == "" {
		log.Warn().Msg("GEOIP_CITY_DB is empty; IP location fallback disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
