package main

import (
	"log"
	"log/slog"
	"os"

	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/rangda/adapters/events"
	"github.com/layer-3/rangda/adapters/limiter"
	"github.com/layer-3/rangda/adapters/repo"
	"github.com/layer-3/rangda/adapters/resolver"
	"github.com/layer-3/rangda/adapters/store"
	"github.com/layer-3/rangda/adapters/tokenizer"
	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
	"github.com/layer-3/rangda/service"
	"github.com/layer-3/rangda/transport/http"
)

func main() {
	cfg, err := core.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Generate a new ECDSA key pair (you would normally load this from somewhere secure)
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var (
		nonces   ports.NonceStore
		rates    ports.RateLimiter
		eventPub ports.EventPublisher
	)

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		nonces = store.NewRedisStore(redisClient, cfg.NonceTTL)
		rates = limiter.NewRedisLimiter(redisClient, cfg.RateLimit, cfg.RateLimitWindow)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
		eventPub = events.NewWatermillPublisher(publisher)
	} else {
		nonces = store.NewMemoryStore(cfg.NonceTTL)
		rates = limiter.NewMemoryLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	}

	var names ports.NameResolver
	if len(cfg.ResolverEndpoints) > 0 {
		names = resolver.NewHTTPResolver(cfg.ResolverEndpoints, cfg.ResolverTimeout, cfg.NameCacheTTL)
	}

	authService := service.NewAuthService(
		cfg,
		nonces,
		repo.NewMemoryRepo(),
		names,
		tokenizer.NewJWTIssuer(signKey, cfg.SessionTTL),
		eventPub,
		logger,
	)

	router := http.SetupRouter(authService, rates)

	if err := router.Run(":9000"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
