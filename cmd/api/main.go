/**
 * @description
 * This is the main entry point for the returns-service API. It loads configuration,
 * connects to PostgreSQL, RabbitMQ and Redis, seeds the bootstrap admin, wires the
 * application service into the HTTP router and serves until SIGINT/SIGTERM.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/redis/go-redis/v9: Rate limiter backend.
 * - github.com/cenkalti/backoff/v5: Boot-time retry for the message broker.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages for the service.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/transfa/returns-service/internal/api"
	"github.com/transfa/returns-service/internal/app"
	"github.com/transfa/returns-service/internal/config"
	"github.com/transfa/returns-service/internal/metrics"
	"github.com/transfa/returns-service/internal/store"
	"github.com/transfa/returns-service/pkg/rabbitmq"
)

func main() {
	// A local .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("level=warn component=bootstrap msg=\".env load failed\" err=%v", err)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"jwt secret must be configured\" env=JWT_SECRET")
	}

	log.Printf("level=info component=bootstrap msg=\"starting returns-service\" port=%s", cfg.ServerPort)

	ctx := context.Background()

	var repository store.Repository
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"database url missing; using in-memory store\" env=DATABASE_URL")
		repository = store.NewMemoryRepository()
	} else {
		dbpool, err := store.OpenPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
		}
		defer dbpool.Close()
		log.Println("level=info component=bootstrap msg=\"database connected\"")

		if err := store.EnsureSchema(ctx, dbpool); err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"schema migration failed\" err=%v", err)
		}
		repository = store.NewPostgresRepository(dbpool)
	}

	var producer rabbitmq.Publisher
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"rabbitmq url missing; events disabled\" env=RABBITMQ_URL")
	} else {
		eventProducer, err := connectProducer(ctx, cfg.RabbitMQURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
		} else {
			defer eventProducer.Close()
			producer = eventProducer
			log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
		}
	}

	var limiter app.RateLimiter
	if strings.TrimSpace(cfg.RedisURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; rate limiting disabled\" env=REDIS_URL")
	} else {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; rate limiting disabled\" err=%v", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
			pingErr := redisClient.Ping(pingCtx).Err()
			cancelPing()
			if pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; rate limiting disabled\" err=%v", pingErr)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				limiter = app.NewRedisRateLimiter(redisClient, cfg.RedisRateLimitPrefix)
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
		}
	}

	tokens, err := app.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"token manager init failed\" err=%v", err)
	}

	serviceMetrics := metrics.New()
	returnsService := app.NewService(repository, producer, limiter, tokens, app.Options{
		EventExchange:            cfg.ReturnsEventExchange,
		SubmitRateLimitPerMinute: cfg.ReturnSubmitRateLimitPerMinute,
		TopUpRateLimitPerMinute:  cfg.WalletTopUpRateLimitPerMinute,
		Metrics:                  serviceMetrics,
	})

	if strings.TrimSpace(cfg.DefaultAdminPassword) == "" {
		log.Println("level=warn component=bootstrap msg=\"default admin password missing; admin seeding skipped\" env=DEFAULT_ADMIN_PASSWORD")
	} else if err := returnsService.EnsureAdmin(ctx, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"default admin seeding failed\" err=%v", err)
	}

	handlers := api.NewHandlers(returnsService)
	router := api.Routes(handlers, tokens, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins(),
		MetricsHandler: serviceMetrics.Handler(),
	})

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}

// connectProducer dials RabbitMQ, retrying a few times while the broker starts.
func connectProducer(ctx context.Context, url string) (*rabbitmq.EventProducer, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second

	return backoff.Retry(ctx, func() (*rabbitmq.EventProducer, error) {
		producer, err := rabbitmq.NewEventProducer(url)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq dial failed; retrying\" err=%v", err)
			return nil, err
		}
		return producer, nil
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(3),
	)
}
