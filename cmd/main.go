package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"github.com/davidbz/hearth/internal/config"
	"github.com/davidbz/hearth/internal/domain"
	"github.com/davidbz/hearth/internal/http"
	"github.com/davidbz/hearth/internal/http/middleware"
	"github.com/davidbz/hearth/internal/observability"
	"github.com/davidbz/hearth/internal/provider/anthropic"
	"github.com/davidbz/hearth/internal/ratelimit"
)

const shutdownTimeout = 10 * time.Second

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server) {
		go func() {
			if serveErr := server.Start(); serveErr != nil {
				log.Fatalf("Server failed to start: %v", serveErr)
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if shutdownErr := server.Shutdown(ctx); shutdownErr != nil {
			log.Fatalf("Server shutdown failed: %v", shutdownErr)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// The credential is a startup precondition, not a runtime error path.
	if err := container.Invoke(func(cfg *anthropic.Config) {
		if cfg.APIKey == "" {
			log.Fatal("ANTHROPIC_API_KEY is required")
		}
	}); err != nil {
		log.Fatalf("Failed to check configuration: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func() observability.MetricsRecorder {
		return observability.NewLogMetrics()
	}); err != nil {
		log.Fatalf("Failed to provide metrics recorder: %v", err)
	}

	// Upstream client
	if err := container.Provide(func(cfg *anthropic.Config) domain.Upstream {
		return anthropic.NewClient(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide upstream client: %v", err)
	}

	// Rate limiter: shared Redis window when an address is configured,
	// in-process window otherwise.
	if err := container.Provide(func(rl *config.RateLimitConfig, rc *config.RedisConfig) domain.RateLimiter {
		window := time.Duration(rl.WindowMinutes) * time.Minute

		if rc.Addr == "" {
			return ratelimit.NewMemoryLimiter(rl.MaxRequests, window)
		}

		client := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		return ratelimit.NewRedisLimiter(client, rl.MaxRequests, window)
	}); err != nil {
		log.Fatalf("Failed to provide rate limiter: %v", err)
	}

	// Domain Services
	if err := container.Provide(domain.NewRelayService); err != nil {
		log.Fatalf("Failed to provide relay service: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
