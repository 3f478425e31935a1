package main

import (
	"fmt"

	"github.com/go-redis/redis"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"aiops-data-collector/internal/api"
	"aiops-data-collector/internal/api/handler"
	"aiops-data-collector/internal/cache"
	"aiops-data-collector/internal/collector"
	"aiops-data-collector/internal/config"
	"aiops-data-collector/pkg/router"
)

func main() {
	// Optional .env for local runs; the environment wins in deployments
	_ = godotenv.Load()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}

	db := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})
	processed := cache.NewProcessedCache(db, cfg.ProcessWindow)

	transport := collector.NewTransport(cfg.MaxRetries, cfg.SSLVerify)
	runner := collector.NewRunner(cfg, transport, processed)
	dispatcher := collector.NewDispatcher(runner.Run, cfg.WorkerPoolSize, cfg.WorkerQueueSize)
	defer dispatcher.Stop()

	r := router.New()
	api.RegisterRoutes(r, handler.New(cfg, processed, dispatcher, transport), api.RoutePrefix(cfg))

	if err := r.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
