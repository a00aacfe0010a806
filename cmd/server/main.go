package main

import (
	"context"
	"log"
	"time"

	"github.com/Nxdus/casualty-api/config"
	"github.com/Nxdus/casualty-api/routes"
	"github.com/Nxdus/casualty-api/services"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection failed: %v", err)
	} else {
		log.Printf("Redis connected: %s", cfg.RedisAddr)
	}

	fetcher := services.NewHTTPFetcher(cfg.BaseURL, services.WithTimeout(cfg.FetchTimeout))
	casualtyService := services.NewRedisCasualtyService(rdb, fetcher, cfg.CacheTTL)

	go func() {
		if _, err := casualtyService.GetRaw(context.Background(), services.ResourceSummary); err != nil {
			log.Printf("Cache warm-up failed: %v", err)
		} else {
			log.Printf("Cache warm-up completed")
		}
	}()

	routes.RegisterRoutes(app, casualtyService, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	log.Fatal(app.Listen(cfg.ListenAddr))
}
