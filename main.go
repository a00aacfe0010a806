package main

import (
	"context"
	"log"
	"os"

	"github.com/Nxdus/casualty-api/config"
	"github.com/Nxdus/casualty-api/report"
	"github.com/Nxdus/casualty-api/services"
)

func main() {
	cfg := config.Load()

	fetcher := services.NewHTTPFetcher(cfg.BaseURL, services.WithTimeout(cfg.FetchTimeout))

	if err := report.PrintTotalKilled(context.Background(), fetcher, os.Stdout); err != nil {
		log.Printf("total killed report failed: %v", err)
	}
}
