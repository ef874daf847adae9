// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"roam/internal/config"
	httptransport "roam/internal/http"
	"roam/internal/infra"
	"roam/internal/modules/convo"
	"roam/internal/modules/search"
	"roam/internal/modules/usage"
	"roam/internal/places"
	"roam/internal/tagger"
	"roam/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := infra.NewLogger()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	lookup, err := places.NewGoogleLookup(cfg.AI.MapsKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	geminiTagger, err := tagger.NewGeminiTagger(ctx, cfg.AI.GeminiKey)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}
	defer geminiTagger.Close()

	searchStore := search.NewStore(redisClient)
	searchSvc := search.NewService(lookup, searchStore, logger).
		WithDetailCap(cfg.Search.DetailCap)

	usageStore := usage.NewStore(dbPool)
	usageSvc := usage.NewService(usageStore)

	near := types.Point{Lat: cfg.Search.NearLat, Lng: cfg.Search.NearLng}
	convoSvc := convo.NewService(geminiTagger, searchSvc, near, logger)

	handler := httptransport.NewRouter(convoSvc, usageSvc, logger)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
