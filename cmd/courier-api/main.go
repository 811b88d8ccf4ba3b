// README: Entry point; loads config, wires services, starts the HTTP server, hub, and sweeper.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier/internal/config"
	"courier/internal/geo"
	httptransport "courier/internal/http"
	"courier/internal/infra"
	"courier/internal/modules/assign"
	"courier/internal/modules/order"
	"courier/internal/modules/presence"
	"courier/internal/modules/pricing"
	"courier/internal/modules/verification"
	"courier/internal/modules/wallet"
	"courier/internal/realtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	if cfg.Maps.APIKey == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}
	distance, err := geo.NewMapsService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	registry := presence.NewRegistry(
		time.Duration(cfg.Presence.StaleAfterSeconds)*time.Second,
		time.Duration(cfg.Presence.SweepSeconds)*time.Second,
	)

	pricingSvc := pricing.NewService(pricing.NewStore(dbPool))
	walletStore := wallet.NewStore(dbPool)
	walletSvc := wallet.NewService(walletStore)
	verifyStore := verification.NewStore(dbPool)
	verifySvc := verification.NewService(verifyStore)
	searchSvc := assign.NewService(registry, distance, pricingSvc)

	hub := realtime.NewHub(registry)

	orderSvc := order.NewService(order.Deps{
		Store:    order.NewStore(dbPool),
		Cache:    order.NewCache(redisClient),
		Wallets:  walletStore,
		Pricing:  pricingSvc,
		Distance: distance,
		Search:   searchSvc,
		Drivers:  verifySvc,
		Notify:   hub,
	})

	handler := httptransport.NewRouter(httptransport.ServerDeps{
		Order:        orderSvc,
		Wallet:       walletSvc,
		Verification: verifySvc,
		VerifyStore:  verifyStore,
		Hub:          hub,
	})

	go hub.Run(ctx)
	go registry.RunSweeper(ctx)

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
