package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"tickerdeck/backend-go/internal/config"
	internalhttp "tickerdeck/backend-go/internal/http"
	"tickerdeck/backend-go/internal/refresh"
	"tickerdeck/backend-go/internal/services"
	"tickerdeck/backend-go/internal/state"
	"tickerdeck/backend-go/internal/symbols"
)

func main() {
	_ = godotenv.Load(
		".env",
		".env.local",
		"../.env",
		"../.env.local",
	)
	cfg := config.Load()

	universe := symbols.Default()
	if cfg.SymbolsFile != "" {
		u, err := symbols.LoadFile(cfg.SymbolsFile)
		if err != nil {
			log.Printf("symbols: %v, using built-in universe", err)
		} else {
			universe = u
		}
	}

	cache := services.NewCache(cfg)
	synth := services.NewSynthesizer(universe, cfg.SynthSeed)
	transport := services.NewRetryTransport(cfg)
	provider := services.NewProviderClient(cfg, transport, synth)

	store, err := state.Open(cfg.StatePath, cfg.MaxRecent)
	if err != nil {
		log.Fatalf("state store: %v", err)
	}
	defer store.Close()

	refresher := refresh.New(store, provider, cfg.RefreshEvery, cfg.RequestTimeout)
	refresher.Start()
	defer refresher.Stop()

	h := internalhttp.NewRouter(cfg, cache, provider, store)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.ProviderAPIKey == "" {
		log.Printf("no provider key configured, serving synthetic data only")
	}
	log.Printf("tickerdeck backend listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
