package http

import (
	"net/http"

	"tickerdeck/backend-go/internal/config"
	"tickerdeck/backend-go/internal/handlers"
	"tickerdeck/backend-go/internal/services"
	"tickerdeck/backend-go/internal/state"
)

func NewRouter(cfg config.Config, cache services.Cache, provider *services.ProviderClient, store *state.Store) http.Handler {
	api := handlers.New(cfg, cache, provider, store)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", api.Health)
	mux.HandleFunc("/api/v1/search", api.Search)
	mux.HandleFunc("/api/v1/quote", api.Quote)
	mux.HandleFunc("/api/v1/overview", api.Overview)
	mux.HandleFunc("/api/v1/chart", api.Chart)
	mux.HandleFunc("/api/v1/stock", api.Stock)
	mux.HandleFunc("/api/v1/news", api.News)
	mux.HandleFunc("/api/v1/indices", api.Indices)
	mux.HandleFunc("/api/v1/movers", api.Movers)
	mux.HandleFunc("/api/v1/watchlist", api.Watchlist)
	mux.HandleFunc("/api/v1/watchlist/clear", api.WatchlistClear)
	mux.HandleFunc("/api/v1/searches/recent", api.RecentSearches)
	mux.HandleFunc("/api/v1/preferences", api.Preferences)
	mux.HandleFunc("/api/v1/preferences/darkmode/toggle", api.ToggleDarkMode)
	mux.HandleFunc("/api/v1/diagnostics/quote", api.QuoteDiagnostics)

	h := http.Handler(mux)
	h = withRecovery(h)
	h = withLogging(h)
	h = withRequestID(h)
	h = withRateLimit(cfg.RateLimitPerMin)(h)
	h = withCORS(h)
	return h
}
