package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tickerdeck/backend-go/internal/config"
	"tickerdeck/backend-go/internal/models"
	"tickerdeck/backend-go/internal/services"
	"tickerdeck/backend-go/internal/state"
)

type API struct {
	cfg      config.Config
	cache    services.Cache
	provider *services.ProviderClient
	store    *state.Store

	// quoteFn backs the diagnostics route; swapped in tests.
	quoteFn func(ctx context.Context) models.Result[models.Quote]
}

func New(cfg config.Config, cache services.Cache, provider *services.ProviderClient, store *state.Store) *API {
	return &API{
		cfg:      cfg,
		cache:    cache,
		provider: provider,
		store:    store,
		quoteFn: func(ctx context.Context) models.Result[models.Quote] {
			return provider.GetStockQuote(ctx, "AAPL")
		},
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// accessorEnvelope mirrors the accessor's three outputs on the wire.
type accessorEnvelope[T any] struct {
	Data    *T      `json:"data"`
	Loading bool    `json:"loading"`
	Error   *string `json:"error"`
}

func snapshotEnvelope[T any](acc *services.Accessor[T]) accessorEnvelope[T] {
	data, loading, errMsg := acc.Snapshot()
	env := accessorEnvelope[T]{Data: data, Loading: loading}
	if errMsg != "" {
		env.Error = &errMsg
	}
	return env
}

func symbolParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing symbol parameter"})
		return "", false
	}
	return symbol, true
}

func parseIntParam(v string, def int, min int, max int) int {
	if v == "" {
		return def
	}
	var out int
	_, err := fmt.Sscanf(v, "%d", &out)
	if err != nil {
		return def
	}
	if out < min {
		return min
	}
	if out > max {
		return max
	}
	return out
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func timeboxed(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}
