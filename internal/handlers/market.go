package handlers

import (
	"net/http"
	"strings"

	"tickerdeck/backend-go/internal/models"
	"tickerdeck/backend-go/internal/services"
)

func (a *API) Quote(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	acc := services.NewQuoteAccessor(a.cache, a.cfg.CacheTTL, a.provider)
	acc.Load(ctx, symbol)
	writeJSON(w, http.StatusOK, snapshotEnvelope(acc))
}

func (a *API) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing query parameter 'q'"})
		return
	}
	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	acc := services.NewSearchAccessor(a.cache, a.cfg.CacheTTL, a.provider)
	acc.Load(ctx, query)
	a.store.AddRecentSearch(query)
	writeJSON(w, http.StatusOK, snapshotEnvelope(acc))
}

func (a *API) Overview(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	acc := services.NewOverviewAccessor(a.cache, a.cfg.CacheTTL, a.provider)
	acc.Load(ctx, symbol)
	writeJSON(w, http.StatusOK, snapshotEnvelope(acc))
}

func (a *API) Chart(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}
	rng, ok := models.ParseTimeRange(strings.ToUpper(r.URL.Query().Get("range")))
	if !ok {
		rng = a.store.Snapshot().SelectedTimeRange
	}
	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	acc := services.NewChartAccessor(a.cache, a.cfg.CacheTTL, a.provider)
	acc.Load(ctx, services.ChartKey(symbol, rng))
	writeJSON(w, http.StatusOK, snapshotEnvelope(acc))
}

// Stock serves the combined quote+overview+news payload the detail page
// renders from.
func (a *API) Stock(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	acc := services.NewCombinedAccessor(a.cache, a.cfg.CacheTTL, a.provider)
	acc.Load(ctx, symbol)
	writeJSON(w, http.StatusOK, acc.Snapshot())
}
