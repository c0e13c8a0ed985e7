package handlers

import (
	"net/http"

	"tickerdeck/backend-go/internal/services"
)

func (a *API) Indices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	acc := services.NewIndicesAccessor(a.cache, a.cfg.CacheTTL, a.provider)
	acc.Load(ctx, "")
	writeJSON(w, http.StatusOK, snapshotEnvelope(acc))
}

func (a *API) Movers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	acc := services.NewMoversAccessor(a.cache, a.cfg.CacheTTL, a.provider)
	acc.Load(ctx, "")
	writeJSON(w, http.StatusOK, snapshotEnvelope(acc))
}
