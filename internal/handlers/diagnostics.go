package handlers

import (
	"net/http"

	"tickerdeck/backend-go/internal/models"
	"tickerdeck/backend-go/internal/services"
)

// QuoteDiagnostics probes the quote path with a fixed symbol. A handled
// provider failure still answers 200; only a panic out of the call itself
// becomes a 500, with "Unknown error" standing in for non-error panic
// values.
func (a *API) QuoteDiagnostics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			msg := "Unknown error"
			if e, ok := rec.(error); ok {
				msg = e.Error()
			}
			writeJSON(w, http.StatusInternalServerError, models.QuoteDiagnostics{
				Success:   false,
				Error:     &msg,
				Timestamp: nowISO(),
				Provider:  services.ProviderName,
			})
		}
	}()

	res := a.quoteFn(ctx)
	out := models.QuoteDiagnostics{
		Success:   res.Success,
		Error:     res.Error,
		Timestamp: nowISO(),
		Provider:  services.ProviderName,
	}
	if res.Success {
		q := res.Data
		out.Data = &q
	}
	writeJSON(w, http.StatusOK, out)
}
