package handlers

import (
	"net/http"
	"os"

	"tickerdeck/backend-go/internal/models"
)

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	missing := []string{}
	if a.cfg.ProviderAPIKey == "" {
		missing = append(missing, "provider_key")
	}

	resp := models.HealthResponse{
		Ok:          true,
		TsISO:       nowISO(),
		Service:     "backend-go",
		Version:     os.Getenv("SERVICE_VERSION"),
		DataMissing: missing,
		Env: map[string]bool{
			"ALPHAVANTAGE_API_KEY": a.cfg.ProviderAPIKey != "",
			"REDIS_URL":            os.Getenv("REDIS_URL") != "",
			"STATE_PATH":           os.Getenv("STATE_PATH") != "",
			"SYMBOLS_FILE":         a.cfg.SymbolsFile != "",
		},
		Features: map[string]bool{
			"live_provider":     a.cfg.ProviderAPIKey != "",
			"watchlist_refresh": a.cfg.RefreshEvery > 0,
		},
	}
	writeJSON(w, http.StatusOK, resp)
}
