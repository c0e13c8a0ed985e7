package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"tickerdeck/backend-go/internal/models"
)

// Watchlist serves the watchlist collection: GET lists it, POST adds an
// entry, DELETE removes one by symbol.
func (a *API) Watchlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"watchlist": a.store.Snapshot().Watchlist})
	case http.MethodPost:
		var item models.WatchlistItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil || strings.TrimSpace(item.Symbol) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "body must carry a symbol"})
			return
		}
		added := a.store.AddToWatchlist(item)
		writeJSON(w, http.StatusOK, map[string]any{"added": added, "watchlist": a.store.Snapshot().Watchlist})
	case http.MethodDelete:
		symbol, ok := symbolParam(w, r)
		if !ok {
			return
		}
		removed := a.store.RemoveFromWatchlist(symbol)
		writeJSON(w, http.StatusOK, map[string]any{"removed": removed, "watchlist": a.store.Snapshot().Watchlist})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *API) WatchlistClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	a.store.ClearWatchlist()
	writeJSON(w, http.StatusOK, map[string]any{"watchlist": []models.WatchlistItem{}})
}

// RecentSearches serves the search history: GET lists it, POST records a
// symbol, DELETE clears it.
func (a *API) RecentSearches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"recentSearches": a.store.Snapshot().RecentSearches})
	case http.MethodPost:
		var body struct {
			Symbol string `json:"symbol"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Symbol) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "body must carry a symbol"})
			return
		}
		a.store.AddRecentSearch(body.Symbol)
		writeJSON(w, http.StatusOK, map[string]any{"recentSearches": a.store.Snapshot().RecentSearches})
	case http.MethodDelete:
		a.store.ClearRecentSearches()
		writeJSON(w, http.StatusOK, map[string]any{"recentSearches": []string{}})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Preferences exposes the chart preferences and theme flag.
func (a *API) Preferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.writePreferences(w)
	case http.MethodPut:
		var body struct {
			TimeRange *string `json:"timeRange"`
			ChartType *string `json:"chartType"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
			return
		}
		if body.TimeRange != nil {
			if r, ok := models.ParseTimeRange(strings.ToUpper(*body.TimeRange)); ok {
				a.store.SetTimeRange(r)
			} else {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid timeRange"})
				return
			}
		}
		if body.ChartType != nil {
			t := models.ChartType(strings.ToLower(*body.ChartType))
			if !t.Valid() {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid chartType"})
				return
			}
			a.store.SetChartType(t)
		}
		a.writePreferences(w)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *API) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	a.store.ToggleDarkMode()
	a.writePreferences(w)
}

func (a *API) writePreferences(w http.ResponseWriter) {
	st := a.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"selectedTimeRange": st.SelectedTimeRange,
		"selectedChartType": st.SelectedChartType,
		"isDarkMode":        st.IsDarkMode,
	})
}
