package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func doJSON(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestWatchlistLifecycle(t *testing.T) {
	api := testAPI(t)

	rec := doJSON(t, api.Watchlist, http.MethodPost, "/api/v1/watchlist", `{"symbol":"aapl","name":"Apple Inc."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d", rec.Code)
	}
	var out struct {
		Added     bool `json:"added"`
		Watchlist []struct {
			Symbol string `json:"symbol"`
		} `json:"watchlist"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Added || len(out.Watchlist) != 1 || out.Watchlist[0].Symbol != "AAPL" {
		t.Fatalf("unexpected add response %+v", out)
	}

	rec = doJSON(t, api.Watchlist, http.MethodPost, "/api/v1/watchlist", `{"symbol":"AAPL"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Added || len(out.Watchlist) != 1 {
		t.Fatalf("duplicate add must be a no-op, got %+v", out)
	}

	rec = doJSON(t, api.Watchlist, http.MethodDelete, "/api/v1/watchlist?symbol=AAPL", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, api.Watchlist, http.MethodGet, "/api/v1/watchlist", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Watchlist) != 0 {
		t.Fatalf("expected empty watchlist, got %+v", out.Watchlist)
	}
}

func TestWatchlistRejectsBadInput(t *testing.T) {
	api := testAPI(t)

	if rec := doJSON(t, api.Watchlist, http.MethodPost, "/api/v1/watchlist", `{"symbol":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty symbol must 400, got %d", rec.Code)
	}
	if rec := doJSON(t, api.Watchlist, http.MethodPost, "/api/v1/watchlist", `not json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("garbage body must 400, got %d", rec.Code)
	}
	if rec := doJSON(t, api.Watchlist, http.MethodDelete, "/api/v1/watchlist", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("delete without symbol must 400, got %d", rec.Code)
	}
	if rec := doJSON(t, api.Watchlist, http.MethodPatch, "/api/v1/watchlist", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unknown method must 405, got %d", rec.Code)
	}
}

func TestRecentSearchesEndpoint(t *testing.T) {
	api := testAPI(t)

	for _, sym := range []string{"AAPL", "GOOGL", "aapl"} {
		rec := doJSON(t, api.RecentSearches, http.MethodPost, "/api/v1/searches/recent", `{"symbol":"`+sym+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("post %s: expected 200, got %d", sym, rec.Code)
		}
	}

	rec := doJSON(t, api.RecentSearches, http.MethodGet, "/api/v1/searches/recent", "")
	var out struct {
		RecentSearches []string `json:"recentSearches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.RecentSearches) != 2 || out.RecentSearches[0] != "AAPL" || out.RecentSearches[1] != "GOOGL" {
		t.Fatalf("expected deduplicated move-to-front order, got %v", out.RecentSearches)
	}

	rec = doJSON(t, api.RecentSearches, http.MethodDelete, "/api/v1/searches/recent", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, api.RecentSearches, http.MethodGet, "/api/v1/searches/recent", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.RecentSearches) != 0 {
		t.Fatalf("expected empty history, got %v", out.RecentSearches)
	}
}

func TestPreferencesUpdateAndValidation(t *testing.T) {
	api := testAPI(t)

	rec := doJSON(t, api.Preferences, http.MethodPut, "/api/v1/preferences", `{"timeRange":"1y","chartType":"CANDLESTICK"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d", rec.Code)
	}
	var out struct {
		SelectedTimeRange string `json:"selectedTimeRange"`
		SelectedChartType string `json:"selectedChartType"`
		IsDarkMode        bool   `json:"isDarkMode"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.SelectedTimeRange != "1Y" || out.SelectedChartType != "candlestick" {
		t.Fatalf("preferences not normalized: %+v", out)
	}

	if rec := doJSON(t, api.Preferences, http.MethodPut, "/api/v1/preferences", `{"timeRange":"2W"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid timeRange must 400, got %d", rec.Code)
	}
	if rec := doJSON(t, api.Preferences, http.MethodPut, "/api/v1/preferences", `{"chartType":"scatter"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid chartType must 400, got %d", rec.Code)
	}

	rec = doJSON(t, api.Preferences, http.MethodGet, "/api/v1/preferences", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.SelectedTimeRange != "1Y" || out.SelectedChartType != "candlestick" {
		t.Fatalf("rejected updates must not change state: %+v", out)
	}
}

func TestToggleDarkModeEndpoint(t *testing.T) {
	api := testAPI(t)

	rec := doJSON(t, api.ToggleDarkMode, http.MethodPost, "/api/v1/preferences/darkmode/toggle", "")
	var out struct {
		IsDarkMode bool `json:"isDarkMode"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.IsDarkMode {
		t.Fatal("first toggle must report dark mode on")
	}

	rec = doJSON(t, api.ToggleDarkMode, http.MethodPost, "/api/v1/preferences/darkmode/toggle", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.IsDarkMode {
		t.Fatal("second toggle must report dark mode off")
	}

	if rec := doJSON(t, api.ToggleDarkMode, http.MethodGet, "/api/v1/preferences/darkmode/toggle", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET must 405, got %d", rec.Code)
	}
}
