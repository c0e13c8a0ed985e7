package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"tickerdeck/backend-go/internal/models"
)

func TestQuoteEndpointServesSyntheticData(t *testing.T) {
	api := testAPI(t)

	rec := doJSON(t, api.Quote, http.MethodGet, "/api/v1/quote?symbol=msft", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Data    *models.Quote `json:"data"`
		Loading bool          `json:"loading"`
		Error   *string       `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Data == nil || out.Data.Symbol != "MSFT" {
		t.Fatalf("expected an MSFT quote, got %+v", out.Data)
	}
	if out.Loading || out.Error != nil {
		t.Fatalf("expected a settled envelope, got %+v", out)
	}
}

func TestQuoteEndpointRequiresSymbol(t *testing.T) {
	api := testAPI(t)
	if rec := doJSON(t, api.Quote, http.MethodGet, "/api/v1/quote", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing symbol must 400, got %d", rec.Code)
	}
}

func TestSearchEndpointRecordsHistory(t *testing.T) {
	api := testAPI(t)

	rec := doJSON(t, api.Search, http.MethodGet, "/api/v1/search?q=apple", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Data  []models.SearchResult `json:"data"`
		Error *string               `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data) == 0 || out.Data[0].Symbol != "AAPL" {
		t.Fatalf("expected AAPL as the top match, got %+v", out.Data)
	}

	recent := api.store.Snapshot().RecentSearches
	if len(recent) != 1 || recent[0] != "APPLE" {
		t.Fatalf("search must record the query, got %v", recent)
	}

	if rec := doJSON(t, api.Search, http.MethodGet, "/api/v1/search", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing query must 400, got %d", rec.Code)
	}
}

func TestChartEndpointHonorsRangeAndFallsBackToPreference(t *testing.T) {
	api := testAPI(t)

	rec := doJSON(t, api.Chart, http.MethodGet, "/api/v1/chart?symbol=AAPL&range=5d", "")
	var out struct {
		Data []models.ChartPoint `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data) != models.Range5D.Days()+1 {
		t.Fatalf("expected %d points for 5D, got %d", models.Range5D.Days()+1, len(out.Data))
	}

	api.store.SetTimeRange(models.Range1M)
	rec = doJSON(t, api.Chart, http.MethodGet, "/api/v1/chart?symbol=AAPL&range=bogus", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data) != models.Range1M.Days()+1 {
		t.Fatalf("invalid range must use the stored preference, got %d points", len(out.Data))
	}
}

func TestStockEndpointCombinesKinds(t *testing.T) {
	api := testAPI(t)

	rec := doJSON(t, api.Stock, http.MethodGet, "/api/v1/stock?symbol=AAPL", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Quote    *models.Quote           `json:"quote"`
		Overview *models.CompanyOverview `json:"overview"`
		News     []models.NewsItem       `json:"news"`
		Loading  bool                    `json:"loading"`
		Error    *string                 `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Quote == nil || out.Quote.Symbol != "AAPL" {
		t.Fatalf("combined payload missing quote: %+v", out.Quote)
	}
	if out.Overview == nil || out.Overview.Name != "Apple Inc." {
		t.Fatalf("combined payload missing overview: %+v", out.Overview)
	}
	if len(out.News) == 0 {
		t.Fatal("combined payload missing news")
	}
	if out.Loading || out.Error != nil {
		t.Fatalf("expected a settled combined envelope: loading=%v err=%v", out.Loading, out.Error)
	}
}

func TestIndicesEndpoint(t *testing.T) {
	api := testAPI(t)

	rec := doJSON(t, api.Indices, http.MethodGet, "/api/v1/indices", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Data []models.MarketIndex `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data) != 4 {
		t.Fatalf("expected 4 indices, got %d", len(out.Data))
	}
}
