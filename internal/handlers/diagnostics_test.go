package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tickerdeck/backend-go/internal/config"
	"tickerdeck/backend-go/internal/models"
	"tickerdeck/backend-go/internal/services"
	"tickerdeck/backend-go/internal/state"
	"tickerdeck/backend-go/internal/symbols"
)

func testAPI(t *testing.T) *API {
	t.Helper()
	cfg := config.Config{
		CacheTTL:       time.Minute,
		RequestTimeout: 2 * time.Second,
	}
	synth := services.NewSynthesizer(symbols.Default(), 7)
	provider := services.NewProviderClient(cfg, services.NewRetryTransport(cfg), synth)
	store, err := state.Open("", 0)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(cfg, services.NewMemoryCache(), provider, store)
}

func decodeDiagnostics(t *testing.T, rec *httptest.ResponseRecorder) models.QuoteDiagnostics {
	t.Helper()
	var out models.QuoteDiagnostics
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestQuoteDiagnosticsSyntheticPath(t *testing.T) {
	api := testAPI(t)

	rec := httptest.NewRecorder()
	api.QuoteDiagnostics(rec, httptest.NewRequest(http.MethodGet, "/api/v1/diagnostics/quote", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decodeDiagnostics(t, rec)
	if !out.Success || out.Data == nil || out.Data.Symbol != "AAPL" {
		t.Fatalf("expected a synthetic AAPL quote, got %+v", out)
	}
	if out.Provider != services.ProviderName {
		t.Fatalf("unexpected provider label %q", out.Provider)
	}
	if out.Timestamp == "" {
		t.Fatal("expected a timestamp")
	}
}

func TestQuoteDiagnosticsHandledFailureIs200(t *testing.T) {
	api := testAPI(t)
	api.quoteFn = func(ctx context.Context) models.Result[models.Quote] {
		return models.Fail[models.Quote]("provider exploded")
	}

	rec := httptest.NewRecorder()
	api.QuoteDiagnostics(rec, httptest.NewRequest(http.MethodGet, "/api/v1/diagnostics/quote", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("handled failure must still answer 200, got %d", rec.Code)
	}
	out := decodeDiagnostics(t, rec)
	if out.Success || out.Data != nil {
		t.Fatalf("expected a failed envelope, got %+v", out)
	}
	if out.Error == nil || *out.Error != "provider exploded" {
		t.Fatalf("expected the failure message, got %v", out.Error)
	}
}

func TestQuoteDiagnosticsPanicWithError(t *testing.T) {
	api := testAPI(t)
	api.quoteFn = func(ctx context.Context) models.Result[models.Quote] {
		panic(errors.New("connection reset"))
	}

	rec := httptest.NewRecorder()
	api.QuoteDiagnostics(rec, httptest.NewRequest(http.MethodGet, "/api/v1/diagnostics/quote", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("panic must answer 500, got %d", rec.Code)
	}
	out := decodeDiagnostics(t, rec)
	if out.Error == nil || *out.Error != "connection reset" {
		t.Fatalf("expected the panic error message, got %v", out.Error)
	}
}

func TestQuoteDiagnosticsPanicWithNonError(t *testing.T) {
	api := testAPI(t)
	api.quoteFn = func(ctx context.Context) models.Result[models.Quote] {
		panic("boom")
	}

	rec := httptest.NewRecorder()
	api.QuoteDiagnostics(rec, httptest.NewRequest(http.MethodGet, "/api/v1/diagnostics/quote", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("panic must answer 500, got %d", rec.Code)
	}
	out := decodeDiagnostics(t, rec)
	if out.Error == nil || *out.Error != "Unknown error" {
		t.Fatalf("non-error panic must map to Unknown error, got %v", out.Error)
	}
}
