package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"tickerdeck/backend-go/internal/models"
)

func TestApplyTopicFilter(t *testing.T) {
	items := []models.NewsItem{
		{Title: "a", Topics: []models.TopicRelevance{{Topic: "Earnings"}}},
		{Title: "b", Topics: []models.TopicRelevance{{Topic: "Technology"}}},
		{Title: "c", Topics: []models.TopicRelevance{{Topic: "earnings"}, {Topic: "Economy - Monetary"}}},
		{Title: "d"},
	}

	got := applyTopicFilter(items, "Earnings")
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "c" {
		t.Fatalf("case-insensitive topic filter failed: %+v", got)
	}

	if got := applyTopicFilter(items, ""); len(got) != 4 {
		t.Fatalf("empty topic must pass everything, got %d", len(got))
	}
	if got := applyTopicFilter(items, "all"); len(got) != 4 {
		t.Fatalf("all must pass everything, got %d", len(got))
	}
	if got := applyTopicFilter(items, "IPO"); len(got) != 0 {
		t.Fatalf("unmatched topic must filter everything, got %d", len(got))
	}
}

func TestNewsEndpointPaginates(t *testing.T) {
	api := testAPI(t)

	rec := doJSON(t, api.News, http.MethodGet, "/api/v1/news?pageSize=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var page models.NewsPageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Page != 1 || page.PageSize != 2 {
		t.Fatalf("unexpected paging fields: %+v", page)
	}
	if page.Total != 5 {
		t.Fatalf("synthetic feed must have 5 items, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items on the page, got %d", len(page.Items))
	}

	rec = doJSON(t, api.News, http.MethodGet, "/api/v1/news?pageSize=2&page=3", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("last page must carry the remainder, got %d", len(page.Items))
	}

	rec = doJSON(t, api.News, http.MethodGet, "/api/v1/news?pageSize=2&page=50", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("past-the-end page must be empty, got %d", len(page.Items))
	}
}

func TestParseIntParamClamps(t *testing.T) {
	if got := parseIntParam("", 10, 1, 50); got != 10 {
		t.Fatalf("empty must default, got %d", got)
	}
	if got := parseIntParam("junk", 10, 1, 50); got != 10 {
		t.Fatalf("junk must default, got %d", got)
	}
	if got := parseIntParam("0", 10, 1, 50); got != 1 {
		t.Fatalf("below-min must clamp, got %d", got)
	}
	if got := parseIntParam("999", 10, 1, 50); got != 50 {
		t.Fatalf("above-max must clamp, got %d", got)
	}
	if got := parseIntParam("25", 10, 1, 50); got != 25 {
		t.Fatalf("in-range must pass, got %d", got)
	}
}
