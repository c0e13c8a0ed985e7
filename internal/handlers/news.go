package handlers

import (
	"net/http"
	"strings"

	"tickerdeck/backend-go/internal/models"
	"tickerdeck/backend-go/internal/services"
)

func (a *API) News(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := strings.ToUpper(strings.TrimSpace(q.Get("symbol")))
	topic := strings.TrimSpace(q.Get("topic"))
	page := parseIntParam(q.Get("page"), 1, 1, 500)
	pageSize := parseIntParam(q.Get("pageSize"), 10, 1, 50)

	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	acc := services.NewNewsAccessor(a.cache, a.cfg.CacheTTL, a.provider)
	acc.Load(ctx, symbol)
	data, _, _ := acc.Snapshot()

	items := []models.NewsItem{}
	if data != nil {
		items = *data
	}
	items = applyTopicFilter(items, topic)

	total := len(items)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	paged := []models.NewsItem{}
	if start < end {
		paged = items[start:end]
	}

	writeJSON(w, http.StatusOK, models.NewsPageResponse{
		TsISO:    nowISO(),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Topic:    topic,
		Items:    paged,
	})
}

func applyTopicFilter(items []models.NewsItem, topic string) []models.NewsItem {
	if topic == "" || strings.EqualFold(topic, "all") {
		return items
	}
	out := make([]models.NewsItem, 0, len(items))
	for _, it := range items {
		for _, t := range it.Topics {
			if strings.EqualFold(t.Topic, topic) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
