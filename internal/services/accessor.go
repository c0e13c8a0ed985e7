package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tickerdeck/backend-go/internal/models"
)

// Accessor wraps one provider-client call with cache-first loading and
// data/loading/error state. Each Load bumps a generation counter so a
// superseded in-flight result is dropped instead of overwriting fresher
// state.
type Accessor[T any] struct {
	cache    Cache
	ttl      time.Duration
	cacheKey func(key string) string
	fetch    func(ctx context.Context, key string) models.Result[T]

	mu      sync.Mutex
	gen     uint64
	data    *T
	loading bool
	err     string
}

func NewAccessor[T any](cache Cache, ttl time.Duration, cacheKey func(string) string, fetch func(context.Context, string) models.Result[T]) *Accessor[T] {
	return &Accessor[T]{cache: cache, ttl: ttl, cacheKey: cacheKey, fetch: fetch}
}

// Load resolves the key: cache hit short-circuits, otherwise the provider is
// called and a successful result fills the cache. A failed result surfaces as
// the error string; previously loaded data is kept.
func (a *Accessor[T]) Load(ctx context.Context, key string) {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.loading = true
	a.err = ""
	a.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			msg := "failed to fetch data"
			if e, ok := r.(error); ok {
				msg = e.Error()
			}
			a.finish(gen, nil, msg)
		}
	}()

	ck := a.cacheKey(key)
	if a.cache != nil {
		if b, ok := a.cache.Get(ctx, ck); ok {
			var v T
			if err := UnmarshalCache(b, &v); err == nil {
				a.finish(gen, &v, "")
				return
			}
		}
	}

	res := a.fetch(ctx, key)
	if !res.Success {
		msg := "request failed"
		if res.Error != nil {
			msg = *res.Error
		}
		a.finish(gen, nil, msg)
		return
	}

	if a.cache != nil {
		if b, err := MarshalCache(res.Data); err == nil {
			_ = a.cache.Set(ctx, ck, b, a.ttl)
		}
	}
	v := res.Data
	a.finish(gen, &v, "")
}

func (a *Accessor[T]) finish(gen uint64, data *T, errMsg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return
	}
	a.loading = false
	if errMsg != "" {
		a.err = errMsg
		return
	}
	a.data = data
}

// Snapshot returns the current data, loading flag, and error message.
func (a *Accessor[T]) Snapshot() (*T, bool, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data, a.loading, a.err
}

func NewQuoteAccessor(cache Cache, ttl time.Duration, provider *ProviderClient) *Accessor[models.Quote] {
	return NewAccessor(cache, ttl,
		func(symbol string) string { return "quote:" + symbol },
		provider.GetStockQuote)
}

func NewOverviewAccessor(cache Cache, ttl time.Duration, provider *ProviderClient) *Accessor[models.CompanyOverview] {
	return NewAccessor(cache, ttl,
		func(symbol string) string { return "overview:" + symbol },
		provider.GetCompanyOverview)
}

func NewSearchAccessor(cache Cache, ttl time.Duration, provider *ProviderClient) *Accessor[[]models.SearchResult] {
	return NewAccessor(cache, ttl,
		func(query string) string { return "search:" + query },
		provider.SearchStocks)
}

func NewNewsAccessor(cache Cache, ttl time.Duration, provider *ProviderClient) *Accessor[[]models.NewsItem] {
	return NewAccessor(cache, ttl,
		func(symbol string) string {
			if symbol == "" {
				return "news:general"
			}
			return "news:" + symbol
		},
		provider.GetMarketNews)
}

func NewIndicesAccessor(cache Cache, ttl time.Duration, provider *ProviderClient) *Accessor[[]models.MarketIndex] {
	return NewAccessor(cache, ttl,
		func(string) string { return "indices" },
		func(ctx context.Context, _ string) models.Result[[]models.MarketIndex] {
			return provider.GetMarketIndices(ctx)
		})
}

func NewMoversAccessor(cache Cache, ttl time.Duration, provider *ProviderClient) *Accessor[[]models.MarketMover] {
	return NewAccessor(cache, ttl,
		func(string) string { return "movers" },
		func(ctx context.Context, _ string) models.Result[[]models.MarketMover] {
			return provider.GetMarketMovers(ctx)
		})
}

// NewChartAccessor keys on "SYMBOL:RANGE".
func NewChartAccessor(cache Cache, ttl time.Duration, provider *ProviderClient) *Accessor[[]models.ChartPoint] {
	return NewAccessor(cache, ttl,
		func(key string) string { return "chart:" + key },
		func(ctx context.Context, key string) models.Result[[]models.ChartPoint] {
			symbol, r := splitChartKey(key)
			return provider.GetStockChart(ctx, symbol, r)
		})
}

func ChartKey(symbol string, r models.TimeRange) string {
	return fmt.Sprintf("%s:%s", symbol, r)
}

func splitChartKey(key string) (string, models.TimeRange) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			if r, ok := models.ParseTimeRange(key[i+1:]); ok {
				return key[:i], r
			}
			break
		}
	}
	return key, models.Range1M
}

// CombinedAccessor aggregates the three per-symbol data kinds a stock detail
// page needs. Loading is the union of the constituents; the error is the
// first non-empty one.
type CombinedAccessor struct {
	Quote    *Accessor[models.Quote]
	Overview *Accessor[models.CompanyOverview]
	News     *Accessor[[]models.NewsItem]
}

func NewCombinedAccessor(cache Cache, ttl time.Duration, provider *ProviderClient) *CombinedAccessor {
	return &CombinedAccessor{
		Quote:    NewQuoteAccessor(cache, ttl, provider),
		Overview: NewOverviewAccessor(cache, ttl, provider),
		News:     NewNewsAccessor(cache, ttl, provider),
	}
}

func (c *CombinedAccessor) Load(ctx context.Context, symbol string) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); c.Quote.Load(ctx, symbol) }()
	go func() { defer wg.Done(); c.Overview.Load(ctx, symbol) }()
	go func() { defer wg.Done(); c.News.Load(ctx, symbol) }()
	wg.Wait()
}

type CombinedSnapshot struct {
	Quote    *models.Quote           `json:"quote"`
	Overview *models.CompanyOverview `json:"overview"`
	News     []models.NewsItem       `json:"news"`
	Loading  bool                    `json:"loading"`
	Error    *string                 `json:"error"`
}

func (c *CombinedAccessor) Snapshot() CombinedSnapshot {
	quote, qLoading, qErr := c.Quote.Snapshot()
	overview, oLoading, oErr := c.Overview.Snapshot()
	news, nLoading, nErr := c.News.Snapshot()

	snap := CombinedSnapshot{
		Quote:    quote,
		Overview: overview,
		Loading:  qLoading || oLoading || nLoading,
	}
	if news != nil {
		snap.News = *news
	}
	for _, e := range []string{qErr, oErr, nErr} {
		if e != "" {
			snap.Error = &e
			break
		}
	}
	return snap
}
