package services

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"tickerdeck/backend-go/internal/models"
	"tickerdeck/backend-go/internal/symbols"
)

// Synthesizer produces plausible market data when the real provider is
// unconfigured, exhausted, or broken. It never fails. Values are random, not
// deterministic, unless a fixed seed is supplied.
type Synthesizer struct {
	mu       sync.Mutex
	rng      *rand.Rand
	universe *symbols.Universe
	now      func() time.Time
}

// NewSynthesizer builds a synthesizer over the given symbol universe. A zero
// seed picks a time-based one; tests that want reproducible series pass a
// fixed seed.
func NewSynthesizer(universe *symbols.Universe, seed int64) *Synthesizer {
	if universe == nil || universe.Len() == 0 {
		universe = symbols.Default()
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Synthesizer{
		rng:      rand.New(rand.NewSource(seed)),
		universe: universe,
		now:      time.Now,
	}
}

func (s *Synthesizer) f(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Float64()*(max-min)
}

func (s *Synthesizer) i64(min, max int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Int63n(max-min)
}

func (s *Synthesizer) pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Synthesizer) name(symbol string) string {
	if e, ok := s.universe.Lookup(symbol); ok {
		return e.Name
	}
	return symbol + " Corporation"
}

func (s *Synthesizer) today() string {
	return s.now().Format("2006-01-02")
}

func (s *Synthesizer) Quote(symbol string) models.Quote {
	symbol = strings.ToUpper(symbol)
	price := round2(s.f(100, 500))
	prev := round2(price - s.f(-10, 10))
	open := round2(prev * s.f(0.995, 1.005))
	change := round2(price - prev)
	changePct := 0.0
	if prev != 0 {
		changePct = round2(change / prev * 100)
	}
	return models.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Volume:        s.i64(10_000_000, 60_000_000),
		PreviousClose: prev,
		Open:          open,
		High:          round2(math.Max(open, price) * s.f(1.0, 1.015)),
		Low:           round2(math.Min(open, price) * s.f(0.985, 1.0)),
		MarketCap:     round2(price * s.f(1e9, 3e9)),
		LastUpdated:   s.today(),
	}
}

// ChartSeries walks a random price one calendar day at a time, ending today.
// The series has Days()+1 points (day 0 included) with strictly increasing
// dates.
func (s *Synthesizer) ChartSeries(symbol string, r models.TimeRange) []models.ChartPoint {
	days := r.Days()
	price := s.f(100, 500)
	points := make([]models.ChartPoint, 0, days+1)
	end := s.now()
	for i := days; i >= 0; i-- {
		price += (s.f(0, 1) - 0.5) * price * 0.04
		if price < 1 {
			price = 1
		}
		closePx := round2(price)
		open := round2(closePx * s.f(0.99, 1.01))
		points = append(points, models.ChartPoint{
			Date:   end.AddDate(0, 0, -i).Format("2006-01-02"),
			Open:   open,
			High:   round2(math.Max(open, closePx) * s.f(1.0, 1.015)),
			Low:    round2(math.Min(open, closePx) * s.f(0.985, 1.0)),
			Close:  closePx,
			Volume: s.i64(10_000_000, 60_000_000),
		})
	}
	return points
}

func (s *Synthesizer) SearchResults(query string) []models.SearchResult {
	matches := s.universe.Match(query, 10)
	out := make([]models.SearchResult, 0, len(matches))
	for i, e := range matches {
		out = append(out, models.SearchResult{
			Symbol:      e.Symbol,
			Name:        e.Name,
			Type:        "Equity",
			Region:      "United States",
			MarketOpen:  "09:30",
			MarketClose: "16:00",
			Timezone:    "UTC-04",
			Currency:    "USD",
			MatchScore:  round2(1.0 - float64(i)*0.07),
		})
	}
	return out
}

func (s *Synthesizer) Overview(symbol string) models.CompanyOverview {
	symbol = strings.ToUpper(symbol)
	entry, known := s.universe.Lookup(symbol)
	if !known {
		entry = symbols.Entry{Symbol: symbol, Name: symbol + " Corporation", Exchange: "NYSE", Sector: "Technology", Industry: "Software"}
	}
	price := s.f(100, 500)
	eps := s.f(1, 15)
	shares := s.f(5e8, 5e9)
	fp := func(v float64) *float64 {
		r := round2(v)
		return &r
	}
	quarter := s.now().AddDate(0, -2, 0).Format("2006-01-02")
	return models.CompanyOverview{
		Symbol:        symbol,
		Name:          entry.Name,
		Description:   fmt.Sprintf("%s operates in the %s sector (%s industry), providing products and services to customers worldwide.", entry.Name, entry.Sector, entry.Industry),
		Exchange:      entry.Exchange,
		Currency:      "USD",
		Country:       "USA",
		Sector:        entry.Sector,
		Industry:      entry.Industry,
		Address:       "One Market Plaza, San Francisco, CA, United States",
		FiscalYearEnd: "December",
		LatestQuarter: quarter,

		MarketCap:                  fp(price * shares),
		EBITDA:                     fp(price * shares * 0.08),
		PERatio:                    fp(price / eps),
		PEGRatio:                   fp(s.f(0.5, 3.5)),
		BookValue:                  fp(s.f(5, 80)),
		DividendPerShare:           fp(s.f(0, 5)),
		DividendYield:              fp(s.f(0, 0.04)),
		EPS:                        fp(eps),
		RevenuePerShareTTM:         fp(s.f(10, 120)),
		ProfitMargin:               fp(s.f(0.02, 0.35)),
		OperatingMarginTTM:         fp(s.f(0.05, 0.40)),
		ReturnOnAssetsTTM:          fp(s.f(0.01, 0.20)),
		ReturnOnEquityTTM:          fp(s.f(0.05, 0.45)),
		RevenueTTM:                 fp(shares * s.f(10, 120)),
		GrossProfitTTM:             fp(shares * s.f(4, 50)),
		DilutedEPSTTM:              fp(eps * s.f(0.9, 1.0)),
		QuarterlyEarningsGrowthYOY: fp(s.f(-0.2, 0.5)),
		QuarterlyRevenueGrowthYOY:  fp(s.f(-0.1, 0.4)),
		AnalystTargetPrice:         fp(price * s.f(0.9, 1.3)),
		TrailingPE:                 fp(price / eps),
		ForwardPE:                  fp(price / (eps * s.f(1.0, 1.2))),
		PriceToSalesRatioTTM:       fp(s.f(1, 12)),
		PriceToBookRatio:           fp(s.f(1, 15)),
		EVToRevenue:                fp(s.f(1, 14)),
		EVToEBITDA:                 fp(s.f(5, 30)),
		Beta:                       fp(s.f(0.5, 2.0)),
		High52Week:                 fp(price * s.f(1.05, 1.4)),
		Low52Week:                  fp(price * s.f(0.6, 0.95)),
		MovingAverage50Day:         fp(price * s.f(0.95, 1.05)),
		MovingAverage200Day:        fp(price * s.f(0.9, 1.1)),
		SharesOutstanding:          fp(shares),

		DividendDate:   s.now().AddDate(0, 1, 0).Format("2006-01-02"),
		ExDividendDate: s.now().AddDate(0, 0, 14).Format("2006-01-02"),
	}
}

var newsTemplates = []struct {
	title string
	topic string
}{
	{"%s Reports Quarterly Results Above Analyst Expectations", "Earnings"},
	{"%s Announces Expansion Into New Markets", "Mergers & Acquisitions"},
	{"Analysts Raise Price Target for %s", "Financial Markets"},
	{"%s Unveils Next-Generation Product Line", "Technology"},
	{"Institutional Investors Increase Stakes in %s", "Financial Markets"},
	{"%s Faces Regulatory Scrutiny Over Recent Practices", "Economy - Monetary"},
}

func sentimentLabel(score float64) string {
	switch {
	case score <= -0.35:
		return "Bearish"
	case score <= -0.15:
		return "Somewhat-Bearish"
	case score < 0.15:
		return "Neutral"
	case score < 0.35:
		return "Somewhat-Bullish"
	default:
		return "Bullish"
	}
}

// News returns a handful of synthetic articles. An empty symbol yields
// general market news over random universe entries.
func (s *Synthesizer) News(symbol string) []models.NewsItem {
	count := 5
	out := make([]models.NewsItem, 0, count)
	for i := 0; i < count; i++ {
		sym := strings.ToUpper(symbol)
		if sym == "" {
			all := s.universe.All()
			sym = all[s.pick(len(all))].Symbol
		}
		name := s.name(sym)
		tmpl := newsTemplates[s.pick(len(newsTemplates))]
		score := round2(s.f(-0.5, 0.6))
		published := s.now().Add(-time.Duration(s.i64(1, 72)) * time.Hour)
		out = append(out, models.NewsItem{
			Title:          fmt.Sprintf(tmpl.title, name),
			URL:            fmt.Sprintf("https://example.com/news/%s/%d", strings.ToLower(sym), published.Unix()),
			PublishedAtISO: published.UTC().Format(time.RFC3339),
			Authors:        []string{"Market Desk"},
			Summary:        fmt.Sprintf("Coverage of recent developments at %s and the expected impact on the stock.", name),
			Source:         "Tickerdeck Wire",
			Topics: []models.TopicRelevance{
				{Topic: tmpl.topic, Relevance: round2(s.f(0.4, 1.0))},
			},
			SentimentScore: score,
			SentimentLabel: sentimentLabel(score),
			TickerSentiments: []models.TickerSentiment{
				{Ticker: sym, Relevance: round2(s.f(0.5, 1.0)), Score: score, Label: sentimentLabel(score)},
			},
		})
	}
	return out
}

var indexLevels = map[string]float64{
	"SPX":  5600,
	"DJI":  41000,
	"IXIC": 17500,
	"RUT":  2200,
}

func (s *Synthesizer) Indices() []models.MarketIndex {
	out := make([]models.MarketIndex, 0, len(symbols.Indices))
	for _, e := range symbols.Indices {
		base := indexLevels[e.Symbol]
		if base == 0 {
			base = s.f(1000, 10000)
		}
		price := round2(base * s.f(0.97, 1.03))
		change := round2(price * s.f(-0.02, 0.02))
		out = append(out, models.MarketIndex{
			Symbol:        e.Symbol,
			Name:          e.Name,
			Price:         price,
			Change:        change,
			ChangePercent: round2(change / price * 100),
			LastUpdated:   s.today(),
		})
	}
	return out
}

func (s *Synthesizer) Movers() []models.MarketMover {
	all := s.universe.All()
	count := 8
	if count > len(all) {
		count = len(all)
	}
	out := make([]models.MarketMover, 0, count)
	seen := make(map[string]bool, count)
	for len(out) < count {
		e := all[s.pick(len(all))]
		if seen[e.Symbol] {
			continue
		}
		seen[e.Symbol] = true
		price := round2(s.f(20, 500))
		changePct := round2(s.f(-12, 12))
		out = append(out, models.MarketMover{
			Symbol:        e.Symbol,
			Name:          e.Name,
			Price:         price,
			Change:        round2(price * changePct / 100),
			ChangePercent: changePct,
			Volume:        s.i64(10_000_000, 90_000_000),
			LastUpdated:   s.today(),
		})
	}
	return out
}
