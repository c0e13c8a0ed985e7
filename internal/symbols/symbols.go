package symbols

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry describes one listed security the service knows about without asking
// the provider. The universe feeds synthetic data and fallback search.
type Entry struct {
	Symbol   string `yaml:"symbol" json:"symbol"`
	Name     string `yaml:"name" json:"name"`
	Exchange string `yaml:"exchange" json:"exchange"`
	Sector   string `yaml:"sector" json:"sector"`
	Industry string `yaml:"industry" json:"industry"`
}

type Universe struct {
	entries  []Entry
	bySymbol map[string]Entry
}

var defaults = []Entry{
	{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Sector: "Technology", Industry: "Consumer Electronics"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ", Sector: "Technology", Industry: "Software"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Exchange: "NASDAQ", Sector: "Communication Services", Industry: "Internet Content"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Exchange: "NASDAQ", Sector: "Consumer Cyclical", Industry: "Internet Retail"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Exchange: "NASDAQ", Sector: "Technology", Industry: "Semiconductors"},
	{Symbol: "META", Name: "Meta Platforms Inc.", Exchange: "NASDAQ", Sector: "Communication Services", Industry: "Internet Content"},
	{Symbol: "TSLA", Name: "Tesla Inc.", Exchange: "NASDAQ", Sector: "Consumer Cyclical", Industry: "Auto Manufacturers"},
	{Symbol: "BRK.B", Name: "Berkshire Hathaway Inc.", Exchange: "NYSE", Sector: "Financial Services", Industry: "Insurance"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Exchange: "NYSE", Sector: "Financial Services", Industry: "Banks"},
	{Symbol: "V", Name: "Visa Inc.", Exchange: "NYSE", Sector: "Financial Services", Industry: "Credit Services"},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Exchange: "NYSE", Sector: "Healthcare", Industry: "Drug Manufacturers"},
	{Symbol: "WMT", Name: "Walmart Inc.", Exchange: "NYSE", Sector: "Consumer Defensive", Industry: "Discount Stores"},
	{Symbol: "XOM", Name: "Exxon Mobil Corporation", Exchange: "NYSE", Sector: "Energy", Industry: "Oil & Gas Integrated"},
	{Symbol: "PG", Name: "Procter & Gamble Co.", Exchange: "NYSE", Sector: "Consumer Defensive", Industry: "Household Products"},
	{Symbol: "KO", Name: "The Coca-Cola Company", Exchange: "NYSE", Sector: "Consumer Defensive", Industry: "Beverages"},
	{Symbol: "DIS", Name: "The Walt Disney Company", Exchange: "NYSE", Sector: "Communication Services", Industry: "Entertainment"},
	{Symbol: "NFLX", Name: "Netflix Inc.", Exchange: "NASDAQ", Sector: "Communication Services", Industry: "Entertainment"},
	{Symbol: "AMD", Name: "Advanced Micro Devices Inc.", Exchange: "NASDAQ", Sector: "Technology", Industry: "Semiconductors"},
	{Symbol: "INTC", Name: "Intel Corporation", Exchange: "NASDAQ", Sector: "Technology", Industry: "Semiconductors"},
	{Symbol: "BA", Name: "The Boeing Company", Exchange: "NYSE", Sector: "Industrials", Industry: "Aerospace & Defense"},
}

// Indices the dashboard header tracks.
var Indices = []Entry{
	{Symbol: "SPX", Name: "S&P 500"},
	{Symbol: "DJI", Name: "Dow Jones Industrial Average"},
	{Symbol: "IXIC", Name: "NASDAQ Composite"},
	{Symbol: "RUT", Name: "Russell 2000"},
}

// Default returns the built-in universe.
func Default() *Universe {
	return build(defaults)
}

// LoadFile reads a yaml list of entries; entries without a symbol are
// rejected.
func LoadFile(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read symbols file: %w", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse symbols file: %w", err)
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Symbol) == "" {
			return nil, fmt.Errorf("symbols file entry %d: missing symbol", i)
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("symbols file %s: no entries", path)
	}
	return build(entries), nil
}

func build(entries []Entry) *Universe {
	u := &Universe{entries: entries, bySymbol: make(map[string]Entry, len(entries))}
	for i := range u.entries {
		u.entries[i].Symbol = strings.ToUpper(u.entries[i].Symbol)
		u.bySymbol[u.entries[i].Symbol] = u.entries[i]
	}
	return u
}

func (u *Universe) Len() int {
	return len(u.entries)
}

func (u *Universe) All() []Entry {
	out := make([]Entry, len(u.entries))
	copy(out, u.entries)
	return out
}

func (u *Universe) Lookup(symbol string) (Entry, bool) {
	e, ok := u.bySymbol[strings.ToUpper(symbol)]
	return e, ok
}

// Match returns entries whose symbol or name contains the query, best match
// first: exact symbol, then symbol prefix, then substring anywhere.
func (u *Universe) Match(query string, limit int) []Entry {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}
	var exact, prefix, partial []Entry
	for _, e := range u.entries {
		name := strings.ToUpper(e.Name)
		switch {
		case e.Symbol == q:
			exact = append(exact, e)
		case strings.HasPrefix(e.Symbol, q):
			prefix = append(prefix, e)
		case strings.Contains(e.Symbol, q) || strings.Contains(name, q):
			partial = append(partial, e)
		}
	}
	out := append(append(exact, prefix...), partial...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
