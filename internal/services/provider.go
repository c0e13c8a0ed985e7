package services

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"tickerdeck/backend-go/internal/config"
	"tickerdeck/backend-go/internal/models"
)

// ProviderName labels where quote data comes from in diagnostics output.
const ProviderName = "Alpha Vantage"

// ProviderClient resolves each data kind against the real provider and falls
// back to the synthesizer on missing configuration, quota notices, empty
// payloads, and transport errors. It never returns an error to its caller;
// every path resolves with data.
type ProviderClient struct {
	apiKey    string
	baseURL   string
	transport *RetryTransport
	synth     *Synthesizer
	now       func() time.Time
}

func NewProviderClient(cfg config.Config, transport *RetryTransport, synth *Synthesizer) *ProviderClient {
	return &ProviderClient{
		apiKey:    cfg.ProviderAPIKey,
		baseURL:   strings.TrimRight(cfg.ProviderBaseURL, "/"),
		transport: transport,
		synth:     synth,
		now:       time.Now,
	}
}

func (c *ProviderClient) configured() bool {
	return c.apiKey != "" && c.baseURL != ""
}

func (c *ProviderClient) buildURL(function string, params map[string]string) string {
	q := url.Values{}
	q.Set("function", function)
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("apikey", c.apiKey)
	return c.baseURL + "?" + q.Encode()
}

// avNotice carries the provider's error and quota fields. Any of them being
// present routes the call to the synthesizer.
type avNotice struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (n avNotice) bad() bool {
	return n.Note != "" || n.Information != "" || n.ErrorMessage != ""
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

func parsePercent(s string) (float64, bool) {
	return parseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

func parseInt64(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v, err == nil
}

// parseOptFloat maps the provider's absent-value markers to nil rather than
// zero.
func parseOptFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "", "None", "none", "-", "NaN":
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

type avSearchResponse struct {
	avNotice
	BestMatches []struct {
		Symbol      string `json:"1. symbol"`
		Name        string `json:"2. name"`
		Type        string `json:"3. type"`
		Region      string `json:"4. region"`
		MarketOpen  string `json:"5. marketOpen"`
		MarketClose string `json:"6. marketClose"`
		Timezone    string `json:"7. timezone"`
		Currency    string `json:"8. currency"`
		MatchScore  string `json:"9. matchScore"`
	} `json:"bestMatches"`
}

func (c *ProviderClient) SearchStocks(ctx context.Context, query string) models.Result[[]models.SearchResult] {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Fail[[]models.SearchResult]("empty search query")
	}
	if !c.configured() {
		return c.fallbackSearch(query)
	}

	body, err := c.transport.Fetch(ctx, c.buildURL("SYMBOL_SEARCH", map[string]string{"keywords": query}))
	if err != nil {
		return c.fallbackSearch(query)
	}
	var resp avSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.bad() || len(resp.BestMatches) == 0 {
		return c.fallbackSearch(query)
	}

	out := make([]models.SearchResult, 0, len(resp.BestMatches))
	for _, m := range resp.BestMatches {
		score, _ := parseFloat(m.MatchScore)
		out = append(out, models.SearchResult{
			Symbol:      strings.ToUpper(m.Symbol),
			Name:        m.Name,
			Type:        m.Type,
			Region:      m.Region,
			MarketOpen:  m.MarketOpen,
			MarketClose: m.MarketClose,
			Timezone:    m.Timezone,
			Currency:    m.Currency,
			MatchScore:  score,
		})
	}
	return models.Ok(out)
}

func (c *ProviderClient) fallbackSearch(query string) models.Result[[]models.SearchResult] {
	results := c.synth.SearchResults(query)
	if len(results) == 0 {
		return models.Fail[[]models.SearchResult]("no results found for " + strconv.Quote(query))
	}
	return models.Ok(results)
}

type avQuoteResponse struct {
	avNotice
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
}

func (c *ProviderClient) GetStockQuote(ctx context.Context, symbol string) models.Result[models.Quote] {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !c.configured() {
		return models.Ok(c.synth.Quote(symbol))
	}

	body, err := c.transport.Fetch(ctx, c.buildURL("GLOBAL_QUOTE", map[string]string{"symbol": symbol}))
	if err != nil {
		return models.Ok(c.synth.Quote(symbol))
	}
	var resp avQuoteResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.bad() || resp.GlobalQuote.Symbol == "" {
		return models.Ok(c.synth.Quote(symbol))
	}

	g := resp.GlobalQuote
	price, okPrice := parseFloat(g.Price)
	prev, okPrev := parseFloat(g.PreviousClose)
	if !okPrice || !okPrev {
		return models.Ok(c.synth.Quote(symbol))
	}
	open, _ := parseFloat(g.Open)
	high, _ := parseFloat(g.High)
	low, _ := parseFloat(g.Low)
	change, okChange := parseFloat(g.Change)
	if !okChange {
		change = round2(price - prev)
	}
	changePct, _ := parsePercent(g.ChangePercent)
	volume, _ := parseInt64(g.Volume)

	return models.Ok(models.Quote{
		Symbol:        strings.ToUpper(g.Symbol),
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Volume:        volume,
		PreviousClose: prev,
		Open:          open,
		High:          high,
		Low:           low,
		LastUpdated:   g.LatestTradingDay,
	})
}

// avOverviewResponse lists the provider's overview fields exhaustively so a
// malformed payload fails into the fallback path instead of producing a
// partially populated entity.
type avOverviewResponse struct {
	avNotice
	Symbol        string `json:"Symbol"`
	Name          string `json:"Name"`
	Description   string `json:"Description"`
	Exchange      string `json:"Exchange"`
	Currency      string `json:"Currency"`
	Country       string `json:"Country"`
	Sector        string `json:"Sector"`
	Industry      string `json:"Industry"`
	Address       string `json:"Address"`
	FiscalYearEnd string `json:"FiscalYearEnd"`
	LatestQuarter string `json:"LatestQuarter"`

	MarketCapitalization       string `json:"MarketCapitalization"`
	EBITDA                     string `json:"EBITDA"`
	PERatio                    string `json:"PERatio"`
	PEGRatio                   string `json:"PEGRatio"`
	BookValue                  string `json:"BookValue"`
	DividendPerShare           string `json:"DividendPerShare"`
	DividendYield              string `json:"DividendYield"`
	EPS                        string `json:"EPS"`
	RevenuePerShareTTM         string `json:"RevenuePerShareTTM"`
	ProfitMargin               string `json:"ProfitMargin"`
	OperatingMarginTTM         string `json:"OperatingMarginTTM"`
	ReturnOnAssetsTTM          string `json:"ReturnOnAssetsTTM"`
	ReturnOnEquityTTM          string `json:"ReturnOnEquityTTM"`
	RevenueTTM                 string `json:"RevenueTTM"`
	GrossProfitTTM             string `json:"GrossProfitTTM"`
	DilutedEPSTTM              string `json:"DilutedEPSTTM"`
	QuarterlyEarningsGrowthYOY string `json:"QuarterlyEarningsGrowthYOY"`
	QuarterlyRevenueGrowthYOY  string `json:"QuarterlyRevenueGrowthYOY"`
	AnalystTargetPrice         string `json:"AnalystTargetPrice"`
	TrailingPE                 string `json:"TrailingPE"`
	ForwardPE                  string `json:"ForwardPE"`
	PriceToSalesRatioTTM       string `json:"PriceToSalesRatioTTM"`
	PriceToBookRatio           string `json:"PriceToBookRatio"`
	EVToRevenue                string `json:"EVToRevenue"`
	EVToEBITDA                 string `json:"EVToEBITDA"`
	Beta                       string `json:"Beta"`
	High52Week                 string `json:"52WeekHigh"`
	Low52Week                  string `json:"52WeekLow"`
	MovingAverage50Day         string `json:"50DayMovingAverage"`
	MovingAverage200Day        string `json:"200DayMovingAverage"`
	SharesOutstanding          string `json:"SharesOutstanding"`
	DividendDate               string `json:"DividendDate"`
	ExDividendDate             string `json:"ExDividendDate"`
}

func (c *ProviderClient) GetCompanyOverview(ctx context.Context, symbol string) models.Result[models.CompanyOverview] {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !c.configured() {
		return models.Ok(c.synth.Overview(symbol))
	}

	body, err := c.transport.Fetch(ctx, c.buildURL("OVERVIEW", map[string]string{"symbol": symbol}))
	if err != nil {
		return models.Ok(c.synth.Overview(symbol))
	}
	var resp avOverviewResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.bad() || resp.Symbol == "" {
		return models.Ok(c.synth.Overview(symbol))
	}

	return models.Ok(models.CompanyOverview{
		Symbol:        strings.ToUpper(resp.Symbol),
		Name:          resp.Name,
		Description:   resp.Description,
		Exchange:      resp.Exchange,
		Currency:      resp.Currency,
		Country:       resp.Country,
		Sector:        resp.Sector,
		Industry:      resp.Industry,
		Address:       resp.Address,
		FiscalYearEnd: resp.FiscalYearEnd,
		LatestQuarter: resp.LatestQuarter,

		MarketCap:                  parseOptFloat(resp.MarketCapitalization),
		EBITDA:                     parseOptFloat(resp.EBITDA),
		PERatio:                    parseOptFloat(resp.PERatio),
		PEGRatio:                   parseOptFloat(resp.PEGRatio),
		BookValue:                  parseOptFloat(resp.BookValue),
		DividendPerShare:           parseOptFloat(resp.DividendPerShare),
		DividendYield:              parseOptFloat(resp.DividendYield),
		EPS:                        parseOptFloat(resp.EPS),
		RevenuePerShareTTM:         parseOptFloat(resp.RevenuePerShareTTM),
		ProfitMargin:               parseOptFloat(resp.ProfitMargin),
		OperatingMarginTTM:         parseOptFloat(resp.OperatingMarginTTM),
		ReturnOnAssetsTTM:          parseOptFloat(resp.ReturnOnAssetsTTM),
		ReturnOnEquityTTM:          parseOptFloat(resp.ReturnOnEquityTTM),
		RevenueTTM:                 parseOptFloat(resp.RevenueTTM),
		GrossProfitTTM:             parseOptFloat(resp.GrossProfitTTM),
		DilutedEPSTTM:              parseOptFloat(resp.DilutedEPSTTM),
		QuarterlyEarningsGrowthYOY: parseOptFloat(resp.QuarterlyEarningsGrowthYOY),
		QuarterlyRevenueGrowthYOY:  parseOptFloat(resp.QuarterlyRevenueGrowthYOY),
		AnalystTargetPrice:         parseOptFloat(resp.AnalystTargetPrice),
		TrailingPE:                 parseOptFloat(resp.TrailingPE),
		ForwardPE:                  parseOptFloat(resp.ForwardPE),
		PriceToSalesRatioTTM:       parseOptFloat(resp.PriceToSalesRatioTTM),
		PriceToBookRatio:           parseOptFloat(resp.PriceToBookRatio),
		EVToRevenue:                parseOptFloat(resp.EVToRevenue),
		EVToEBITDA:                 parseOptFloat(resp.EVToEBITDA),
		Beta:                       parseOptFloat(resp.Beta),
		High52Week:                 parseOptFloat(resp.High52Week),
		Low52Week:                  parseOptFloat(resp.Low52Week),
		MovingAverage50Day:         parseOptFloat(resp.MovingAverage50Day),
		MovingAverage200Day:        parseOptFloat(resp.MovingAverage200Day),
		SharesOutstanding:          parseOptFloat(resp.SharesOutstanding),

		DividendDate:   resp.DividendDate,
		ExDividendDate: resp.ExDividendDate,
	})
}

type avBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

func chartQuery(symbol string, r models.TimeRange) (params map[string]string, function, seriesKey string) {
	switch r.Granularity() {
	case models.GranularityIntraday:
		return map[string]string{"symbol": symbol, "interval": "60min", "outputsize": "compact"},
			"TIME_SERIES_INTRADAY", "Time Series (60min)"
	case models.GranularityWeekly:
		return map[string]string{"symbol": symbol}, "TIME_SERIES_WEEKLY", "Weekly Time Series"
	default:
		return map[string]string{"symbol": symbol, "outputsize": "full"}, "TIME_SERIES_DAILY", "Time Series (Daily)"
	}
}

func (c *ProviderClient) GetStockChart(ctx context.Context, symbol string, r models.TimeRange) models.Result[[]models.ChartPoint] {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !r.Valid() {
		r = models.Range1M
	}
	if !c.configured() {
		return models.Ok(c.synth.ChartSeries(symbol, r))
	}

	params, function, seriesKey := chartQuery(symbol, r)
	body, err := c.transport.Fetch(ctx, c.buildURL(function, params))
	if err != nil {
		return models.Ok(c.synth.ChartSeries(symbol, r))
	}

	var notice avNotice
	if err := json.Unmarshal(body, &notice); err != nil || notice.bad() {
		return models.Ok(c.synth.ChartSeries(symbol, r))
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.Ok(c.synth.ChartSeries(symbol, r))
	}
	seriesRaw, ok := raw[seriesKey]
	if !ok {
		return models.Ok(c.synth.ChartSeries(symbol, r))
	}
	var series map[string]avBar
	if err := json.Unmarshal(seriesRaw, &series); err != nil || len(series) == 0 {
		return models.Ok(c.synth.ChartSeries(symbol, r))
	}

	// Post-filter to the requested window. Period keys are either
	// "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS", so a plain string compare
	// against the date cutoff works for both.
	cutoff := c.now().AddDate(0, 0, -r.Days()).Format("2006-01-02")
	points := make([]models.ChartPoint, 0, len(series))
	for date, bar := range series {
		if date < cutoff {
			continue
		}
		closePx, okClose := parseFloat(bar.Close)
		if !okClose {
			continue
		}
		open, _ := parseFloat(bar.Open)
		high, _ := parseFloat(bar.High)
		low, _ := parseFloat(bar.Low)
		volume, _ := parseInt64(bar.Volume)
		points = append(points, models.ChartPoint{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: volume,
		})
	}
	if len(points) == 0 {
		return models.Ok(c.synth.ChartSeries(symbol, r))
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return models.Ok(points)
}

type avNewsResponse struct {
	avNotice
	Feed []struct {
		Title         string   `json:"title"`
		URL           string   `json:"url"`
		TimePublished string   `json:"time_published"`
		Authors       []string `json:"authors"`
		Summary       string   `json:"summary"`
		Source        string   `json:"source"`
		Topics        []struct {
			Topic          string `json:"topic"`
			RelevanceScore string `json:"relevance_score"`
		} `json:"topics"`
		OverallSentimentScore float64 `json:"overall_sentiment_score"`
		OverallSentimentLabel string  `json:"overall_sentiment_label"`
		TickerSentiment       []struct {
			Ticker               string `json:"ticker"`
			RelevanceScore       string `json:"relevance_score"`
			TickerSentimentScore string `json:"ticker_sentiment_score"`
			TickerSentimentLabel string `json:"ticker_sentiment_label"`
		} `json:"ticker_sentiment"`
	} `json:"feed"`
}

const maxNewsItems = 25

// GetMarketNews returns articles for one symbol, or general market news when
// the symbol is empty.
func (c *ProviderClient) GetMarketNews(ctx context.Context, symbol string) models.Result[[]models.NewsItem] {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !c.configured() {
		return models.Ok(c.synth.News(symbol))
	}

	params := map[string]string{"sort": "LATEST"}
	if symbol != "" {
		params["tickers"] = symbol
	}
	body, err := c.transport.Fetch(ctx, c.buildURL("NEWS_SENTIMENT", params))
	if err != nil {
		return models.Ok(c.synth.News(symbol))
	}
	var resp avNewsResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.bad() || len(resp.Feed) == 0 {
		return models.Ok(c.synth.News(symbol))
	}

	out := make([]models.NewsItem, 0, len(resp.Feed))
	for _, f := range resp.Feed {
		if len(out) >= maxNewsItems {
			break
		}
		item := models.NewsItem{
			Title:          f.Title,
			URL:            f.URL,
			PublishedAtISO: parseNewsTime(f.TimePublished),
			Authors:        f.Authors,
			Summary:        f.Summary,
			Source:         f.Source,
			SentimentScore: f.OverallSentimentScore,
			SentimentLabel: f.OverallSentimentLabel,
		}
		for _, t := range f.Topics {
			rel, _ := parseFloat(t.RelevanceScore)
			item.Topics = append(item.Topics, models.TopicRelevance{Topic: t.Topic, Relevance: rel})
		}
		for _, ts := range f.TickerSentiment {
			rel, _ := parseFloat(ts.RelevanceScore)
			score, _ := parseFloat(ts.TickerSentimentScore)
			item.TickerSentiments = append(item.TickerSentiments, models.TickerSentiment{
				Ticker:    strings.ToUpper(ts.Ticker),
				Relevance: rel,
				Score:     score,
				Label:     ts.TickerSentimentLabel,
			})
		}
		out = append(out, item)
	}
	return models.Ok(out)
}

func parseNewsTime(s string) string {
	t, err := time.Parse("20060102T150405", s)
	if err != nil {
		return s
	}
	return t.UTC().Format(time.RFC3339)
}

// GetMarketIndices always synthesizes: the provider's index endpoint burns
// quota too fast to be worth a real call.
func (c *ProviderClient) GetMarketIndices(ctx context.Context) models.Result[[]models.MarketIndex] {
	_ = ctx
	return models.Ok(c.synth.Indices())
}

// GetMarketMovers shares the indices decision and stays synthetic.
func (c *ProviderClient) GetMarketMovers(ctx context.Context) models.Result[[]models.MarketMover] {
	_ = ctx
	return models.Ok(c.synth.Movers())
}
