package models

// TimeRange is the chart window requested by the dashboard. It controls both
// the provider query granularity and the date window of the returned series.
type TimeRange string

const (
	Range1D  TimeRange = "1D"
	Range5D  TimeRange = "5D"
	Range1M  TimeRange = "1M"
	Range3M  TimeRange = "3M"
	Range6M  TimeRange = "6M"
	Range1Y  TimeRange = "1Y"
	Range5Y  TimeRange = "5Y"
	RangeMax TimeRange = "MAX"
)

var rangeDays = map[TimeRange]int{
	Range1D:  1,
	Range5D:  5,
	Range1M:  30,
	Range3M:  90,
	Range6M:  180,
	Range1Y:  365,
	Range5Y:  1825,
	RangeMax: 2555,
}

func (r TimeRange) Valid() bool {
	_, ok := rangeDays[r]
	return ok
}

// Days returns the calendar-day span of the range.
func (r TimeRange) Days() int {
	if d, ok := rangeDays[r]; ok {
		return d
	}
	return rangeDays[Range1M]
}

type Granularity string

const (
	GranularityIntraday Granularity = "intraday"
	GranularityDaily    Granularity = "daily"
	GranularityWeekly   Granularity = "weekly"
)

// Granularity maps a range onto the provider series resolution: intraday for
// a single day, daily up to six months, weekly beyond that.
func (r TimeRange) Granularity() Granularity {
	switch r {
	case Range1D:
		return GranularityIntraday
	case Range1Y, Range5Y, RangeMax:
		return GranularityWeekly
	default:
		return GranularityDaily
	}
}

func ParseTimeRange(s string) (TimeRange, bool) {
	r := TimeRange(s)
	return r, r.Valid()
}

// ChartType is the chart rendering preference kept in the client state.
type ChartType string

const (
	ChartLine        ChartType = "line"
	ChartCandlestick ChartType = "candlestick"
	ChartVolume      ChartType = "volume"
)

func (t ChartType) Valid() bool {
	switch t {
	case ChartLine, ChartCandlestick, ChartVolume:
		return true
	}
	return false
}

// Result is the envelope every provider-client call resolves with. Error is a
// pointer so a clean result serializes the field as null.
type Result[T any] struct {
	Data    T       `json:"data"`
	Error   *string `json:"error"`
	Success bool    `json:"success"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Data: data, Success: true}
}

func Fail[T any](msg string) Result[T] {
	return Result[T]{Error: &msg, Success: false}
}

type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	PreviousClose float64 `json:"previousClose"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	MarketCap     float64 `json:"marketCap"`
	LastUpdated   string  `json:"lastUpdated"`
}

type SearchResult struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Region      string  `json:"region"`
	MarketOpen  string  `json:"marketOpen"`
	MarketClose string  `json:"marketClose"`
	Timezone    string  `json:"timezone"`
	Currency    string  `json:"currency"`
	MatchScore  float64 `json:"matchScore"`
}

// CompanyOverview carries company identity plus fundamentals. The numeric
// fields are pointers because the provider may omit any of them; a nil value
// renders as "not applicable" downstream, never as zero.
type CompanyOverview struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Exchange      string `json:"exchange"`
	Currency      string `json:"currency"`
	Country       string `json:"country"`
	Sector        string `json:"sector"`
	Industry      string `json:"industry"`
	Address       string `json:"address"`
	FiscalYearEnd string `json:"fiscalYearEnd"`
	LatestQuarter string `json:"latestQuarter"`

	MarketCap                  *float64 `json:"marketCap"`
	EBITDA                     *float64 `json:"ebitda"`
	PERatio                    *float64 `json:"peRatio"`
	PEGRatio                   *float64 `json:"pegRatio"`
	BookValue                  *float64 `json:"bookValue"`
	DividendPerShare           *float64 `json:"dividendPerShare"`
	DividendYield              *float64 `json:"dividendYield"`
	EPS                        *float64 `json:"eps"`
	RevenuePerShareTTM         *float64 `json:"revenuePerShareTTM"`
	ProfitMargin               *float64 `json:"profitMargin"`
	OperatingMarginTTM         *float64 `json:"operatingMarginTTM"`
	ReturnOnAssetsTTM          *float64 `json:"returnOnAssetsTTM"`
	ReturnOnEquityTTM          *float64 `json:"returnOnEquityTTM"`
	RevenueTTM                 *float64 `json:"revenueTTM"`
	GrossProfitTTM             *float64 `json:"grossProfitTTM"`
	DilutedEPSTTM              *float64 `json:"dilutedEPSTTM"`
	QuarterlyEarningsGrowthYOY *float64 `json:"quarterlyEarningsGrowthYOY"`
	QuarterlyRevenueGrowthYOY  *float64 `json:"quarterlyRevenueGrowthYOY"`
	AnalystTargetPrice         *float64 `json:"analystTargetPrice"`
	TrailingPE                 *float64 `json:"trailingPE"`
	ForwardPE                  *float64 `json:"forwardPE"`
	PriceToSalesRatioTTM       *float64 `json:"priceToSalesRatioTTM"`
	PriceToBookRatio           *float64 `json:"priceToBookRatio"`
	EVToRevenue                *float64 `json:"evToRevenue"`
	EVToEBITDA                 *float64 `json:"evToEbitda"`
	Beta                       *float64 `json:"beta"`
	High52Week                 *float64 `json:"week52High"`
	Low52Week                  *float64 `json:"week52Low"`
	MovingAverage50Day         *float64 `json:"movingAverage50Day"`
	MovingAverage200Day        *float64 `json:"movingAverage200Day"`
	SharesOutstanding          *float64 `json:"sharesOutstanding"`

	DividendDate   string `json:"dividendDate"`
	ExDividendDate string `json:"exDividendDate"`
}

// ChartPoint is one trading period of an OHLCV series. Date is YYYY-MM-DD for
// daily and weekly periods; intraday periods carry a trailing timestamp and
// stay lexicographically sortable.
type ChartPoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type TopicRelevance struct {
	Topic     string  `json:"topic"`
	Relevance float64 `json:"relevance"`
}

type TickerSentiment struct {
	Ticker    string  `json:"ticker"`
	Relevance float64 `json:"relevance"`
	Score     float64 `json:"score"`
	Label     string  `json:"label"`
}

type NewsItem struct {
	Title            string            `json:"title"`
	URL              string            `json:"url"`
	PublishedAtISO   string            `json:"publishedAtISO"`
	Authors          []string          `json:"authors"`
	Summary          string            `json:"summary"`
	Source           string            `json:"source"`
	Topics           []TopicRelevance  `json:"topics"`
	SentimentScore   float64           `json:"sentimentScore"`
	SentimentLabel   string            `json:"sentimentLabel"`
	TickerSentiments []TickerSentiment `json:"tickerSentiments"`
}

type MarketIndex struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	LastUpdated   string  `json:"lastUpdated"`
}

type MarketMover struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	LastUpdated   string  `json:"lastUpdated"`
}

// WatchlistItem is unique by symbol and never mutated in place; updates
// replace the entry wholesale.
type WatchlistItem struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	AddedAt       string   `json:"addedAt"`
	Price         *float64 `json:"price,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
}

// ClientState is owned exclusively by the state store; everything else reads
// snapshots and mutates through the store methods.
type ClientState struct {
	Watchlist         []WatchlistItem `json:"watchlist"`
	RecentSearches    []string        `json:"recentSearches"`
	SelectedTimeRange TimeRange       `json:"selectedTimeRange"`
	SelectedChartType ChartType       `json:"selectedChartType"`
	IsDarkMode        bool            `json:"isDarkMode"`
}

// External API responses

type HealthResponse struct {
	Ok          bool            `json:"ok"`
	TsISO       string          `json:"tsISO"`
	Service     string          `json:"service"`
	Version     string          `json:"version,omitempty"`
	DataMissing []string        `json:"data_missing"`
	Env         map[string]bool `json:"env"`
	Features    map[string]bool `json:"features"`
}

type QuoteDiagnostics struct {
	Success   bool    `json:"success"`
	Data      *Quote  `json:"data"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
	Provider  string  `json:"provider"`
}

type NewsPageResponse struct {
	TsISO    string     `json:"tsISO"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	Total    int        `json:"total"`
	Topic    string     `json:"topic"`
	Items    []NewsItem `json:"items"`
}
