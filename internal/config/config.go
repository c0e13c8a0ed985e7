package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             string
	ProviderAPIKey   string
	ProviderBaseURL  string
	RedisURL         string
	CacheTTL         time.Duration
	RequestTimeout   time.Duration
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RateLimitPerMin  int
	StatePath        string
	SymbolsFile      string
	SynthSeed        int64
	RefreshEvery     time.Duration
	MaxRecent        int
}

func Load() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		ProviderAPIKey:   getEnv("ALPHAVANTAGE_API_KEY", ""),
		ProviderBaseURL:  getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		CacheTTL:         getEnvDuration("CACHE_TTL", 60*time.Second),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 12*time.Second),
		RetryMaxAttempts: getEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelay:   getEnvMillis("RETRY_BASE_DELAY_MS", 1000*time.Millisecond),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MIN", 120),
		StatePath:        getEnv("STATE_PATH", "tickerdeck.db"),
		SymbolsFile:      getEnv("SYMBOLS_FILE", ""),
		SynthSeed:        getEnvInt64("SYNTH_SEED", 0),
		RefreshEvery:     getEnvDuration("WATCHLIST_REFRESH", 60*time.Second),
		MaxRecent:        getEnvInt("MAX_RECENT_SEARCHES", 10),
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return i
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(i) * time.Second
}

func getEnvMillis(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(i) * time.Millisecond
}
