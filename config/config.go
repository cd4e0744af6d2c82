package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type ConfigStruct struct {
	AmazonMusic AmazonMusicConfig
	Search      SearchConfig
	Options     Options
	Sentry      SentryConfig
}

type AmazonMusicConfig struct {
	APIBase        string
	RequestTimeout time.Duration
}

type SearchConfig struct {
	BaseURL     string
	ResultLimit int
}

type SentryConfig struct {
	DSN         string
	Release     string
	Environment string
}

type Options struct {
	Port     string
	LogLevel string
	GinMode  string
}

func (s *SentryConfig) IsEnabled() bool {
	return s.DSN != ""
}

var Config *ConfigStruct

func NewConfig() {
	Config = Load()
}

// Load reads the configuration from the environment
func Load() *ConfigStruct {
	return &ConfigStruct{
		AmazonMusic: AmazonMusicConfig{
			APIBase:        getString("AMAZON_MUSIC_API_BASE", "https://music.amazon.com"),
			RequestTimeout: getRequestTimeout(),
		},
		Search: SearchConfig{
			BaseURL:     getString("SEARCH_BASE_URL", "https://search.yahoo.com/search"),
			ResultLimit: getSearchResultLimit(),
		},
		Options: Options{
			Port:     getString("PORT", "8080"),
			LogLevel: getString("LOG_LEVEL", "info"),
			GinMode:  os.Getenv("GIN_MODE"),
		},
		Sentry: SentryConfig{
			DSN:         os.Getenv("SENTRY_DSN"),
			Release:     os.Getenv("RELEASE"),
			Environment: getString("SENTRY_ENVIRONMENT", "production"),
		},
	}
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getSearchResultLimit() int {
	limitStr := os.Getenv("SEARCH_RESULT_LIMIT")
	if limitStr == "" {
		return 5
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 5
	}
	if limit > 10 {
		return 10
	}
	return limit
}

func getRequestTimeout() time.Duration {
	timeoutStr := os.Getenv("REQUEST_TIMEOUT_MS")
	if timeoutStr == "" {
		return 10 * time.Second
	}
	ms, err := strconv.Atoi(timeoutStr)
	if err != nil || ms <= 0 {
		return 10 * time.Second
	}
	if ms < 100 {
		return 100 * time.Millisecond
	}
	if ms > 60000 {
		return 60 * time.Second // Upstream pages never need longer than a minute
	}
	return time.Duration(ms) * time.Millisecond
}
