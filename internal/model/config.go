package model

import "time"

// Config holds the complete pipeline configuration.
type Config struct {
	Crawl    CrawlConfig    `yaml:"crawl" mapstructure:"crawl"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Filter   FilterConfig   `yaml:"filter" mapstructure:"filter"`
	Analyzer AnalyzerConfig `yaml:"analyzer" mapstructure:"analyzer"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// CrawlConfig controls the pagination loop and the review-list request.
type CrawlConfig struct {
	MaxPages      int           `yaml:"max_pages" mapstructure:"max_pages"`
	PageDelay     time.Duration `yaml:"page_delay" mapstructure:"page_delay"`
	CountryCode   string        `yaml:"country_code" mapstructure:"country_code"`
	Lang          string        `yaml:"lang" mapstructure:"lang"`
	Sort          string        `yaml:"sort" mapstructure:"sort"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// HTTPConfig controls the page fetcher.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	RetryCount   int           `yaml:"retry_count" mapstructure:"retry_count"`
	RetryDelay   time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// FilterConfig controls review admission.
type FilterConfig struct {
	Languages  []string `yaml:"languages" mapstructure:"languages"`
	MinTextLen int      `yaml:"min_text_len" mapstructure:"min_text_len"`
}

// AnalyzerConfig selects and configures the text-analytics provider.
type AnalyzerConfig struct {
	Provider      string        `yaml:"provider" mapstructure:"provider"`
	Model         string        `yaml:"model" mapstructure:"model"`
	APIKey        string        `yaml:"-" mapstructure:"-"`
	BaseURL       string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxConcurrent int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// CacheConfig controls the slug-keyed artifact store.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults. MaxPages is deliberately
// small: each run hits the source site once per page.
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlConfig{
			MaxPages:      2,
			PageDelay:     2 * time.Second,
			CountryCode:   "in",
			Lang:          "en-us",
			Sort:          "f_recent_desc",
			RespectRobots: true,
		},
		HTTP: HTTPConfig{
			Timeout:      20 * time.Second,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
			RetryCount:   3,
			RetryDelay:   time.Second,
			MaxBodyBytes: 2_000_000,
		},
		Filter: FilterConfig{
			Languages:  []string{"en", "en-us"},
			MinTextLen: 5,
		},
		Analyzer: AnalyzerConfig{
			Provider:      "openai",
			Model:         "",
			Timeout:       30 * time.Second,
			MaxConcurrent: 1,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "cache",
		},
		Output: OutputConfig{},
	}
}
