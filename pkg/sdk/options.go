package movierec

import (
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	source       string // "csv", "sqlite" or "reader"
	path         string
	table        string
	reader       io.Reader
	missingValue string

	policy         string // "substring" or "fuzzy"
	fuzzyThreshold int
	limit          int
	maxFeatures    int
	stem           bool

	cacheDriver   string // "valkey" or "redis"
	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCSV loads the catalog from a CSV file with title, genres and overview columns.
func WithCSV(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "csv"
		c.path = path
	})
}

// WithSQLite loads the catalog from a SQLite table. An empty table means "movies".
func WithSQLite(path, table string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "sqlite"
		c.path = path
		c.table = table
	})
}

// WithReader loads the catalog from CSV read from r. name labels load errors.
func WithReader(name string, r io.Reader) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "reader"
		c.path = name
		c.reader = r
	})
}

// WithMissingValue sets the placeholder for empty catalog cells.
// Default: "unknown".
func WithMissingValue(v string) Option {
	return optionFunc(func(c *clientConfig) {
		c.missingValue = v
	})
}

// WithSubstring selects case-insensitive substring title matching (default).
func WithSubstring() Option {
	return optionFunc(func(c *clientConfig) {
		c.policy = "substring"
	})
}

// WithFuzzy selects fuzzy title matching. Matches scoring below threshold
// (0..100) are rejected; 0 means the default of 60.
func WithFuzzy(threshold int) Option {
	return optionFunc(func(c *clientConfig) {
		c.policy = "fuzzy"
		c.fuzzyThreshold = threshold
	})
}

// WithLimit overrides how many recommendations a match returns.
// Defaults: 5 for substring, 24 for fuzzy.
func WithLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.limit = n
	})
}

// WithMaxFeatures caps the TF-IDF vocabulary. Default: 5000.
func WithMaxFeatures(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxFeatures = n
	})
}

// WithStemming applies English Snowball stemming before weighting terms.
func WithStemming() Option {
	return optionFunc(func(c *clientConfig) {
		c.stem = true
	})
}

// WithValkeyCache caches answers in a Valkey instance.
func WithValkeyCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithRedisCache caches answers in a Redis instance.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL sets how long cached answers live. Default: 1h.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
