package cache

import "time"

// Option configures a Store.
type Option func(*Config)

// Config holds the settings of both stores. Each store reads only its own fields.
type Config struct {
	// redis
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	PoolTimeout  time.Duration
	PingTimeout  time.Duration
	Prefix       string

	// memory
	MaxEntries int
	Sweep      time.Duration
	Now        func() time.Time
}

func defaultConfig() *Config {
	return &Config{
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		PoolTimeout:  30 * time.Second,
		PingTimeout:  5 * time.Second,
		Prefix:       "finsignal",
		MaxEntries:   1000,
		Sweep:        5 * time.Minute,
		Now:          time.Now,
	}
}

// WithAddr sets the Redis host:port.
func WithAddr(addr string) Option {
	return func(c *Config) { c.Addr = addr }
}

// WithAuth sets the Redis password and database number.
func WithAuth(password string, db int) Option {
	return func(c *Config) {
		c.Password = password
		c.DB = db
	}
}

func WithPool(size, minIdle int, timeout time.Duration) Option {
	return func(c *Config) {
		c.PoolSize = size
		c.MinIdleConns = minIdle
		c.PoolTimeout = timeout
	}
}

func WithPingTimeout(d time.Duration) Option {
	return func(c *Config) { c.PingTimeout = d }
}

// WithPrefix namespaces every Redis key as "prefix:key".
func WithPrefix(prefix string) Option {
	return func(c *Config) { c.Prefix = prefix }
}

// WithMaxEntries bounds the memory store; the least recently used key is evicted first.
func WithMaxEntries(n int) Option {
	return func(c *Config) { c.MaxEntries = n }
}

// WithSweep sets how often the memory store drops expired entries.
// Non-positive intervals keep the default.
func WithSweep(interval time.Duration) Option {
	return func(c *Config) {
		if interval > 0 {
			c.Sweep = interval
		}
	}
}

// WithClock overrides the memory store clock.
func WithClock(now func() time.Time) Option {
	return func(c *Config) { c.Now = now }
}
