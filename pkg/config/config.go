package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level      string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic"`
		Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output     string `yaml:"output" default:"stdout"`
		TimeFormat string `yaml:"time_format" default:"2006-01-02T15:04:05Z07:00"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
		AnalyzeRate     float64       `yaml:"analyze_rate" default:"1" validate:"gt=0"`
		AnalyzeBurst    int           `yaml:"analyze_burst" default:"10" validate:"gte=1"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Schedule struct {
		Interval time.Duration `yaml:"interval" default:"15m" validate:"gt=0"`
		Timeout  time.Duration `yaml:"timeout" default:"5m" validate:"gt=0"`
	} `yaml:"schedule"`
	Instruments []string `yaml:"instruments" validate:"required,min=1,dive,required"`
	Strategy    Strategy `yaml:"strategy"`
	Kafka       struct {
		Enabled        bool     `yaml:"enabled" default:"true"`
		Brokers        []string `yaml:"brokers"`
		SignalsTopic   string   `yaml:"signals_topic" default:"finsignal.signals"`
		AttentionTopic string   `yaml:"attention_topic" default:"finsignal.attention"`
		RequiredAcks   int      `yaml:"required_acks" default:"-1"`
		Compression    string   `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
		Producer       struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"5"`
			Linger       time.Duration `yaml:"linger" default:"10ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"default"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		BarsTable        string        `yaml:"bars_table" default:"bars"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
	Positions struct {
		URL      string        `yaml:"url"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"30s"`
		Retries  int           `yaml:"retries" default:"2" validate:"gte=0,lte=10"`
	} `yaml:"positions"`
	Redis struct {
		Enabled      bool          `yaml:"enabled"`
		Addr         string        `yaml:"addr" default:"localhost:6379"`
		Password     string        `yaml:"password"`
		DB           int           `yaml:"db"`
		PoolSize     int           `yaml:"pool_size" default:"10"`
		MinIdleConns int           `yaml:"min_idle_conns" default:"2"`
		PoolTimeout  time.Duration `yaml:"pool_timeout" default:"30s"`
		KeyPrefix    string        `yaml:"key_prefix" default:"finsignal"`
	} `yaml:"redis"`
}

// TimeframeWeight is one configured timeframe.
type TimeframeWeight struct {
	Label   string  `yaml:"label" validate:"required"`
	Weight  float64 `yaml:"weight" validate:"gt=0"`
	MinBars int     `yaml:"min_bars" default:"20" validate:"gte=1"`
}

// Strategy holds the tunable scoring and filtering parameters.
type Strategy struct {
	Timeframes        []TimeframeWeight `yaml:"timeframes" validate:"required,min=1,dive"`
	TriggerTimeframe  string            `yaml:"trigger_timeframe" validate:"required"`
	BuyThreshold      float64           `yaml:"buy_threshold" default:"0.5"`
	SellThreshold     float64           `yaml:"sell_threshold" default:"-0.5"`
	ATRPeriod         int               `yaml:"atr_period" default:"14" validate:"gte=1"`
	RewardMultiplier  float64           `yaml:"reward_multiplier" default:"1.5" validate:"gt=0"`
	StopMultiplier    float64           `yaml:"stop_multiplier" default:"1.0" validate:"gt=0"`
	AgreementBoost    float64           `yaml:"agreement_boost" default:"3.0" validate:"gte=1"`
	MaxPositions      int               `yaml:"max_positions" default:"5" validate:"gte=1"`
	MinStopDistance   float64           `yaml:"min_stop_distance" default:"0.003" validate:"gte=0"`
	MaxStopDistance   float64           `yaml:"max_stop_distance" default:"0.10" validate:"gt=0"`
	MinTimeframes     int               `yaml:"min_timeframes" default:"3" validate:"gte=1"`
	AttentionHold     time.Duration     `yaml:"attention_hold" default:"5h" validate:"gt=0"`
	Workers           int               `yaml:"workers" default:"4" validate:"gte=1"`
	HistoryBars       int               `yaml:"history_bars" default:"150" validate:"gte=20"`
	BandScoring       bool              `yaml:"band_scoring" default:"true"`
	DivergenceScoring bool              `yaml:"divergence_scoring" default:"true"`
	TrendAverage      string            `yaml:"trend_average" default:"sma" validate:"oneof=sma ema"`
}

// Parse applies defaults, decodes YAML over them and validates.
func Parse(b []byte) (*Config, error) {
	c, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A .env file next to the working directory is loaded first when present.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := decode(b)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("INSTRUMENTS"); v != "" {
		c.Instruments = splitList(v)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.SignalsTopic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// decode sets defaults before unmarshalling so explicit zero values
// (enabled: false) survive.
func decode(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for i := range c.Strategy.Timeframes {
		if err := defaults.Set(&c.Strategy.Timeframes[i]); err != nil {
			return nil, fmt.Errorf("apply defaults: %w", err)
		}
	}
	return &c, nil
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	s := c.Strategy
	if s.BuyThreshold <= s.SellThreshold {
		return fmt.Errorf("%w: strategy.buy_threshold (%v) must exceed sell_threshold (%v)", ErrInvalid, s.BuyThreshold, s.SellThreshold)
	}
	if s.MinStopDistance >= s.MaxStopDistance {
		return fmt.Errorf("%w: strategy.min_stop_distance must be below max_stop_distance", ErrInvalid)
	}
	if s.MinTimeframes > len(s.Timeframes) {
		return fmt.Errorf("%w: strategy.min_timeframes (%d) exceeds configured timeframes (%d)", ErrInvalid, s.MinTimeframes, len(s.Timeframes))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka.brokers cannot be empty when kafka is enabled", ErrInvalid)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
