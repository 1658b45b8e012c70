package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port string

	Workers     int
	CallTimeout time.Duration
	RetryMax    int
	BackoffBase time.Duration
	BackoffCap  time.Duration
	Deadline    time.Duration
	TupleCap    int
	AirportTopK int

	SourceRPS   float64
	SourceBurst int

	CacheBackend string
	CacheTTL     time.Duration
	RedisHost    string
	RedisPort    string
	RedisDB      int

	AmadeusURL          string
	AmadeusClientID     string
	AmadeusClientSecret string
	Currency            string
}

func Load() *Config {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("workers", 4)
	v.SetDefault("call_timeout", "8s")
	v.SetDefault("retry_max", 2)
	v.SetDefault("backoff_base", "200ms")
	v.SetDefault("backoff_cap", "2s")
	v.SetDefault("deadline", "25s")
	v.SetDefault("tuple_cap", 64)
	v.SetDefault("airport_top_k", 3)
	v.SetDefault("source_rps", 10.0)
	v.SetDefault("source_burst", 20)
	v.SetDefault("cache_backend", "memory")
	v.SetDefault("cache_ttl", "5m")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("amadeus_url", "https://test.api.amadeus.com")
	v.SetDefault("currency", "USD")

	if path := os.Getenv("FAREOPT_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/fareopt")
	}

	if err := v.ReadInConfig(); err != nil {
		log.Printf("no config file found, using defaults + env vars: %v", err)
	}

	v.SetEnvPrefix("FAREOPT")
	v.AutomaticEnv()

	return &Config{
		Port:                v.GetString("port"),
		Workers:             v.GetInt("workers"),
		CallTimeout:         v.GetDuration("call_timeout"),
		RetryMax:            v.GetInt("retry_max"),
		BackoffBase:         v.GetDuration("backoff_base"),
		BackoffCap:          v.GetDuration("backoff_cap"),
		Deadline:            v.GetDuration("deadline"),
		TupleCap:            v.GetInt("tuple_cap"),
		AirportTopK:         v.GetInt("airport_top_k"),
		SourceRPS:           v.GetFloat64("source_rps"),
		SourceBurst:         v.GetInt("source_burst"),
		CacheBackend:        v.GetString("cache_backend"),
		CacheTTL:            v.GetDuration("cache_ttl"),
		RedisHost:           v.GetString("redis_host"),
		RedisPort:           v.GetString("redis_port"),
		RedisDB:             v.GetInt("redis_db"),
		AmadeusURL:          v.GetString("amadeus_url"),
		AmadeusClientID:     v.GetString("amadeus_client_id"),
		AmadeusClientSecret: v.GetString("amadeus_client_secret"),
		Currency:            v.GetString("currency"),
	}
}
