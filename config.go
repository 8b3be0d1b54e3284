package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hjson/hjson-go"

	"github.com/9seconds/ipinfo/infolib"
)

const (
	DefaultHTTPTimeout = 10 * time.Second
	DefaultCacheTTL    = time.Hour
)

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Listen          string           `json:"listen"`
	WorkerPoolSize  uint             `json:"worker_pool_size"`
	ProviderTimeout duration         `json:"provider_timeout"`
	BasicAuth       configBasicAuth  `json:"basic_auth"`
	Cache           configCache      `json:"cache"`
	Providers       []configProvider `json:"providers"`
}

func (c config) GetListen() string {
	return c.Listen
}

func (c config) GetWorkerPoolSize() int {
	return int(c.WorkerPoolSize)
}

func (c config) GetProviderTimeout() time.Duration {
	return c.ProviderTimeout.Duration
}

func (c config) GetBasicAuth() configBasicAuth {
	return c.BasicAuth
}

func (c config) GetCache() configCache {
	return c.Cache
}

// GetProviders returns explicitly configured providers. Empty list
// means default providers in default order.
func (c config) GetProviders() []configProvider {
	return c.Providers
}

type configBasicAuth struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func (c configBasicAuth) Enabled() bool {
	return c.User != "" || c.Password != ""
}

type configCache struct {
	Size uint     `json:"size"`
	TTL  duration `json:"ttl"`
}

func (c configCache) Enabled() bool {
	return c.Size > 0
}

func (c configCache) GetTTL() time.Duration {
	if c.TTL.Duration == 0 {
		return DefaultCacheTTL
	}

	return c.TTL.Duration
}

type configProvider struct {
	Name                               string   `json:"name"`
	HTTPTimeout                        duration `json:"http_timeout"`
	RateLimitInterval                  duration `json:"rate_limit_interval"`
	RateLimitBurst                     uint     `json:"rate_limit_burst"`
	CircuitBreakerOpenThreshold        uint32   `json:"circuit_breaker_open_threshold"`
	CircuitBreakerHalfOpenTimeout      duration `json:"circuit_breaker_half_open_timeout"`
	CircuitBreakerResetFailuresTimeout duration `json:"circuit_breaker_reset_failures_timeout"`
}

func (c configProvider) GetName() string {
	return c.Name
}

func (c configProvider) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return DefaultHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

func (c configProvider) GetHTTPClientOpts() infolib.HTTPClientOpts {
	return infolib.HTTPClientOpts{
		UserAgent:                          "ipinfo/" + version,
		RateLimitInterval:                  c.RateLimitInterval.Duration,
		RateLimitBurst:                     int(c.RateLimitBurst),
		CircuitBreakerOpenThreshold:        c.CircuitBreakerOpenThreshold,
		CircuitBreakerHalfOpenTimeout:      c.CircuitBreakerHalfOpenTimeout.Duration,
		CircuitBreakerResetFailuresTimeout: c.CircuitBreakerResetFailuresTimeout.Duration,
	}
}

func parseConfig(path string) (*config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	return parseConfigBytes(content)
}

func parseConfigBytes(content []byte) (*config, error) {
	conf := config{}
	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return nil, fmt.Errorf("cannot parse json: %w", err)
	}

	rawBytes, _ := json.Marshal(rawMap)

	if err := json.Unmarshal(rawBytes, &conf); err != nil {
		return nil, fmt.Errorf("incorrect config: %w", err)
	}

	if _, _, err := net.SplitHostPort(conf.Listen); err != nil {
		return nil, fmt.Errorf("incorrect host:port for listen: %w", err)
	}

	seenProviderNames := map[string]struct{}{}

	for _, v := range conf.Providers {
		if _, ok := seenProviderNames[v.GetName()]; ok {
			return nil, fmt.Errorf("name %s is duplicated", v.GetName())
		}

		seenProviderNames[v.GetName()] = struct{}{}
	}

	return &conf, nil
}
