// Package config merges configuration for the pool daemon from flags,
// environment variables and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pttransamdriver/amm-master/amm"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	DenomA      string
	DenomB      string
	PoolAccount string

	RatioToleranceDivisor math.Int
	SeedShares            math.Int

	ListenAddr   string
	RateLimit    int // requests per second per client IP
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MetricsEnabled bool
	MetricsAddr    string

	LogLevel  string
	LogFormat string

	SwapLogEnabled bool
	SwapLogDir     string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AMM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("denom-a", "tokena")
	v.SetDefault("denom-b", "tokenb")
	v.SetDefault("pool-account", amm.DefaultPoolAccount)
	v.SetDefault("ratio-tolerance-divisor", amm.DefaultRatioToleranceDivisor.String())
	v.SetDefault("seed-shares", amm.DefaultSeedShares.String())
	v.SetDefault("listen-addr", ":8080")
	v.SetDefault("rate-limit", 20)
	v.SetDefault("cors-origins", []string{"*"})
	v.SetDefault("read-timeout", 10*time.Second)
	v.SetDefault("write-timeout", 10*time.Second)
	v.SetDefault("idle-timeout", 60*time.Second)
	v.SetDefault("metrics-enabled", true)
	v.SetDefault("metrics-addr", ":9090")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "json")
	v.SetDefault("swaplog-enabled", false)
	v.SetDefault("swaplog-dir", "./data/swaplog")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	tolerance, ok := math.NewIntFromString(v.GetString("ratio-tolerance-divisor"))
	if !ok {
		return Config{}, fmt.Errorf("parse ratio-tolerance-divisor %q", v.GetString("ratio-tolerance-divisor"))
	}
	seed, ok := math.NewIntFromString(v.GetString("seed-shares"))
	if !ok {
		return Config{}, fmt.Errorf("parse seed-shares %q", v.GetString("seed-shares"))
	}

	cfg := Config{
		DenomA:                v.GetString("denom-a"),
		DenomB:                v.GetString("denom-b"),
		PoolAccount:           v.GetString("pool-account"),
		RatioToleranceDivisor: tolerance,
		SeedShares:            seed,
		ListenAddr:            v.GetString("listen-addr"),
		RateLimit:             v.GetInt("rate-limit"),
		CORSOrigins:           getStringSlice(v, "cors-origins"),
		ReadTimeout:           v.GetDuration("read-timeout"),
		WriteTimeout:          v.GetDuration("write-timeout"),
		IdleTimeout:           v.GetDuration("idle-timeout"),
		MetricsEnabled:        v.GetBool("metrics-enabled"),
		MetricsAddr:           v.GetString("metrics-addr"),
		LogLevel:              v.GetString("log-level"),
		LogFormat:             v.GetString("log-format"),
		SwapLogEnabled:        v.GetBool("swaplog-enabled"),
		SwapLogDir:            v.GetString("swaplog-dir"),
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations the daemon cannot start with.
func (c Config) Validate() error {
	if c.DenomA == "" || c.DenomB == "" {
		return fmt.Errorf("both pool denoms must be set")
	}
	if c.DenomA == c.DenomB {
		return fmt.Errorf("pool denoms must differ, got %q twice", c.DenomA)
	}
	if c.PoolAccount == "" {
		return fmt.Errorf("pool account must be set")
	}
	if err := c.PoolParams().Validate(); err != nil {
		return err
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen-addr must be set")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate-limit must be positive, got %d", c.RateLimit)
	}
	if c.MetricsEnabled && c.MetricsAddr == "" {
		return fmt.Errorf("metrics-addr must be set when metrics are enabled")
	}
	if c.SwapLogEnabled && c.SwapLogDir == "" {
		return fmt.Errorf("swaplog-dir must be set when the swap log is enabled")
	}
	return nil
}

// PoolParams returns the pool parameters carried by this config.
func (c Config) PoolParams() amm.Params {
	return amm.Params{
		RatioToleranceDivisor: c.RatioToleranceDivisor,
		SeedShares:            c.SeedShares,
	}
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
