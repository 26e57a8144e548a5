package config

import (
	"errors"
	"log"
	"math"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// OffersConfig holds the tunable knobs of the offer resolution engine.
// The scoring weights are contractual with the chain's sales guidelines,
// so they live in a reloadable file rather than in code.
type OffersConfig struct {
	Weights        DealWeights    `mapstructure:"weights"`
	CategoryLabels CategoryLabels `mapstructure:"categoryLabels"`
	DealCacheTTL   int            `mapstructure:"dealCacheTtlSeconds"`
	DealsRateLimit RateLimit      `mapstructure:"dealsRateLimit"`
}

type DealWeights struct {
	Price      float64 `mapstructure:"price"`
	Discount   float64 `mapstructure:"discount"`
	Data       float64 `mapstructure:"data"`
	Commission float64 `mapstructure:"commission"`
	SpotDeal   float64 `mapstructure:"spotDeal"`
}

type CategoryLabels struct {
	Recommended          string `mapstructure:"recommended"`
	MostHardwareDiscount string `mapstructure:"mostHardwareDiscount"`
	Cheapest             string `mapstructure:"cheapest"`
}

type RateLimit struct {
	PerMinute int `mapstructure:"perMinute"`
	Burst     int `mapstructure:"burst"`
}

func DefaultOffersConfig() OffersConfig {
	return OffersConfig{
		Weights: DealWeights{
			Price:      0.20,
			Discount:   0.25,
			Data:       0.15,
			Commission: 0.15,
			SpotDeal:   0.25,
		},
		CategoryLabels: CategoryLabels{
			Recommended:          "recommended",
			MostHardwareDiscount: "most hardware discount",
			Cheapest:             "cheapest option",
		},
		DealCacheTTL: 30,
		DealsRateLimit: RateLimit{
			PerMinute: 120,
			Burst:     20,
		},
	}
}

// OffersConfigHolder hands out the current snapshot and hot-reloads on file change.
type OffersConfigHolder struct {
	current atomic.Value // holds OffersConfig
}

func NewOffersConfigHolder() (*OffersConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("offers")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/salespoint/config") // Volume-mounted config
	v.AddConfigPath("/etc/salespoint")            // System config
	v.AddConfigPath(".")                          // Current directory (dev mode)

	v.SetEnvPrefix("SALESPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultOffersConfig()
	v.SetDefault("offers.weights", defaults.Weights)
	v.SetDefault("offers.categoryLabels", defaults.CategoryLabels)
	v.SetDefault("offers.dealCacheTtlSeconds", defaults.DealCacheTTL)
	v.SetDefault("offers.dealsRateLimit", defaults.DealsRateLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg OffersConfig
	if err := v.UnmarshalKey("offers", &cfg); err != nil {
		return nil, err
	}
	if err := validateOffersConfig(cfg); err != nil {
		return nil, err
	}

	holder := &OffersConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		var next OffersConfig
		if err := v.UnmarshalKey("offers", &next); err != nil {
			log.Printf("offers config reload rejected: %v", err)
			return
		}
		if err := validateOffersConfig(next); err != nil {
			log.Printf("offers config reload rejected: %v", err)
			return
		}
		holder.current.Store(next)
	})

	return holder, nil
}

// Current returns the active offers configuration snapshot.
func (h *OffersConfigHolder) Current() OffersConfig {
	return h.current.Load().(OffersConfig)
}

// NewStaticOffersConfigHolder wraps a fixed configuration. Test seam.
func NewStaticOffersConfigHolder(cfg OffersConfig) *OffersConfigHolder {
	holder := &OffersConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateOffersConfig(cfg OffersConfig) error {
	w := cfg.Weights
	for _, weight := range []float64{w.Price, w.Discount, w.Data, w.Commission, w.SpotDeal} {
		if weight < 0 || weight > 1 {
			return errors.New("offers: each weight must be within [0, 1]")
		}
	}
	sum := w.Price + w.Discount + w.Data + w.Commission + w.SpotDeal
	if math.Abs(sum-1.0) > 1e-9 {
		return errors.New("offers: weights must sum to 1.0")
	}
	labels := cfg.CategoryLabels
	if strings.TrimSpace(labels.Recommended) == "" ||
		strings.TrimSpace(labels.MostHardwareDiscount) == "" ||
		strings.TrimSpace(labels.Cheapest) == "" {
		return errors.New("offers: category labels must not be empty")
	}
	if cfg.DealCacheTTL < 0 {
		return errors.New("offers: dealCacheTtlSeconds must not be negative")
	}
	if cfg.DealsRateLimit.PerMinute <= 0 || cfg.DealsRateLimit.Burst <= 0 {
		return errors.New("offers: dealsRateLimit values must be positive")
	}
	return nil
}
