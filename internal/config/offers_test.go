package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOffersConfigIsValid(t *testing.T) {
	cfg := DefaultOffersConfig()
	assert.NoError(t, validateOffersConfig(cfg))
}

func TestValidateOffersConfigRejectsBadWeights(t *testing.T) {
	cfg := DefaultOffersConfig()
	cfg.Weights.Price = 0.5 // sum now exceeds 1.0
	assert.Error(t, validateOffersConfig(cfg))

	cfg = DefaultOffersConfig()
	cfg.Weights.Discount = -0.1
	assert.Error(t, validateOffersConfig(cfg))
}

func TestValidateOffersConfigRejectsEmptyLabels(t *testing.T) {
	cfg := DefaultOffersConfig()
	cfg.CategoryLabels.Cheapest = "  "
	assert.Error(t, validateOffersConfig(cfg))
}

func TestStaticHolderServesSnapshot(t *testing.T) {
	cfg := DefaultOffersConfig()
	cfg.DealCacheTTL = 99
	holder := NewStaticOffersConfigHolder(cfg)
	assert.Equal(t, 99, holder.Current().DealCacheTTL)
}
