package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, "Willys Växjö I11", c.WillysStore)
	assert.Equal(t, 6, c.ScrollStableRounds)
	assert.Equal(t, 450*time.Millisecond, c.ScrollSettle)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OFFERSCRAP_WILLYS_STORE", "Willys Alvesta")
	t.Setenv("OFFERSCRAP_HEADLESS", "false")
	t.Setenv("OFFERSCRAP_RATE_PER_SECOND", "2.5")
	t.Setenv("OFFERSCRAP_SCROLL_STABLE_ROUNDS", "3")
	t.Setenv("OFFERSCRAP_SCROLL_SETTLE", "200")
	t.Setenv("OFFERSCRAP_CARD_TIMEOUT", "20s")
	t.Setenv("PORT", "9090")
	t.Setenv("OFFERSCRAP_LOG_LEVEL", " ")

	c := DefaultConfig()
	require.NoError(t, c.LoadFromEnv())

	assert.Equal(t, "Willys Alvesta", c.WillysStore)
	assert.False(t, c.Headless)
	assert.InDelta(t, 2.5, c.RatePerSecond, 1e-9)
	assert.Equal(t, 3, c.ScrollStableRounds)
	assert.Equal(t, 200*time.Millisecond, c.ScrollSettle)
	assert.Equal(t, 20*time.Second, c.CardTimeout)
	assert.Equal(t, "9090", c.HTTPPort)
	assert.Equal(t, "info", c.LogLevel, "blank values are ignored")
	assert.NoError(t, c.Validate())
}

func TestLoadFromEnv_BadValues(t *testing.T) {
	t.Setenv("OFFERSCRAP_RATE_BURST", "many")
	t.Setenv("OFFERSCRAP_NAV_TIMEOUT", "soon")

	err := DefaultConfig().LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OFFERSCRAP_RATE_BURST")
	assert.Contains(t, err.Error(), "OFFERSCRAP_NAV_TIMEOUT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"delay profile", func(c *Config) { c.DelayProfile = "turbo" }, "OFFERSCRAP_DELAY_PROFILE"},
		{"rate", func(c *Config) { c.RatePerSecond = 0 }, "OFFERSCRAP_RATE_PER_SECOND"},
		{"store", func(c *Config) { c.WillysStore = "" }, "OFFERSCRAP_WILLYS_STORE"},
		{"max rounds below stable rounds", func(c *Config) { c.ScrollMaxRounds = 2 }, "OFFERSCRAP_SCROLL_MAX_ROUNDS"},
		{"decodo without credentials", func(c *Config) { c.ProxyMode = "decodo" }, "DECODO_USERNAME"},
		{"custom proxy without url", func(c *Config) { c.ProxyMode = "custom" }, "OFFERSCRAP_PROXY_URL"},
		{"port", func(c *Config) { c.HTTPPort = "http" }, "PORT"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "OFFERSCRAP_LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadFromEnv_IgnoresUnrelatedVariables(t *testing.T) {
	t.Setenv("OFFERSCRAP_UNKNOWN_SETTING", "x")
	t.Setenv("HOME_TOWN", "Växjö")
	t.Setenv("PORT", "")

	c := DefaultConfig()
	require.NoError(t, c.LoadFromEnv())
	assert.Equal(t, DefaultConfig(), c)
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("1500")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, err = parseDuration("2m")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	_, err = parseDuration("soon")
	assert.Error(t, err)
}
