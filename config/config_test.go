package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucas874/machine-go/config"
	"github.com/lucas874/machine-go/engine/subscription"
)

func TestDefaultAnalysisConfig(t *testing.T) {
	c := config.DefaultAnalysisConfig()
	assert.Equal(t, subscription.Fine, c.DefaultGranularity)
	assert.True(t, c.RejectUnreachableTerminal)
	assert.True(t, c.MinimizeProjections)
	assert.False(t, c.TracingEnabled)
	assert.Equal(t, "machine-go", c.ServiceName)
	assert.True(t, c.MetricsEnabled)
	assert.Equal(t, "INFO", c.LogLevel)
}

func TestAnalysisConfigFromMapOverridesGivenKeys(t *testing.T) {
	c := config.AnalysisConfigFromMap(map[string]any{
		"default_granularity":        "coarse",
		"reject_unreachable_terminal": false,
		"minimize_projections":       false,
		"tracing_enabled":            true,
		"service_name":               "custom-service",
		"metrics_enabled":            false,
		"log_level":                  "DEBUG",
	})

	assert.Equal(t, subscription.Coarse, c.DefaultGranularity)
	assert.False(t, c.RejectUnreachableTerminal)
	assert.False(t, c.MinimizeProjections)
	assert.True(t, c.TracingEnabled)
	assert.Equal(t, "custom-service", c.ServiceName)
	assert.False(t, c.MetricsEnabled)
	assert.Equal(t, "DEBUG", c.LogLevel)
}

func TestAnalysisConfigFromMapFallsBackOnUnknownOrWrongTypedKeys(t *testing.T) {
	c := config.AnalysisConfigFromMap(map[string]any{
		"default_granularity": "not_a_real_strategy",
		"metrics_enabled":     "not_a_bool",
		"unknown_key":         42,
	})

	def := config.DefaultAnalysisConfig()
	assert.Equal(t, def.DefaultGranularity, c.DefaultGranularity)
	assert.Equal(t, def.MetricsEnabled, c.MetricsEnabled)
}

func TestAnalysisConfigFromMapEmptyMapReturnsDefaults(t *testing.T) {
	c := config.AnalysisConfigFromMap(map[string]any{})
	assert.Equal(t, config.DefaultAnalysisConfig(), c)
}
