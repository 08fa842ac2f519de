// Package config provides analysis-engine configuration - NO infrastructure
// URLs.
//
// This module contains ONLY configuration relevant to running the engine's
// own operations:
//   - Strategy selection for subscription inference
//   - Open-question toggles (see DESIGN.md)
//   - Observability behavior
//
// The tracing collector endpoint is passed explicitly by the caller of
// analysis.Engine.EnableTracing and is not held here; the service name it
// reports under is the ServiceName field below.
package config

import "github.com/lucas874/machine-go/engine/subscription"

// AnalysisConfig holds configuration for a run of the analysis engine.
type AnalysisConfig struct {
	// Subscription Inference
	DefaultGranularity subscription.Granularity `json:"default_granularity"`

	// Well-formedness
	//
	// RejectUnreachableTerminal controls whether a node with no path to any
	// terminal state is reported as a confusion-freeness error
	// (StateCanNotReachTerminal). When false, analysis.Engine.Compose filters
	// that error kind out of its report, tolerating protocols that loop
	// forever by design (a server's accept loop, for instance) as long as
	// the looping events involved still pass well-formedness.
	RejectUnreachableTerminal bool `json:"reject_unreachable_terminal"`

	// Projection
	MinimizeProjections bool `json:"minimize_projections"`

	// Observability
	TracingEnabled bool   `json:"tracing_enabled"`
	ServiceName    string `json:"service_name"`
	MetricsEnabled bool   `json:"metrics_enabled"`

	// Logging
	LogLevel string `json:"log_level"`
}

// DefaultAnalysisConfig returns an AnalysisConfig with default values.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		DefaultGranularity: subscription.Fine,

		RejectUnreachableTerminal: true,

		MinimizeProjections: true,

		TracingEnabled: false,
		ServiceName:    "machine-go",
		MetricsEnabled: true,

		LogLevel: "INFO",
	}
}

// AnalysisConfigFromMap creates an AnalysisConfig from a map, falling back
// to defaults for any key that is absent or of an unexpected type. Unknown
// keys are ignored.
func AnalysisConfigFromMap(config map[string]any) *AnalysisConfig {
	c := DefaultAnalysisConfig()

	if v, ok := config["default_granularity"].(string); ok {
		if g, ok := subscription.ParseGranularity(v); ok {
			c.DefaultGranularity = g
		}
	}
	if v, ok := config["reject_unreachable_terminal"].(bool); ok {
		c.RejectUnreachableTerminal = v
	}
	if v, ok := config["minimize_projections"].(bool); ok {
		c.MinimizeProjections = v
	}
	if v, ok := config["tracing_enabled"].(bool); ok {
		c.TracingEnabled = v
	}
	if v, ok := config["service_name"].(string); ok {
		c.ServiceName = v
	}
	if v, ok := config["metrics_enabled"].(bool); ok {
		c.MetricsEnabled = v
	}
	if v, ok := config["log_level"].(string); ok {
		c.LogLevel = v
	}

	return c
}
