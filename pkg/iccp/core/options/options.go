//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package options defines the functional options accepted by the core engine
// constructor and by Process calls.
package options

import (
	"github.com/edushield/iccp/pkg/iccp/audit"
	"github.com/edushield/iccp/pkg/iccp/catalog"
	"github.com/edushield/iccp/pkg/iccp/policy"
)

// EngineOptions defines the configuration options for initializing a context
// engine, including the resource catalog, institution rules, per-user
// overrides, and audit sinks.
type EngineOptions struct {
	Catalog   *catalog.Catalog
	Rules     *policy.InstitutionRules
	Overrides map[string]policy.Override
	Sinks     []audit.Sink
}

// EngineOptionsFunc is a function that modifies EngineOptions.
type EngineOptionsFunc func(*EngineOptions)

// WithCatalog configures the resource catalog for the engine.  The catalog
// is frozen during engine construction if the caller has not already frozen
// it.
func WithCatalog(c *catalog.Catalog) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.Catalog = c
	}
}

// WithRules configures the institution rule set for the engine.
func WithRules(rules policy.InstitutionRules) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.Rules = &rules
	}
}

// WithOverrides configures per-user overrides, keyed by user id.  Overrides
// can only narrow access; they never grant it.
func WithOverrides(overrides map[string]policy.Override) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.Overrides = overrides
	}
}

// WithSinks replaces the default audit sinks (durable file log plus console
// echo) with the given set.  The in-memory query sink is always present and
// need not be listed.
func WithSinks(sinks ...audit.Sink) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.Sinks = sinks
	}
}

// ProcessOptions represents configuration options for Process operations.
type ProcessOptions struct {
	Probe bool
}

// ProcessOptionsFunc is a function that modifies ProcessOptions.
type ProcessOptionsFunc func(*ProcessOptions)

// SetProbeMode configures the probe mode for Process operations.  Probe mode
// evaluates policy and builds the context packet but does not record an
// audit entry, which is helpful for showing a user what they could access
// without the audit trail suggesting they tried.
//
// Probe mode is disabled by default.  Use with caution and only in places
// where you are sure that the decision doesn't require logging.
func SetProbeMode(probe bool) ProcessOptionsFunc {
	return func(o *ProcessOptions) {
		o.Probe = probe
	}
}
