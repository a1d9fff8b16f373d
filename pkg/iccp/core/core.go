//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package core provides the primary interface for the Institutional Context
// Control Plane (ICCP), the policy decision and audit layer that governs
// what institutional data an AI chat backend may disclose.
//
// Every chat request flows through [Engine.Process]: the authenticated
// principal is resolved into an identity scope, the policy engine produces
// one decision per requested resource, the decisions are assembled into a
// context packet with a verifiable policy hash, and a sanitized audit entry
// is recorded asynchronously.
//
// # Quick Start
//
// Create an engine with default options (built-in university catalog,
// durable file audit log):
//
//	eng, err := core.NewEngine()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
// Process a request:
//
//	pkt, err := eng.Process(ctx, identity.Principal{
//	    UserID: "t1",
//	    Role:   "Teacher",
//	}, []string{"grades", "financial_info:owner=t1"})
//
// # Configuration
//
// The engine supports various configuration options via functional options:
//
//	eng, err := core.NewEngine(
//	    options.WithCatalog(cat),
//	    options.WithRules(rules),
//	    options.WithSinks(audit.NewConsoleSink()),
//	)
//
// # Probe Mode
//
// For capability discovery without impacting the audit trail, use probe mode:
//
//	pkt, err := eng.Process(ctx, principal, resources, options.SetProbeMode(true))
//
// See the [options] package for all available configuration options.
package core

import (
	"context"
	"sort"
	"time"

	"github.com/edushield/iccp/internal/logging"
	"github.com/edushield/iccp/pkg/iccp/audit"
	"github.com/edushield/iccp/pkg/iccp/catalog"
	"github.com/edushield/iccp/pkg/iccp/config"
	"github.com/edushield/iccp/pkg/iccp/core/options"
	"github.com/edushield/iccp/pkg/iccp/identity"
	"github.com/edushield/iccp/pkg/iccp/model"
	"github.com/edushield/iccp/pkg/iccp/packet"
	"github.com/edushield/iccp/pkg/iccp/policy"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var logger = logging.GetLogger("iccp.core")

const agent = "core"

// Engine is the primary interface for producing context packets.
//
// Implementations of Engine are safe for concurrent use by multiple
// goroutines.
type Engine interface {
	// Process evaluates one chat request and returns its context packet.
	//
	// Requested resource names may carry an ownership qualifier
	// ("financial_info:owner=t1", "classes:owner=self").  Denials appear
	// inside the packet; an error is returned only for invalid principals.
	//
	// Unless probe mode is set, a sanitized audit entry is enqueued before
	// Process returns.  Audit recording never blocks or fails the request;
	// the boolean reports whether the entry was accepted (always false in
	// probe mode).
	Process(ctx context.Context, principal identity.Principal, requestedResources []string, procOptions ...options.ProcessOptionsFunc) (*model.ContextPacket, bool, error)

	// AuditLog returns the in-memory audit sink backing operator queries
	// (fetch by trace id, list recent).
	AuditLog() *audit.MemorySink

	// Catalog returns the resource catalog used for decisions.
	Catalog() *catalog.Catalog

	// Close drains the audit pipeline and releases sink resources.  The
	// engine must not be used after Close.
	Close()
}

// EngineImpl is the default implementation of the [Engine] interface.
//
// Use [NewEngine] to create a properly initialized instance.
type EngineImpl struct {
	catalog  *catalog.Catalog
	policy   *policy.Engine
	pipeline *audit.Pipeline
	memory   *audit.MemorySink
}

// NewEngine creates and initializes a new [Engine] instance.
//
// By default, the engine uses the built-in university catalog (or the file
// named by the catalog.path config key), the default institution rules, a
// durable file audit log, and a console audit echo.  An in-memory audit
// sink for operator queries is always attached.
//
// NewEngine loads configuration from environment variables and config files
// before initializing the engine.  See the [config] package for details.
func NewEngine(engineOptions ...options.EngineOptionsFunc) (Engine, error) {
	if err := config.Load(); err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}

	opts := &options.EngineOptions{}
	for _, o := range engineOptions {
		o(opts)
	}

	cat := opts.Catalog
	if cat == nil {
		var err error
		cat, err = defaultCatalog()
		if err != nil {
			return nil, err
		}
	}
	cat.Freeze()

	rules := policy.DefaultInstitutionRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}

	sinks := opts.Sinks
	if sinks == nil {
		var err error
		sinks, err = defaultSinks()
		if err != nil {
			return nil, err
		}
	}

	memory := audit.NewMemorySink(config.VConfig.GetInt(config.AuditMemoryCapacity))
	sinks = append(sinks, memory)

	pipeline := audit.NewPipeline(audit.PipelineOptions{
		QueueCapacity: config.VConfig.GetInt(config.AuditQueueCapacity),
		FlushTimeout:  config.VConfig.GetDuration(config.AuditFlushTimeout),
		MaskFields:    maskFieldUnion(cat, rules, opts.Overrides),
	}, sinks...)

	return &EngineImpl{
		catalog:  cat,
		policy:   policy.New(cat, rules, opts.Overrides),
		pipeline: pipeline,
		memory:   memory,
	}, nil
}

func defaultCatalog() (*catalog.Catalog, error) {
	if path := config.VConfig.GetString(config.CatalogPath); path != "" {
		return catalog.Load(path)
	}
	return catalog.Default(), nil
}

func defaultSinks() ([]audit.Sink, error) {
	file, err := audit.NewFileSink(config.VConfig.GetString(config.AuditFile))
	if err != nil {
		return nil, errors.Wrap(err, "error opening audit log")
	}

	sinks := []audit.Sink{file}
	if config.VConfig.GetBool(config.AuditConsoleEnabled) {
		sinks = append(sinks, audit.NewConsoleSink())
	}
	return sinks, nil
}

// maskFieldUnion collects every field name any rule could mask, so the
// sanitizer scrubs them from audit details as well.
func maskFieldUnion(cat *catalog.Catalog, rules policy.InstitutionRules, overrides map[string]policy.Override) []string {
	seen := make(map[string]struct{})
	add := func(fields []string) {
		for _, f := range fields {
			seen[f] = struct{}{}
		}
	}

	add(rules.MaskFields)
	for _, name := range cat.Names() {
		if descriptor, err := cat.Lookup(name); err == nil {
			add(descriptor.MaskFields)
		}
	}
	for _, override := range overrides {
		add(override.MaskFields)
	}

	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	return fields
}

// Process evaluates one request: resolve the principal, decide each
// requested resource, build the packet, and record the audit entry.
func (e *EngineImpl) Process(ctx context.Context, principal identity.Principal, requestedResources []string, procOptions ...options.ProcessOptionsFunc) (*model.ContextPacket, bool, error) {
	logger.Debug(agent, "Process", "Enter")
	defer logger.Debug(agent, "Process", "Exit")

	opts := &options.ProcessOptions{}
	for _, o := range procOptions {
		o(opts)
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	scope, err := identity.Resolve(principal)
	if err != nil {
		return nil, false, err
	}

	traceID := "tr-" + uuid.NewString()
	decisions := e.policy.Decide(scope, requestedResources)
	pkt := packet.Build(traceID, scope, decisions)

	enqueued := false
	if !opts.Probe {
		enqueued = e.pipeline.Record(newAuditEntry(pkt, scope, decisions))
		if !enqueued {
			logger.Warnf(agent, "Process", "audit entry for %s was dropped", traceID)
		}
	}

	return pkt, enqueued, nil
}

// AuditLog returns the in-memory sink used for operator audit queries.
func (e *EngineImpl) AuditLog() *audit.MemorySink {
	return e.memory
}

// Catalog returns the catalog this engine decides against.
func (e *EngineImpl) Catalog() *catalog.Catalog {
	return e.catalog
}

// Close drains the audit pipeline and closes the sinks.
func (e *EngineImpl) Close() {
	e.pipeline.Close()
}

// newAuditEntry derives the audit entry for one processed request.  Only
// resource names, outcomes, reasons, and masked-field names are carried;
// raw record values never reach the entry.
func newAuditEntry(pkt *model.ContextPacket, scope *model.IdentityScope, decisions []model.PolicyDecision) *model.AuditEntry {
	allowed := make([]string, 0, len(pkt.AuthorizedResources))
	maskedSet := make(map[string]struct{})
	for _, resource := range pkt.AuthorizedResources {
		allowed = append(allowed, resource.Resource)
		for _, field := range resource.MaskedFields {
			maskedSet[field] = struct{}{}
		}
	}

	denied := make([]string, 0, len(pkt.DeniedResources))
	reasons := make(map[string]interface{}, len(pkt.DeniedResources))
	for _, resource := range pkt.DeniedResources {
		denied = append(denied, resource.Resource)
		reasons[resource.Resource] = resource.Reason
	}

	masked := make([]string, 0, len(maskedSet))
	for field := range maskedSet {
		masked = append(masked, field)
	}
	sort.Strings(masked)

	details := map[string]interface{}{
		"clearance_tags": scope.ClearanceTags,
		"requested":      len(decisions),
	}
	if len(reasons) > 0 {
		details["deny_reasons"] = reasons
	}

	return &model.AuditEntry{
		TraceID:          pkt.TraceID,
		Timestamp:        time.Now().UTC(),
		UserID:           scope.UserID,
		Role:             scope.Role,
		ResourcesAllowed: allowed,
		ResourcesDenied:  denied,
		FieldsMasked:     masked,
		PolicyHash:       pkt.PolicyHash,
		Details:          details,
	}
}
