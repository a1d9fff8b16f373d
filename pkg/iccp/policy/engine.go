//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package policy implements the ICCP policy engine.
//
// The engine computes one [model.PolicyDecision] per requested resource by
// applying, in strict precedence order, institution rules, role rules,
// ownership scoping, prohibited combinations, and per-user overrides
// (Institution > Role > User).  A decision is a pure function of the
// identity scope, the resource descriptor, and the configured rules: no
// hidden state, no I/O, no randomness.  Identical inputs always produce
// identical decision sequences, which makes decisions replayable in tests
// and audits.
//
// Denials are legitimate business outcomes, never errors: an unknown
// resource or an unauthorized role yields a Deny decision with a reason
// string rather than a fault.
package policy

import (
	"sort"
	"strings"

	"github.com/edushield/iccp/internal/logging"
	"github.com/edushield/iccp/pkg/iccp/catalog"
	"github.com/edushield/iccp/pkg/iccp/model"
)

var logger = logging.GetLogger("iccp.policy")

const agent = "policy"

// Deny reasons surfaced on decisions.
const (
	ReasonUnknownResource       = "unknown resource"
	ReasonRoleNotPermitted      = "role not permitted"
	ReasonNotOwnRecord          = "not own record"
	ReasonProhibitedCombination = "prohibited combination"
	ReasonUserOverride          = "user override"
)

// ownerQualifier prefixes the ownership qualifier in a requested resource
// name, e.g. "financial_info:owner=t1".  The value "self" resolves to the
// requesting user's id.
const ownerQualifier = "owner="

// Engine evaluates authorization decisions against a frozen catalog and a
// fixed rule set.  Engines are safe for concurrent use: all state is
// read-only after construction.
type Engine struct {
	catalog   *catalog.Catalog
	rules     InstitutionRules
	overrides map[string]Override
}

// New creates an engine over the given catalog, institution rules, and
// per-user overrides (keyed by user id; may be nil).
func New(c *catalog.Catalog, rules InstitutionRules, overrides map[string]Override) *Engine {
	return &Engine{
		catalog:   c,
		rules:     rules,
		overrides: overrides,
	}
}

// request is a parsed requested-resource string.
type request struct {
	raw      string
	name     string
	ownerKey string
	hasOwner bool
}

func parseRequest(raw string, scope *model.IdentityScope) request {
	name, qualifier, found := strings.Cut(raw, ":")
	if !found {
		return request{raw: raw, name: raw}
	}

	if owner, ok := strings.CutPrefix(qualifier, ownerQualifier); ok && owner != "" {
		if owner == "self" {
			owner = scope.UserID
		}
		return request{raw: raw, name: name, ownerKey: owner, hasOwner: true}
	}

	// Unrecognized qualifier: let the catalog lookup reject the full string
	// rather than guessing at intent.
	return request{raw: raw, name: raw}
}

// Decide computes one decision per requested resource, preserving input
// order.  Requested names may carry an ownership qualifier
// ("name:owner=<id>" or "name:owner=self").
func (e *Engine) Decide(scope *model.IdentityScope, requestedResources []string) []model.PolicyDecision {
	decisions := make([]model.PolicyDecision, 0, len(requestedResources))
	for _, raw := range requestedResources {
		decisions = append(decisions, e.decideOne(scope, parseRequest(raw, scope)))
	}

	if logger.IsDebugEnabled() {
		logger.Debugf(agent, "decide", "user=%s role=%s requested=%d decisions=%+v",
			scope.UserID, scope.Role, len(requestedResources), decisions)
	}

	return decisions
}

func (e *Engine) decideOne(scope *model.IdentityScope, req request) model.PolicyDecision {
	deny := func(reason string) model.PolicyDecision {
		return model.PolicyDecision{Resource: req.raw, Outcome: model.OutcomeDeny, Reason: reason}
	}

	descriptor, err := e.catalog.Lookup(req.name)
	if err != nil {
		return deny(ReasonUnknownResource)
	}

	override, hasOverride := e.overrides[scope.UserID]

	// Institution-level masking is computed before any role or user rule and
	// is never removed by one: the mask set only ever grows from here.  An
	// institution mask applies regardless of whether the descriptor lists
	// the field itself.
	maskSet := make(map[string]struct{})
	for _, field := range e.rules.MaskFields {
		maskSet[field] = struct{}{}
	}
	for _, field := range descriptor.MaskFields {
		maskSet[field] = struct{}{}
	}
	if hasOverride {
		for _, field := range override.MaskFields {
			maskSet[field] = struct{}{}
		}
	}

	targetsSelf := req.hasOwner && scope.Owns(req.ownerKey)

	// Role rule, with the ownership-scoped rescue: a role outside the
	// allowed set may still reach a specific record it owns.
	roleAllowed := descriptor.RoleAllowed(scope.Role)
	ownershipRescue := descriptor.OwnershipScoped && targetsSelf

	// Prohibited combinations are the most specific rule and win any tie
	// with a role rule.
	if e.prohibited(scope, req, descriptor) {
		return deny(ReasonProhibitedCombination)
	}

	if descriptor.OwnershipScoped && req.hasOwner && !targetsSelf {
		return deny(ReasonNotOwnRecord)
	}

	if !roleAllowed && !ownershipRescue {
		return deny(ReasonRoleNotPermitted)
	}

	// User-level overrides hold the lowest precedence and may only narrow.
	if hasOverride && override.denies(req.name) {
		return deny(ReasonUserOverride)
	}

	maskedFields := make([]string, 0, len(maskSet))
	for field := range maskSet {
		maskedFields = append(maskedFields, field)
	}
	sort.Strings(maskedFields)

	outcome := model.OutcomeAllow
	if len(maskedFields) > 0 {
		outcome = model.OutcomeAllowMasked
	}

	return model.PolicyDecision{
		Resource:     req.raw,
		Outcome:      outcome,
		MaskedFields: maskedFields,
	}
}

// prohibited reports whether an institution prohibited-combination rule
// applies to this request.
func (e *Engine) prohibited(scope *model.IdentityScope, req request, descriptor *model.ResourceDescriptor) bool {
	for _, rule := range e.rules.Prohibited {
		if rule.Role != scope.Role || rule.Resource != descriptor.Name {
			continue
		}
		if rule.SelfExempt && (!req.hasOwner || scope.Owns(req.ownerKey)) {
			// class-level requests and owned records are exempt; row-level
			// filtering for class-level access happens in the query layer
			continue
		}
		return true
	}
	return false
}
