//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package model defines the protocol objects shared across the ICCP core:
// identity scopes, resource descriptors, policy decisions, context packets,
// and audit entries.
//
// Roles, outcomes, and sensitivities are typed tagged variants rather than
// free-form strings so the policy engine can match on them exhaustively.
// The JSON forms of [ContextPacket] and [AuditEntry] are serialization
// contracts consumed by external collaborators; field names are fixed.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Version is the context-packet protocol version emitted in ccp_version.
const Version = "1.0"

// RedactionMarker replaces the value of any masked field.
const RedactionMarker = "[REDACTED]"

// Role identifies the class of an authenticated principal.
type Role int

// Recognized roles, in decreasing order of privilege.
const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleTeacher
	RoleStudent
)

var roleNames = map[Role]string{
	RoleAdmin:   "Admin",
	RoleTeacher: "Teacher",
	RoleStudent: "Student",
}

// String returns the wire form of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// MarshalJSON encodes the role as its wire string.
func (r Role) MarshalJSON() ([]byte, error) {
	name, ok := roleNames[r]
	if !ok {
		return nil, fmt.Errorf("cannot marshal unknown role %d", int(r))
	}
	return []byte(`"` + name + `"`), nil
}

// UnmarshalJSON decodes a role from its wire string.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRole maps a wire string onto a [Role].  Matching is exact; an
// unrecognized value returns an error and [RoleUnknown].
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unrecognized role %q", s)
}

// Outcome is the result of a single policy decision.
type Outcome int

// Decision outcomes.  A Deny is a legitimate business outcome, never an error.
const (
	OutcomeAllow Outcome = iota + 1
	OutcomeAllowMasked
	OutcomeDeny
)

var outcomeNames = map[Outcome]string{
	OutcomeAllow:       "Allow",
	OutcomeAllowMasked: "AllowMasked",
	OutcomeDeny:        "Deny",
}

// String returns the wire form of the outcome.
func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalJSON encodes the outcome as its wire string.
func (o Outcome) MarshalJSON() ([]byte, error) {
	name, ok := outcomeNames[o]
	if !ok {
		return nil, fmt.Errorf("cannot marshal unknown outcome %d", int(o))
	}
	return []byte(`"` + name + `"`), nil
}

// UnmarshalJSON decodes an outcome from its wire string.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for outcome, name := range outcomeNames {
		if name == s {
			*o = outcome
			return nil
		}
	}
	return fmt.Errorf("unrecognized outcome %q", s)
}

// Sensitivity classifies how damaging disclosure of a resource would be.
type Sensitivity int

// Sensitivity levels, least to most sensitive.
const (
	SensitivityPublic Sensitivity = iota + 1
	SensitivityInternal
	SensitivityRestricted
	SensitivityCritical
)

var sensitivityNames = map[Sensitivity]string{
	SensitivityPublic:     "Public",
	SensitivityInternal:   "Internal",
	SensitivityRestricted: "Restricted",
	SensitivityCritical:   "Critical",
}

// String returns the wire form of the sensitivity.
func (s Sensitivity) String() string {
	if name, ok := sensitivityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sensitivity(%d)", int(s))
}

// ParseSensitivity maps a wire string onto a [Sensitivity].
func ParseSensitivity(v string) (Sensitivity, error) {
	for sens, name := range sensitivityNames {
		if name == v {
			return sens, nil
		}
	}
	return 0, fmt.Errorf("unrecognized sensitivity %q", v)
}

// IdentityScope describes who is making a request.  A scope is constructed
// once per request from verified credentials and is immutable thereafter.
type IdentityScope struct {
	UserID         string
	Role           Role
	ClearanceTags  []string
	OwnedEntityIDs map[string]struct{}
}

// Owns reports whether the scope owns the record keyed by id.
func (s *IdentityScope) Owns(id string) bool {
	_, ok := s.OwnedEntityIDs[id]
	return ok
}

// ResourceDescriptor declares the sensitivity, lifetime, and access rules of
// a data category.  Descriptors are registered at startup and read-only
// thereafter; they are keyed by unique Name.
type ResourceDescriptor struct {
	Name            string      `yaml:"name" json:"name"`
	Sensitivity     Sensitivity `yaml:"-" json:"-"`
	TTLSeconds      int         `yaml:"ttl_seconds" json:"ttl_seconds"`
	AllowedRoles    []Role      `yaml:"-" json:"-"`
	MaskFields      []string    `yaml:"mask_fields" json:"mask_fields"`
	OwnershipScoped bool        `yaml:"ownership_scoped" json:"ownership_scoped"`
}

// RoleAllowed reports whether role appears in the descriptor's allowed set.
func (d *ResourceDescriptor) RoleAllowed(role Role) bool {
	for _, r := range d.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// PolicyDecision is the authorization verdict for one requested resource.
// Decisions are immutable and are a pure function of
// (IdentityScope, ResourceDescriptor, institution rules).
type PolicyDecision struct {
	Resource     string   `json:"resource"`
	Outcome      Outcome  `json:"outcome"`
	Reason       string   `json:"reason,omitempty"`
	MaskedFields []string `json:"masked_fields,omitempty"`
}

// PacketIdentity is the identity projection embedded in a context packet.
// It carries the role and user id only; no clearance tags, no secrets.
type PacketIdentity struct {
	Role   Role   `json:"role"`
	UserID string `json:"user_id"`
}

// AuthorizedResource is the packet view of a non-Deny decision.
type AuthorizedResource struct {
	Resource     string   `json:"resource"`
	Outcome      Outcome  `json:"outcome"`
	MaskedFields []string `json:"masked_fields"`
}

// DeniedResource is the packet view of a Deny decision.
type DeniedResource struct {
	Resource string `json:"resource"`
	Reason   string `json:"reason"`
}

// ContextPacket is the hashed, auditable record of what a request was
// authorized to disclose.  The JSON field names are a fixed wire contract.
type ContextPacket struct {
	CCPVersion          string               `json:"ccp_version"`
	TraceID             string               `json:"trace_id"`
	IdentityScope       PacketIdentity       `json:"identity_scope"`
	AuthorizedResources []AuthorizedResource `json:"authorized_resources"`
	DeniedResources     []DeniedResource     `json:"denied_resources"`
	PolicyHash          string               `json:"policy_hash"`
}

// AuditEntry records one policy decision set.  Entries are append-only and
// never mutated after creation.  An entry must never contain a raw value of
// a masked or Critical field; the audit pipeline's sanitizer enforces this
// before any sink sees the entry.
type AuditEntry struct {
	TraceID           string                 `json:"trace_id"`
	Timestamp         time.Time              `json:"timestamp"`
	UserID            string                 `json:"user_id"`
	Role              Role                   `json:"role"`
	ResourcesAllowed  []string               `json:"resources_allowed"`
	ResourcesDenied   []string               `json:"resources_denied"`
	FieldsMasked      []string               `json:"fields_masked,omitempty"`
	PolicyHash        string                 `json:"policy_hash"`
	Details           map[string]interface{} `json:"details,omitempty"`
	Sanitized         bool                   `json:"sanitized"`
	SanitizationError bool                   `json:"sanitization_error,omitempty"`
}
