//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package identity normalizes authenticated principals into the identity
// scopes consumed by the policy engine.
//
// Resolution is a pure mapping with no side effects: the same principal
// always yields the same scope.  Credential verification (JWT validation,
// session handling) happens upstream; this package trusts its input and is
// only concerned with shaping it.
package identity

import (
	"fmt"

	"github.com/edushield/iccp/pkg/iccp/model"
)

// Clearance tags attached per role, mirroring the institution's access tiers.
const (
	ClearanceFull       = "Full-Access"
	ClearanceDepartment = "Department-Scoped"
	ClearanceSelf       = "Self-Scoped"
)

// Principal is the authenticated identity handed over by the login
// collaborator after credential verification.
type Principal struct {
	UserID         string   `json:"user_id"`
	Role           string   `json:"role"`
	OwnedEntityIDs []string `json:"owned_entity_ids,omitempty"`
}

// InvalidPrincipalError reports a principal whose role is not one of the
// recognized values.
type InvalidPrincipalError struct {
	Role string
}

func (e *InvalidPrincipalError) Error() string {
	return fmt.Sprintf("principal role %q is not recognized", e.Role)
}

// Resolve maps a principal onto an [model.IdentityScope].
//
// The requester's own user id is always an owned entity id, so
// ownership-scoped resources qualified with owner=self resolve without the
// caller enumerating ownership explicitly.  Additional owned ids (advisees,
// taught classes) may be supplied on the principal.
func Resolve(principal Principal) (*model.IdentityScope, error) {
	role, err := model.ParseRole(principal.Role)
	if err != nil {
		return nil, &InvalidPrincipalError{Role: principal.Role}
	}
	if principal.UserID == "" {
		return nil, &InvalidPrincipalError{Role: principal.Role}
	}

	owned := make(map[string]struct{}, len(principal.OwnedEntityIDs)+1)
	owned[principal.UserID] = struct{}{}
	for _, id := range principal.OwnedEntityIDs {
		owned[id] = struct{}{}
	}

	return &model.IdentityScope{
		UserID:         principal.UserID,
		Role:           role,
		ClearanceTags:  clearanceFor(role),
		OwnedEntityIDs: owned,
	}, nil
}

func clearanceFor(role model.Role) []string {
	switch role {
	case model.RoleAdmin:
		return []string{ClearanceFull}
	case model.RoleTeacher:
		return []string{ClearanceDepartment}
	case model.RoleStudent:
		return []string{ClearanceSelf}
	default:
		return nil
	}
}
