//
//  Copyright © EduShield Inc. All rights reserved.
//

package policy

import "github.com/edushield/iccp/pkg/iccp/model"

// ProhibitedCombination is an explicit deny rule that overrides an
// otherwise-permissive role rule for a specific role/resource pairing.
// When SelfExempt is set, the rule does not fire for requests that target a
// record owned by the requester.
type ProhibitedCombination struct {
	Role       model.Role
	Resource   string
	SelfExempt bool
}

// InstitutionRules carries the institution-level policy: universally masked
// fields and prohibited combinations.  Institution rules hold the highest
// precedence and can never be widened by role or user rules.
type InstitutionRules struct {
	MaskFields []string
	Prohibited []ProhibitedCombination
}

// Override is a per-user narrowing of access.  Overrides can deny resources
// or add masked fields; they cannot grant access or remove a mask.
type Override struct {
	DenyResources []string
	MaskFields    []string
}

func (o *Override) denies(resource string) bool {
	for _, r := range o.DenyResources {
		if r == resource {
			return true
		}
	}
	return false
}

// DefaultInstitutionRules returns the institution policy for the standard
// university deployment: national-id numbers are masked for every role, and
// students never see grades while teachers and students only reach financial
// records they own.
func DefaultInstitutionRules() InstitutionRules {
	return InstitutionRules{
		MaskFields: []string{"ssn"},
		Prohibited: []ProhibitedCombination{
			{Role: model.RoleStudent, Resource: "grades"},
			{Role: model.RoleStudent, Resource: "financial_info", SelfExempt: true},
			{Role: model.RoleTeacher, Resource: "financial_info", SelfExempt: true},
		},
	}
}
