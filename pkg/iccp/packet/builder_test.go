//
//  Copyright © EduShield Inc. All rights reserved.
//

package packet

import (
	"strings"
	"testing"

	"github.com/edushield/iccp/pkg/iccp/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testScope = &model.IdentityScope{
	UserID: "t1",
	Role:   model.RoleTeacher,
}

func testDecisions() []model.PolicyDecision {
	return []model.PolicyDecision{
		{Resource: "grades", Outcome: model.OutcomeAllow},
		{Resource: "persons", Outcome: model.OutcomeAllowMasked, MaskedFields: []string{"ssn"}},
		{Resource: "financial_info:owner=t2", Outcome: model.OutcomeDeny, Reason: "prohibited combination"},
	}
}

func TestBuildPartitionsDecisions(t *testing.T) {
	p := Build("tr-1", testScope, testDecisions())

	assert.Equal(t, model.Version, p.CCPVersion)
	assert.Equal(t, "tr-1", p.TraceID)
	assert.Equal(t, model.PacketIdentity{Role: model.RoleTeacher, UserID: "t1"}, p.IdentityScope)

	require.Len(t, p.AuthorizedResources, 2)
	assert.Equal(t, "grades", p.AuthorizedResources[0].Resource)
	assert.Equal(t, "persons", p.AuthorizedResources[1].Resource)
	assert.NotNil(t, p.AuthorizedResources[0].MaskedFields)

	require.Len(t, p.DeniedResources, 1)
	assert.Equal(t, "financial_info:owner=t2", p.DeniedResources[0].Resource)
	assert.Equal(t, "prohibited combination", p.DeniedResources[0].Reason)

	assert.True(t, strings.HasPrefix(p.PolicyHash, "sha256:"))
}

func TestHashDeterministic(t *testing.T) {
	a := Build("tr-1", testScope, testDecisions())
	b := Build("tr-2", testScope, testDecisions())

	// the trace id is not part of the hash; identical decisions and identity
	// produce identical hashes
	assert.Equal(t, a.PolicyHash, b.PolicyHash)
}

func TestHashSensitivity(t *testing.T) {
	base := Hash(testScope, testDecisions())

	flipped := testDecisions()
	flipped[0].Outcome = model.OutcomeDeny
	flipped[0].Reason = "role not permitted"
	assert.NotEqual(t, base, Hash(testScope, flipped))

	remasked := testDecisions()
	remasked[1].MaskedFields = []string{"ssn", "email"}
	assert.NotEqual(t, base, Hash(testScope, remasked))

	otherIdentity := &model.IdentityScope{UserID: "t2", Role: model.RoleTeacher}
	assert.NotEqual(t, base, Hash(otherIdentity, testDecisions()))

	otherRole := &model.IdentityScope{UserID: "t1", Role: model.RoleAdmin}
	assert.NotEqual(t, base, Hash(otherRole, testDecisions()))
}

func TestHashIgnoresMaskOrder(t *testing.T) {
	a := []model.PolicyDecision{{Resource: "persons", Outcome: model.OutcomeAllowMasked, MaskedFields: []string{"email", "ssn"}}}
	b := []model.PolicyDecision{{Resource: "persons", Outcome: model.OutcomeAllowMasked, MaskedFields: []string{"ssn", "email"}}}

	assert.Equal(t, Hash(testScope, a), Hash(testScope, b))
}
