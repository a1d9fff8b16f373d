//
//  Copyright © EduShield Inc. All rights reserved.
//

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("Teacher")
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, role)

	// matching is exact; the resolver owns any normalization
	_, err = ParseRole("teacher")
	assert.Error(t, err)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}

func TestRoleWireForm(t *testing.T) {
	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"Teacher"`), &r))
	assert.Equal(t, RoleTeacher, r)

	// any legal JSON spelling of the string decodes, escapes included
	r = RoleUnknown
	require.NoError(t, json.Unmarshal([]byte(`"\u0054eacher"`), &r))
	assert.Equal(t, RoleTeacher, r)

	assert.Error(t, json.Unmarshal([]byte(`"superuser"`), &r))
	assert.Error(t, json.Unmarshal([]byte(`42`), &r))

	data, err := json.Marshal(RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, `"Student"`, string(data))

	_, err = json.Marshal(RoleUnknown)
	assert.Error(t, err)
}

func TestOutcomeWireForm(t *testing.T) {
	data, err := json.Marshal(OutcomeAllowMasked)
	require.NoError(t, err)
	assert.Equal(t, `"AllowMasked"`, string(data))

	var o Outcome
	require.NoError(t, json.Unmarshal([]byte(`"Deny"`), &o))
	assert.Equal(t, OutcomeDeny, o)

	assert.Error(t, json.Unmarshal([]byte(`"Maybe"`), &o))
}

func TestContextPacketContract(t *testing.T) {
	packet := ContextPacket{
		CCPVersion: Version,
		TraceID:    "tr-1234",
		IdentityScope: PacketIdentity{
			Role:   RoleAdmin,
			UserID: "a1",
		},
		AuthorizedResources: []AuthorizedResource{
			{Resource: "persons", Outcome: OutcomeAllowMasked, MaskedFields: []string{"ssn"}},
		},
		DeniedResources: []DeniedResource{
			{Resource: "payroll", Reason: "unknown resource"},
		},
		PolicyHash: "sha256:abc",
	}

	data, err := json.Marshal(packet)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	// field names are a fixed wire contract
	for _, key := range []string{"ccp_version", "trace_id", "identity_scope", "authorized_resources", "denied_resources", "policy_hash"} {
		assert.Contains(t, decoded, key)
	}
	scope := decoded["identity_scope"].(map[string]interface{})
	assert.Equal(t, "Admin", scope["role"])
	assert.Equal(t, "a1", scope["user_id"])
}

func TestIdentityScopeOwns(t *testing.T) {
	scope := IdentityScope{
		UserID:         "t1",
		Role:           RoleTeacher,
		OwnedEntityIDs: map[string]struct{}{"t1": {}, "class-9": {}},
	}

	assert.True(t, scope.Owns("t1"))
	assert.True(t, scope.Owns("class-9"))
	assert.False(t, scope.Owns("t2"))
}
