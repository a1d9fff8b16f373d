//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package packet assembles policy decisions into context packets.
//
// A context packet is the verifiable record of what a request was authorized
// to disclose.  Its policy_hash covers a canonical serialization of every
// decision plus the requesting identity, so any change to a decision, an
// outcome, a masked-field list, or the identity produces a different hash.
// Building a packet is pure computation: no I/O, no audit writes.
package packet

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/edushield/iccp/pkg/iccp/model"
)

// Build assembles a context packet from the decisions for one request.
//
// Decisions are partitioned into authorized (outcome != Deny) and denied
// lists, both preserving the input order.  Only resource names, outcomes,
// reasons, and masked-field names are carried; raw field values never enter
// a packet.
func Build(traceID string, scope *model.IdentityScope, decisions []model.PolicyDecision) *model.ContextPacket {
	authorized := make([]model.AuthorizedResource, 0, len(decisions))
	denied := make([]model.DeniedResource, 0)

	for _, decision := range decisions {
		if decision.Outcome == model.OutcomeDeny {
			denied = append(denied, model.DeniedResource{
				Resource: decision.Resource,
				Reason:   decision.Reason,
			})
			continue
		}

		maskedFields := decision.MaskedFields
		if maskedFields == nil {
			maskedFields = []string{}
		}
		authorized = append(authorized, model.AuthorizedResource{
			Resource:     decision.Resource,
			Outcome:      decision.Outcome,
			MaskedFields: maskedFields,
		})
	}

	return &model.ContextPacket{
		CCPVersion:          model.Version,
		TraceID:             traceID,
		IdentityScope:       model.PacketIdentity{Role: scope.Role, UserID: scope.UserID},
		AuthorizedResources: authorized,
		DeniedResources:     denied,
		PolicyHash:          Hash(scope, decisions),
	}
}

// Hash computes the policy hash over a canonical serialization of the
// decisions plus the scope's role and user id.  The serialization is
// order-stable in the decision sequence and field-sorted within each
// decision, so the hash is a deterministic function of its inputs.
func Hash(scope *model.IdentityScope, decisions []model.PolicyDecision) string {
	h := sha256.New()
	fmt.Fprintf(h, "role=%s\nuser_id=%s\n", scope.Role, scope.UserID)

	for _, decision := range decisions {
		masked := append([]string(nil), decision.MaskedFields...)
		sort.Strings(masked)
		fmt.Fprintf(h, "masked=%s;outcome=%s;reason=%s;resource=%s\n",
			strings.Join(masked, ","), decision.Outcome, decision.Reason, decision.Resource)
	}

	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}
