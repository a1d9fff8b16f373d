//
//  Copyright © EduShield Inc. All rights reserved.
//

package audit

import (
	"regexp"
	"strings"

	"github.com/edushield/iccp/pkg/iccp/model"
	"github.com/mohae/deepcopy"
)

// ssnPattern matches US social-security-number shaped strings embedded in
// free-form values.
var ssnPattern = regexp.MustCompile(`\d{3}-\d{2}-\d{4}`)

// ssnRedaction replaces pattern matches inside string values, as opposed to
// whole values replaced by the standard marker.
const ssnRedaction = "[REDACTED-SSN]"

// defaultSensitiveKeys are key names scrubbed regardless of configuration.
// These mirror the institution's known PII and financial field names.
var defaultSensitiveKeys = []string{
	"ssn",
	"social_security",
	"annual_salary",
	"amount_due",
	"amount_paid",
	"balance",
}

// Sanitizer scrubs audit entries of raw sensitive values before any sink
// sees them.  It redacts values keyed by a masked-field name and rewrites
// SSN-shaped substrings inside free-form strings.
type Sanitizer struct {
	sensitiveKeys map[string]struct{}
}

// NewSanitizer creates a sanitizer that scrubs the default sensitive keys
// plus any additional masked-field names (typically the union of all
// descriptor and institution mask fields).
func NewSanitizer(maskFields []string) *Sanitizer {
	keys := make(map[string]struct{}, len(defaultSensitiveKeys)+len(maskFields))
	for _, key := range defaultSensitiveKeys {
		keys[key] = struct{}{}
	}
	for _, key := range maskFields {
		keys[strings.ToLower(key)] = struct{}{}
	}
	return &Sanitizer{sensitiveKeys: keys}
}

// Sanitize returns a scrubbed copy of the entry with Sanitized set.  The
// input entry is never mutated.
//
// Sanitization must not break the audit trail: if scrubbing panics on a
// malformed entry, a degraded copy is returned with Details stripped and
// SanitizationError set, and the entry is still recorded.
func (s *Sanitizer) Sanitize(entry *model.AuditEntry) (clean *model.AuditEntry) {
	defer func() {
		if r := recover(); r != nil {
			degraded := *entry
			degraded.Details = nil
			degraded.Sanitized = true
			degraded.SanitizationError = true
			clean = &degraded
		}
	}()

	copied := deepcopy.Copy(*entry).(model.AuditEntry)
	if copied.Details != nil {
		s.scrubMap(copied.Details)
	}
	copied.Sanitized = true
	return &copied
}

func (s *Sanitizer) scrubMap(m map[string]interface{}) {
	for key, value := range m {
		if _, sensitive := s.sensitiveKeys[strings.ToLower(key)]; sensitive {
			m[key] = model.RedactionMarker
			continue
		}
		m[key] = s.scrubValue(value)
	}
}

func (s *Sanitizer) scrubValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return ssnPattern.ReplaceAllString(v, ssnRedaction)
	case map[string]interface{}:
		s.scrubMap(v)
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = s.scrubValue(item)
		}
		return v
	default:
		return v
	}
}
