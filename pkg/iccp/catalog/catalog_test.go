//
//  Copyright © EduShield Inc. All rights reserved.
//

package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edushield/iccp/pkg/iccp/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	c := New()

	err := c.Register(&model.ResourceDescriptor{
		Name:         "grades",
		Sensitivity:  model.SensitivityRestricted,
		AllowedRoles: []model.Role{model.RoleAdmin, model.RoleTeacher},
	})
	require.NoError(t, err)
	c.Freeze()

	descriptor, err := c.Lookup("grades")
	require.NoError(t, err)
	assert.True(t, descriptor.RoleAllowed(model.RoleTeacher))
	assert.False(t, descriptor.RoleAllowed(model.RoleStudent))
}

func TestRegisterDuplicate(t *testing.T) {
	c := New()

	descriptor := &model.ResourceDescriptor{Name: "classes", Sensitivity: model.SensitivityInternal}
	require.NoError(t, c.Register(descriptor))

	err := c.Register(descriptor)
	var duplicate *DuplicateResourceError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "classes", duplicate.Name)
}

func TestLookupUnknown(t *testing.T) {
	c := Default()

	_, err := c.Lookup("payroll")
	var unknown *UnknownResourceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "payroll", unknown.Name)
}

func TestRegisterAfterFreezePanics(t *testing.T) {
	c := New()
	c.Freeze()

	assert.Panics(t, func() {
		_ = c.Register(&model.ResourceDescriptor{Name: "late"})
	})
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	for _, name := range []string{"persons", "financial_info", "grades", "classes", "rag_documents"} {
		_, err := c.Lookup(name)
		assert.NoError(t, err, name)
	}

	persons, err := c.Lookup("persons")
	require.NoError(t, err)
	assert.Contains(t, persons.MaskFields, "ssn")

	financial, err := c.Lookup("financial_info")
	require.NoError(t, err)
	assert.True(t, financial.OwnershipScoped)
	assert.Equal(t, model.SensitivityCritical, financial.Sensitivity)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
resources:
  - name: persons
    sensitivity: Restricted
    ttl_seconds: 300
    allowed_roles: [Admin]
    mask_fields: [ssn]
  - name: transcripts
    sensitivity: Critical
    ttl_seconds: 60
    allowed_roles: [Admin, Teacher]
    ownership_scoped: true
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	transcripts, err := c.Lookup("transcripts")
	require.NoError(t, err)
	assert.Equal(t, model.SensitivityCritical, transcripts.Sensitivity)
	assert.True(t, transcripts.OwnershipScoped)
	assert.True(t, transcripts.RoleAllowed(model.RoleTeacher))
}

func TestLoadRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("resources: []\n"), 0o600))
	_, err := Load(empty)
	assert.Error(t, err)

	badRole := filepath.Join(dir, "badrole.yaml")
	require.NoError(t, os.WriteFile(badRole, []byte(`
resources:
  - name: grades
    sensitivity: Restricted
    allowed_roles: [Wizard]
`), 0o600))
	_, err = Load(badRole)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
