//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package catalog maintains the registry of resource descriptors consulted
// by the policy engine.
//
// The catalog is populated once at process start, frozen, and treated as
// read-only for the lifetime of the process.  Lookups after [Catalog.Freeze]
// require no locking because no writer exists.
package catalog

import (
	"fmt"
	"os"
	"sync"

	"github.com/edushield/iccp/internal/logging"
	"github.com/edushield/iccp/pkg/iccp/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var logger = logging.GetLogger("iccp.catalog")

const agent = "catalog"

// DuplicateResourceError reports a second registration under an existing name.
type DuplicateResourceError struct {
	Name string
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("resource %q is already registered", e.Name)
}

// UnknownResourceError reports a lookup of an unregistered name.
type UnknownResourceError struct {
	Name string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("resource %q is not registered", e.Name)
}

// Catalog is the registry of resource descriptors, keyed by unique name.
type Catalog struct {
	mu          sync.Mutex
	descriptors map[string]*model.ResourceDescriptor
	frozen      bool
}

// New returns an empty, unfrozen catalog.
func New() *Catalog {
	return &Catalog{
		descriptors: make(map[string]*model.ResourceDescriptor),
	}
}

// Register adds a descriptor to the catalog.  Returns a
// [DuplicateResourceError] if the name already exists.  Registering after
// [Catalog.Freeze] is a programming error and panics.
func (c *Catalog) Register(descriptor *model.ResourceDescriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		panic("catalog: Register called after Freeze")
	}

	if _, exists := c.descriptors[descriptor.Name]; exists {
		return &DuplicateResourceError{Name: descriptor.Name}
	}

	c.descriptors[descriptor.Name] = descriptor
	return nil
}

// Freeze marks the catalog read-only.  After Freeze, lookups may proceed
// concurrently without synchronization.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Lookup returns the descriptor registered under name, or an
// [UnknownResourceError].
func (c *Catalog) Lookup(name string) (*model.ResourceDescriptor, error) {
	if !c.frozen {
		c.mu.Lock()
		defer c.mu.Unlock()
	}

	descriptor, ok := c.descriptors[name]
	if !ok {
		return nil, &UnknownResourceError{Name: name}
	}
	return descriptor, nil
}

// Names returns the registered resource names in unspecified order.
func (c *Catalog) Names() []string {
	if !c.frozen {
		c.mu.Lock()
		defer c.mu.Unlock()
	}

	names := make([]string, 0, len(c.descriptors))
	for name := range c.descriptors {
		names = append(names, name)
	}
	return names
}

// descriptorYAML is the on-disk form of a resource descriptor.
type descriptorYAML struct {
	Name            string   `yaml:"name"`
	Sensitivity     string   `yaml:"sensitivity"`
	TTLSeconds      int      `yaml:"ttl_seconds"`
	AllowedRoles    []string `yaml:"allowed_roles"`
	MaskFields      []string `yaml:"mask_fields"`
	OwnershipScoped bool     `yaml:"ownership_scoped"`
}

type catalogYAML struct {
	Resources []descriptorYAML `yaml:"resources"`
}

func (d *descriptorYAML) toDescriptor() (*model.ResourceDescriptor, error) {
	sensitivity, err := model.ParseSensitivity(d.Sensitivity)
	if err != nil {
		return nil, errors.Wrapf(err, "resource %q", d.Name)
	}

	roles := make([]model.Role, 0, len(d.AllowedRoles))
	for _, r := range d.AllowedRoles {
		role, err := model.ParseRole(r)
		if err != nil {
			return nil, errors.Wrapf(err, "resource %q", d.Name)
		}
		roles = append(roles, role)
	}

	return &model.ResourceDescriptor{
		Name:            d.Name,
		Sensitivity:     sensitivity,
		TTLSeconds:      d.TTLSeconds,
		AllowedRoles:    roles,
		MaskFields:      d.MaskFields,
		OwnershipScoped: d.OwnershipScoped,
	}, nil
}

// Load builds a frozen catalog from a YAML file of the form:
//
//	resources:
//	  - name: persons
//	    sensitivity: Restricted
//	    ttl_seconds: 300
//	    allowed_roles: [Admin]
//	    mask_fields: [ssn]
//
// A load failure is fatal to the caller: an empty or corrupt catalog makes
// all subsequent decisions meaningless.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return nil, errors.Wrap(err, "reading catalog file")
	}

	var raw catalogYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing catalog file")
	}
	if len(raw.Resources) == 0 {
		return nil, errors.Errorf("catalog %s contains no resources", path)
	}

	c := New()
	for i := range raw.Resources {
		descriptor, err := raw.Resources[i].toDescriptor()
		if err != nil {
			return nil, err
		}
		if err := c.Register(descriptor); err != nil {
			return nil, err
		}
	}
	c.Freeze()

	logger.Infof(agent, "load", "loaded %d resource descriptors from %s", len(raw.Resources), path)
	return c, nil
}

// Default returns a frozen catalog holding the standard university resource
// set: persons, financial_info, grades, classes, and rag_documents.
func Default() *Catalog {
	c := New()
	for _, descriptor := range []*model.ResourceDescriptor{
		{
			Name:         "persons",
			Sensitivity:  model.SensitivityRestricted,
			TTLSeconds:   300,
			AllowedRoles: []model.Role{model.RoleAdmin},
			MaskFields:   []string{"ssn"},
		},
		{
			Name:            "financial_info",
			Sensitivity:     model.SensitivityCritical,
			TTLSeconds:      120,
			AllowedRoles:    []model.Role{model.RoleAdmin, model.RoleTeacher},
			OwnershipScoped: true,
		},
		{
			Name:         "grades",
			Sensitivity:  model.SensitivityRestricted,
			TTLSeconds:   300,
			AllowedRoles: []model.Role{model.RoleAdmin, model.RoleTeacher},
		},
		{
			Name:         "classes",
			Sensitivity:  model.SensitivityInternal,
			TTLSeconds:   600,
			AllowedRoles: []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleStudent},
		},
		{
			Name:         "rag_documents",
			Sensitivity:  model.SensitivityInternal,
			TTLSeconds:   300,
			AllowedRoles: []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleStudent},
		},
	} {
		if err := c.Register(descriptor); err != nil {
			// the default set is static; a collision here is a bug
			panic(err)
		}
	}
	c.Freeze()
	return c
}
