package units

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupportedProperty reports a request for a property a package does not
// provide. Requests for unsupported properties are a configuration error.
var ErrUnsupportedProperty = errors.New("unsupported property")

// PropertyMeta describes one property a package supports. Method names the
// builder that constructs the property on demand; an empty Method marks a
// primitive state variable.
type PropertyMeta struct {
	Name   string
	Method string
	Unit   string
}

// Metadata is the set of properties a package supports together with its
// default-units table.
type Metadata struct {
	props map[string]PropertyMeta
	units Table
}

// NewMetadata creates an empty metadata set over a default-units table.
func NewMetadata(units Table) *Metadata {
	return &Metadata{
		props: make(map[string]PropertyMeta),
		units: units,
	}
}

// Add registers a supported property. Registering the same name twice
// panics.
func (m *Metadata) Add(p PropertyMeta) {
	if _, ok := m.props[p.Name]; ok {
		panic("property " + p.Name + " already registered")
	}

	m.props[p.Name] = p
}

// Require returns the metadata for a property name, or an error wrapping
// ErrUnsupportedProperty if the package does not provide it.
func (m *Metadata) Require(name string) (PropertyMeta, error) {
	p, ok := m.props[name]
	if !ok {
		return PropertyMeta{}, fmt.Errorf("%w: %s", ErrUnsupportedProperty, name)
	}

	return p, nil
}

// Properties returns all supported properties sorted by name.
func (m *Metadata) Properties() []PropertyMeta {
	props := make([]PropertyMeta, 0, len(m.props))
	for _, p := range m.props {
		props = append(props, p)
	}

	sort.Slice(props, func(i, j int) bool {
		return props[i].Name < props[j].Name
	})

	return props
}

// Units returns the default-units table.
func (m *Metadata) Units() Table {
	return m.units
}
