package physics

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMaterial = errors.New("material not registered with world")
	ErrNilMaterial     = errors.New("nil material")
)

// Material tags a surface; identity, not name, links bodies to contact entries
type Material struct {
	Name string
}

// ContactMaterial describes how two materials respond on contact
type ContactMaterial struct {
	Friction    float64
	Restitution float64
}

type materialPair struct {
	a, b *Material
}

func orderedPair(a, b *Material) materialPair {
	if a.Name > b.Name {
		a, b = b, a
	}
	return materialPair{a, b}
}

// MaterialTable owns the materials of one world and their pairwise responses
// Bodies must be built with a *Material obtained from the same table
type MaterialTable struct {
	materials map[string]*Material
	contacts  map[materialPair]ContactMaterial
	fallback  ContactMaterial
}

// NewMaterialTable creates a table whose unlisted pairs use fallback
func NewMaterialTable(fallback ContactMaterial) *MaterialTable {
	return &MaterialTable{
		materials: make(map[string]*Material),
		contacts:  make(map[materialPair]ContactMaterial),
		fallback:  fallback,
	}
}

// Material returns the table's material for name, creating it on first use
func (t *MaterialTable) Material(name string) *Material {
	if m, ok := t.materials[name]; ok {
		return m
	}
	m := &Material{Name: name}
	t.materials[name] = m
	return m
}

// Owns reports whether m is this table's instance
func (t *MaterialTable) Owns(m *Material) bool {
	if m == nil {
		return false
	}
	return t.materials[m.Name] == m
}

// Connect registers the contact response between two owned materials
func (t *MaterialTable) Connect(a, b *Material, cm ContactMaterial) error {
	if a == nil || b == nil {
		return ErrNilMaterial
	}
	if !t.Owns(a) {
		return fmt.Errorf("%w: %s", ErrUnknownMaterial, a.Name)
	}
	if !t.Owns(b) {
		return fmt.Errorf("%w: %s", ErrUnknownMaterial, b.Name)
	}
	t.contacts[orderedPair(a, b)] = cm
	return nil
}

// Contact returns the response for a pair, or the fallback
func (t *MaterialTable) Contact(a, b *Material) ContactMaterial {
	if a == nil || b == nil {
		return t.fallback
	}
	if cm, ok := t.contacts[orderedPair(a, b)]; ok {
		return cm
	}
	return t.fallback
}
