// Package particle provides the pool-allocated frame storage for
// macro-particles: fixed-capacity columnar frames drawn from a shared pool
// and chained per supercell, plus the generic attribute schema that species
// declare their per-particle fields with.
package particle

import "fmt"

// Kind enumerates the supported attribute column types.
type Kind int

const (
	// Scalar is a single float32 per particle.
	Scalar Kind = iota
	// Vec3 is a float32 triple per particle.
	Vec3
)

// AttributeSpec declares one species attribute and its default value.
// Defaults are applied generically when a slot is reset; only the mandatory
// columns (position, cell index, mask, weighting) are written explicitly by
// the population kernel.
type AttributeSpec struct {
	Name    string
	Kind    Kind
	Default [3]float32 // Scalar attributes use Default[0].
}

// Schema is the ordered set of species-declared attributes.
type Schema []AttributeSpec

// Validate rejects duplicate or empty attribute names.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, a := range s {
		if a.Name == "" {
			return fmt.Errorf("particle: attribute with empty name")
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("particle: duplicate attribute %q", a.Name)
		}
		seen[a.Name] = struct{}{}
	}
	return nil
}

// newFields allocates one column per attribute with n slots.
func (s Schema) newFields(n int) []Field {
	fields := make([]Field, len(s))
	for i, a := range s {
		switch a.Kind {
		case Vec3:
			fields[i] = newVec3Field(a.Name, a.Default, n)
		default:
			fields[i] = newScalarField(a.Name, a.Default[0], n)
		}
	}
	return fields
}

// Field is one named per-slot attribute column of a frame.
type Field interface {
	// Name returns the attribute name.
	Name() string
	// Len returns the slot count.
	Len() int
	// Reset writes the species default into one slot.
	Reset(slot int)
	// Data returns the underlying column as an interface{}.
	Data() interface{}
}

// Type assertions
var (
	_ Field = &ScalarField{}
	_ Field = &Vec3Field{}
)

// ScalarField implements Field for a float32 column.
type ScalarField struct {
	name string
	def  float32
	data []float32
}

func newScalarField(name string, def float32, n int) *ScalarField {
	f := &ScalarField{name: name, def: def, data: make([]float32, n)}
	for i := range f.data {
		f.data[i] = def
	}
	return f
}

func (f *ScalarField) Name() string      { return f.name }
func (f *ScalarField) Len() int          { return len(f.data) }
func (f *ScalarField) Reset(slot int)    { f.data[slot] = f.def }
func (f *ScalarField) Data() interface{} { return f.data }

// Get returns the value at slot.
func (f *ScalarField) Get(slot int) float32 { return f.data[slot] }

// Set writes the value at slot.
func (f *ScalarField) Set(slot int, v float32) { f.data[slot] = v }

// Vec3Field implements Field for a [3]float32 column.
type Vec3Field struct {
	name string
	def  [3]float32
	data [][3]float32
}

func newVec3Field(name string, def [3]float32, n int) *Vec3Field {
	f := &Vec3Field{name: name, def: def, data: make([][3]float32, n)}
	for i := range f.data {
		f.data[i] = def
	}
	return f
}

func (f *Vec3Field) Name() string      { return f.name }
func (f *Vec3Field) Len() int          { return len(f.data) }
func (f *Vec3Field) Reset(slot int)    { f.data[slot] = f.def }
func (f *Vec3Field) Data() interface{} { return f.data }

// Get returns the value at slot.
func (f *Vec3Field) Get(slot int) [3]float32 { return f.data[slot] }

// Set writes the value at slot.
func (f *Vec3Field) Set(slot int, v [3]float32) { f.data[slot] = v }
