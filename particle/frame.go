package particle

// ID is a frame handle: an index into the pool's arena.
type ID int32

// Invalid marks the absence of a frame, e.g. the tail of a chain.
const Invalid ID = -1

// Frame is a fixed-capacity columnar block of particle slots. Its capacity
// equals the number of cells per supercell; slot index equals the linear
// in-supercell cell index. A slot holds a particle only while its mask flag
// is set; inactive slots keep whatever stale data they carry.
type Frame struct {
	pos       [][3]float32 // in-cell position, each component in [0,1)
	cellIdx   []int32      // linear in-supercell cell index
	mask      []bool       // active flag
	weighting []float32    // macro-particle weighting
	extra     []Field      // species-declared attributes
	byName    map[string]Field
	next      ID
}

func newFrame(slots int, schema Schema) *Frame {
	f := &Frame{
		pos:       make([][3]float32, slots),
		cellIdx:   make([]int32, slots),
		mask:      make([]bool, slots),
		weighting: make([]float32, slots),
		extra:     schema.newFields(slots),
		next:      Invalid,
	}
	f.byName = make(map[string]Field, len(f.extra))
	for _, fld := range f.extra {
		f.byName[fld.Name()] = fld
	}
	return f
}

// Slots returns the frame capacity.
func (f *Frame) Slots() int { return len(f.mask) }

// Record returns a handle for in-place writes to one slot.
func (f *Frame) Record(slot int) Record { return Record{f: f, slot: slot} }

// Attribute returns a species-declared attribute column by name, or nil.
func (f *Frame) Attribute(name string) Field { return f.byName[name] }

// ActiveCount returns the number of slots with the mask flag set.
func (f *Frame) ActiveCount() int {
	n := 0
	for _, m := range f.mask {
		if m {
			n++
		}
	}
	return n
}

// scrub returns the frame to the empty state before the pool reissues it.
// Attribute columns are left as-is: an inactive slot is distinguished by its
// mask flag alone.
func (f *Frame) scrub() {
	for i := range f.mask {
		f.mask[i] = false
	}
	f.next = Invalid
}

// Record is a handle to one particle slot of a frame.
type Record struct {
	f    *Frame
	slot int
}

// Slot returns the slot index the record points at.
func (r Record) Slot() int { return r.slot }

// ResetAttributes writes the species defaults into every declared attribute
// of the slot. The mandatory columns (position, cell index, mask, weighting)
// are not touched; the kernel sets those explicitly.
func (r Record) ResetAttributes() {
	for _, fld := range r.f.extra {
		fld.Reset(r.slot)
	}
}

// SetPosition writes the in-cell position.
func (r Record) SetPosition(p [3]float32) { r.f.pos[r.slot] = p }

// Position returns the in-cell position.
func (r Record) Position() [3]float32 { return r.f.pos[r.slot] }

// SetCellIndex writes the linear in-supercell cell index.
func (r Record) SetCellIndex(i int) { r.f.cellIdx[r.slot] = int32(i) }

// CellIndex returns the linear in-supercell cell index.
func (r Record) CellIndex() int { return int(r.f.cellIdx[r.slot]) }

// Activate sets the mask flag. The population kernel never clears it.
func (r Record) Activate() { r.f.mask[r.slot] = true }

// Active reports whether the slot holds a particle.
func (r Record) Active() bool { return r.f.mask[r.slot] }

// SetWeighting writes the macro-particle weighting.
func (r Record) SetWeighting(w float32) { r.f.weighting[r.slot] = w }

// Weighting returns the macro-particle weighting.
func (r Record) Weighting() float32 { return r.f.weighting[r.slot] }

// Attr returns a species-declared attribute column by name, or nil.
func (r Record) Attr(name string) Field { return r.f.byName[name] }
