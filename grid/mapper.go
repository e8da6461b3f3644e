package grid

// Mapper describes how one device's slice of the global domain is laid out in
// supercells. Group coordinates handed to a kernel launch include the guard
// border; the mapper removes it and applies the device's placement offset so
// density functors see absolute domain cell coordinates.
type Mapper struct {
	// SuperCellSize is the cell extent of one supercell.
	SuperCellSize Idx3
	// LocalSuperCells is the device-local domain extent in supercells,
	// excluding guards.
	LocalSuperCells Idx3
	// Guard is the guard border width in supercells on every face.
	Guard int
	// DomainOffset is the device's placement offset in cells within the
	// global domain.
	DomainOffset Idx3
}

// GridSuperCells returns the device's full supercell extent including the
// guard border on both sides of every axis.
func (m Mapper) GridSuperCells() Idx3 {
	g := 2 * m.Guard
	return Idx3{m.LocalSuperCells.X + g, m.LocalSuperCells.Y + g, m.LocalSuperCells.Z + g}
}

// GuardingSuperCells returns the guard border width in supercells.
func (m Mapper) GuardingSuperCells() int { return m.Guard }

// SuperCellIndex maps a group coordinate (0-based over the local domain) to
// the supercell coordinate within the full, guard-including grid.
func (m Mapper) SuperCellIndex(group Idx3) Idx3 {
	return group.Add(Idx3{m.Guard, m.Guard, m.Guard})
}

// LocalSuperCell strips the guard border from a guard-including supercell
// coordinate.
func (m Mapper) LocalSuperCell(superCell Idx3) Idx3 {
	return superCell.Sub(Idx3{m.Guard, m.Guard, m.Guard})
}

// AbsoluteCell translates a guard-including supercell coordinate plus an
// in-supercell cell coordinate into an absolute domain cell coordinate.
func (m Mapper) AbsoluteCell(superCell, inCell Idx3) Idx3 {
	local := m.LocalSuperCell(superCell)
	return local.Mul(m.SuperCellSize).Add(inCell).Add(m.DomainOffset)
}

// CellsPerSuperCell returns the slot count of one frame.
func (m Mapper) CellsPerSuperCell() int { return m.SuperCellSize.Volume() }
