package model

// An IndexedBlock is an ordered collection of blocks solved simultaneously
// as one aggregate system.
type IndexedBlock struct {
	NamedBase

	blocks []*Block
}

// NewIndexedBlock creates an indexed block over the given sub-blocks.
func NewIndexedBlock(name string, blocks ...*Block) *IndexedBlock {
	ib := new(IndexedBlock)
	ib.NamedBase = MakeNamedBase(name)
	ib.blocks = append(ib.blocks, blocks...)

	return ib
}

// Add appends a sub-block to the collection.
func (ib *IndexedBlock) Add(b *Block) {
	ib.blocks = append(ib.blocks, b)
}

// Blocks returns the sub-blocks in order.
func (ib *IndexedBlock) Blocks() []*Block {
	return ib.blocks
}

// FreeVariables returns the unfixed variables across all sub-blocks.
func (ib *IndexedBlock) FreeVariables() []*Variable {
	var free []*Variable
	for _, b := range ib.blocks {
		free = append(free, b.FreeVariables()...)
	}

	return free
}

// ActiveConstraints returns the active constraints across all sub-blocks.
func (ib *IndexedBlock) ActiveConstraints() []*Constraint {
	var active []*Constraint
	for _, b := range ib.blocks {
		active = append(active, b.ActiveConstraints()...)
	}

	return active
}
