package matrix

import "fmt"

// CellType is the content semantics of one target cell. Marking a cell
// ABSORBED never changes matrix length, only what the cell means.
type CellType int

const (
	CellNormal CellType = iota
	CellLocution
	CellAbsorbed
	CellNull
	CellInjected
)

func (t CellType) String() string {
	switch t {
	case CellLocution:
		return "LOCUTION"
	case CellAbsorbed:
		return "ABSORBED"
	case CellNull:
		return "NULL"
	case CellInjected:
		return "INJECTED"
	}
	return "NORMAL"
}

// TargetCell is one position of the target matrix.
type TargetCell struct {
	Position int
	Type     CellType
	Source   string
	Target   string
}

// Target is the target-side matrix, allocated to exactly the source size.
type Target struct {
	cells []TargetCell
}

// NewTarget allocates a target matrix of the given size. The isomorphism
// invariant |target| == |source| is fixed here.
func NewTarget(size int) *Target {
	t := &Target{cells: make([]TargetCell, size)}
	for i := range t.cells {
		t.cells[i].Position = i
	}
	return t
}

// Size is the number of positions.
func (t *Target) Size() int { return len(t.cells) }

// Isomorphic verifies the size invariant against a source matrix.
func (t *Target) Isomorphic(src *Source) bool {
	return len(t.cells) == src.Size()
}

func (t *Target) check(pos int) error {
	if pos < 0 || pos >= len(t.cells) {
		return fmt.Errorf("target matrix: position %d out of range [0,%d)", pos, len(t.cells))
	}
	return nil
}

// SetSource records the aligned source token for pos.
func (t *Target) SetSource(pos int, src string) error {
	if err := t.check(pos); err != nil {
		return err
	}
	t.cells[pos].Source = src
	return nil
}

// SetTarget writes resolved target text into a NORMAL cell.
func (t *Target) SetTarget(pos int, target string) error {
	if err := t.check(pos); err != nil {
		return err
	}
	t.cells[pos].Target = target
	return nil
}

// MarkLocution materializes a locution's target at its first member position.
func (t *Target) MarkLocution(pos int, target string) error {
	if err := t.check(pos); err != nil {
		return err
	}
	t.cells[pos].Type = CellLocution
	t.cells[pos].Target = target
	return nil
}

// MarkAbsorbed voids a non-first locution member position. The cell keeps its
// place but carries no independent content.
func (t *Target) MarkAbsorbed(pos int) error {
	if err := t.check(pos); err != nil {
		return err
	}
	t.cells[pos].Type = CellAbsorbed
	t.cells[pos].Target = ""
	return nil
}

// Cell returns a copy of the cell at pos.
func (t *Target) Cell(pos int) (TargetCell, bool) {
	if pos < 0 || pos >= len(t.cells) {
		return TargetCell{}, false
	}
	return t.cells[pos], true
}

// Cells returns copies of all cells in position order.
func (t *Target) Cells() []TargetCell {
	return append([]TargetCell(nil), t.cells...)
}
