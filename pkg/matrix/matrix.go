// Package matrix holds the per-sentence positional alignment structures.
// A SourceMatrix and its TargetMatrix are ephemeral: rebuilt for every
// sentence of every translation request.
package matrix

import (
	"fmt"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/glossary"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

// SlotStatus is the per-slot state machine: PENDING moves to ASSIGNED on
// resolution or to BLOCKED on locution coverage. Both are terminal.
type SlotStatus int

const (
	SlotPending SlotStatus = iota
	SlotAssigned
	SlotBlocked
)

// Slot is one resolvable position, core or particle variant.
type Slot struct {
	Source   string
	Category token.Category
	Grammar  token.Grammar
	Position int
	Role     token.FuncRole
	Status   SlotStatus
	Target   string
	// LocutionID back-references the owning locution when blocked. The
	// locution owns the relationship, not the slot.
	LocutionID string
}

// Blocked reports whether the slot is covered by a locution.
func (s *Slot) Blocked() bool { return s.Status == SlotBlocked }

// Block marks the slot as owned by a locution. Terminal.
func (s *Slot) Block(locutionID string) {
	s.Status = SlotBlocked
	s.LocutionID = locutionID
}

// Resolve stores the resolved target. No-op on blocked slots.
func (s *Slot) Resolve(target string) {
	if s.Status == SlotBlocked {
		return
	}
	s.Target = target
	s.Status = SlotAssigned
}

// SourceCell is one position of the source matrix; it optionally links to a
// slot.
type SourceCell struct {
	Position int
	Token    string
	Slot     *Slot
}

// Source is the source-side matrix for one sentence: an ordered cell
// sequence plus the sentence's locution registry.
type Source struct {
	cells     []SourceCell
	cores     []*Slot
	particles []*Slot
	locutions []glossary.Locution
}

// NewSource returns an empty source matrix.
func NewSource() *Source {
	return &Source{}
}

// AddCell appends a cell for the next position and returns its index.
func (m *Source) AddCell(tok string) int {
	pos := len(m.cells)
	m.cells = append(m.cells, SourceCell{Position: pos, Token: tok})
	return pos
}

// AttachSlot links a slot to its cell and indexes it by category.
func (m *Source) AttachSlot(s *Slot) error {
	if s.Position < 0 || s.Position >= len(m.cells) {
		return fmt.Errorf("attach slot: position %d out of range [0,%d)", s.Position, len(m.cells))
	}
	m.cells[s.Position].Slot = s
	if s.Category == token.Nucleo {
		m.cores = append(m.cores, s)
	} else {
		m.particles = append(m.particles, s)
	}
	return nil
}

// AddLocution registers a locution for this sentence and blocks every member
// slot.
func (m *Source) AddLocution(loc glossary.Locution) {
	m.locutions = append(m.locutions, loc)
	for _, pos := range loc.Positions {
		if pos >= 0 && pos < len(m.cells) && m.cells[pos].Slot != nil {
			m.cells[pos].Slot.Block(loc.ID)
		}
	}
}

// Size is the number of positions in the sentence.
func (m *Source) Size() int { return len(m.cells) }

// TokenAt returns the source token at pos.
func (m *Source) TokenAt(pos int) string {
	if pos < 0 || pos >= len(m.cells) {
		return ""
	}
	return m.cells[pos].Token
}

// SlotAt returns the slot linked at pos, or nil.
func (m *Source) SlotAt(pos int) *Slot {
	if pos < 0 || pos >= len(m.cells) {
		return nil
	}
	return m.cells[pos].Slot
}

// LocutionAt returns the locution covering pos, if any.
func (m *Source) LocutionAt(pos int) (glossary.Locution, bool) {
	for _, l := range m.locutions {
		if l.Covers(pos) {
			return l, true
		}
	}
	return glossary.Locution{}, false
}

// CoreSlots returns the core slots in position order.
func (m *Source) CoreSlots() []*Slot { return m.cores }

// ParticleSlots returns the particle slots in position order.
func (m *Source) ParticleSlots() []*Slot { return m.particles }

// Locutions returns the locutions registered for this sentence.
func (m *Source) Locutions() []glossary.Locution { return m.locutions }
