// Package glossary is the single source of truth for token translations.
// Entries are owned exclusively by the Glossary and mutated only through its
// operations; everything else reads copies.
package glossary

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

// Status is the lifecycle state of a glossary entry or slot.
type Status int

const (
	Pending Status = iota
	Assigned
	Blocked
)

func (s Status) String() string {
	switch s {
	case Assigned:
		return "ASSIGNED"
	case Blocked:
		return "BLOCKED"
	}
	return "PENDING"
}

// Margin is the ranked confidence tier of a resolution. Higher values flag
// harder decisions and win tie-breaks.
type Margin int

const (
	MarginDirect          Margin = 1 // DIRECT_1:1
	MarginAlt             Margin = 2 // ALT_1:1
	MarginTransliteration Margin = 3
	MarginGapDerivation   Margin = 4
	MarginNoRoot          Margin = 4
	MarginCollision       Margin = 5
	MarginIdiom           Margin = 6
)

// Tag marks the provenance of an assignment.
type Tag string

const (
	TagNone          Tag = ""
	TagAutoNeologism Tag = "AUTO_NEOLOGISM"
	TagForcedByUser  Tag = "FORCED_BY_USER"
	TagConflict      Tag = "CONFLICT"
)

// Entry is one glossary record. The Source field is the case-normalized key.
type Entry struct {
	Source      string
	Category    token.Category
	Target      string
	Status      Status
	Margin      Margin
	Occurrences []int
	Tag         Tag
	// ByRole holds alternate translations keyed by the particle's syntactic
	// function, when one has been recorded.
	ByRole map[token.FuncRole]string
}

// Glossary maps source tokens to their accepted targets and keeps the
// locution registry. It is not safe for concurrent use; the engine is
// single-threaded by design.
type Glossary struct {
	entries   map[string]*Entry
	locutions map[string]*Locution
	locOrder  []string
}

// New returns an empty glossary.
func New() *Glossary {
	return &Glossary{
		entries:   make(map[string]*Entry),
		locutions: make(map[string]*Locution),
	}
}

// Len reports the number of entries.
func (g *Glossary) Len() int { return len(g.entries) }

// RegisterOccurrences records a classified batch. Unknown tokens get a fresh
// PENDING entry; known tokens accumulate the new occurrence positions. A
// negative position registers the token without recording an occurrence, for
// callers that hold no source text. A single call processes its batch exactly
// once.
func (g *Glossary) RegisterOccurrences(batch []token.Classified) {
	for _, c := range batch {
		key := token.Key(c.Text)
		if key == "" {
			continue
		}
		e, ok := g.entries[key]
		if !ok {
			e = &Entry{
				Source:   key,
				Category: c.Category,
				Status:   Pending,
			}
			g.entries[key] = e
		}
		if c.Position >= 0 {
			e.Occurrences = append(e.Occurrences, c.Position)
		}
	}
}

// VerifyRegistered fails with ErrTokenNotRegistered for unseen tokens.
func (g *Glossary) VerifyRegistered(tok string) error {
	if _, ok := g.entries[token.Key(tok)]; !ok {
		return fmt.Errorf("%q: %w", tok, ErrTokenNotRegistered)
	}
	return nil
}

// VerifyBlocked returns the owning locution id when the token is a registered
// locution component.
func (g *Glossary) VerifyBlocked(tok string) (string, bool) {
	key := token.Key(tok)
	for _, id := range g.locOrder {
		loc := g.locutions[id]
		for _, comp := range loc.Components {
			if token.Key(comp) == key {
				return loc.ID, true
			}
		}
	}
	return "", false
}

// Assign sets target, status and margin for a registered token. A core entry
// that is already ASSIGNED with a different target rejects the write and
// returns a *SynonymyConflictError unless the new write carries
// TagForcedByUser; the entry is left flagged TagConflict for review.
func (g *Glossary) Assign(tok, target string, margin Margin, tag Tag) error {
	key := token.Key(tok)
	e, ok := g.entries[key]
	if !ok {
		return fmt.Errorf("assign %q: %w", tok, ErrTokenNotRegistered)
	}
	if e.Category == token.Nucleo && e.Status == Assigned && e.Target != target && tag != TagForcedByUser {
		e.Tag = TagConflict
		return &SynonymyConflictError{Token: key, Assigned: e.Target, Proposed: target}
	}
	e.Target = target
	e.Status = Assigned
	e.Margin = margin
	e.Tag = tag
	return nil
}

// AssignRole records a role-specific alternate translation for a particle.
func (g *Glossary) AssignRole(tok string, role token.FuncRole, target string) error {
	e, ok := g.entries[token.Key(tok)]
	if !ok {
		return fmt.Errorf("assign role %q: %w", tok, ErrTokenNotRegistered)
	}
	if e.ByRole == nil {
		e.ByRole = make(map[token.FuncRole]string)
	}
	e.ByRole[role] = target
	return nil
}

// ForceUpdate overwrites the target unconditionally, tagging the entry
// FORCED_BY_USER. Returns the number of recorded occurrences affected.
func (g *Glossary) ForceUpdate(tok, newTarget string) (int, error) {
	key := token.Key(tok)
	e, ok := g.entries[key]
	if !ok {
		return 0, fmt.Errorf("update %q: %w", tok, ErrTokenNotRegistered)
	}
	e.Target = newTarget
	e.Status = Assigned
	e.Tag = TagForcedByUser
	return len(e.Occurrences), nil
}

// AddEntry creates an entry outside the registration pass, e.g. from the
// command surface. A non-empty target makes it ASSIGNED immediately.
func (g *Glossary) AddEntry(tok string, cat token.Category, target string) error {
	key := token.Key(tok)
	if key == "" {
		return fmt.Errorf("add entry: empty token")
	}
	if _, ok := g.entries[key]; ok {
		return fmt.Errorf("add %q: %w", tok, ErrDuplicateEntry)
	}
	e := &Entry{Source: key, Category: cat, Target: target}
	if target != "" {
		e.Status = Assigned
		e.Margin = MarginDirect
	}
	g.entries[key] = e
	return nil
}

// DeleteEntry removes an entry wholesale and returns the occurrence count
// that was discarded with it. Occurrence lists are never partially
// decremented.
func (g *Glossary) DeleteEntry(tok string) (int, error) {
	key := token.Key(tok)
	e, ok := g.entries[key]
	if !ok {
		return 0, fmt.Errorf("delete %q: %w", tok, ErrTokenNotRegistered)
	}
	n := len(e.Occurrences)
	delete(g.entries, key)
	return n, nil
}

// Lookup returns the current target for a token, if any. Pure read.
func (g *Glossary) Lookup(tok string) (string, bool) {
	e, ok := g.entries[token.Key(tok)]
	if !ok || e.Target == "" {
		return "", false
	}
	return e.Target, true
}

// Entry returns a copy of the entry for a token. Mutating the copy has no
// effect on the glossary.
func (g *Glossary) Entry(tok string) (Entry, bool) {
	e, ok := g.entries[token.Key(tok)]
	if !ok {
		return Entry{}, false
	}
	return copyEntry(e), true
}

// Entries returns copies of all entries sorted by source token.
func (g *Glossary) Entries() []Entry {
	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, copyEntry(g.entries[k]))
	}
	return out
}

func copyEntry(e *Entry) Entry {
	cp := *e
	cp.Occurrences = append([]int(nil), e.Occurrences...)
	if e.ByRole != nil {
		cp.ByRole = make(map[token.FuncRole]string, len(e.ByRole))
		for k, v := range e.ByRole {
			cp.ByRole[k] = v
		}
	}
	return cp
}

// RegisterLocution creates a locution with a fresh identifier and blocks each
// component entry. Components missing from the registration pass are created
// on the spot so the block is never lost.
func (g *Glossary) RegisterLocution(src string, components []string, positions []int, target string) (*Locution, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("register locution %q: no components", src)
	}
	loc := &Locution{
		ID:         uuid.NewString(),
		Source:     src,
		Components: append([]string(nil), components...),
		Positions:  append([]int(nil), positions...),
		Target:     target,
	}
	for _, comp := range components {
		key := token.Key(comp)
		e, ok := g.entries[key]
		if !ok {
			e = &Entry{Source: key, Category: token.Nucleo}
			g.entries[key] = e
		}
		e.Status = Blocked
	}
	g.locutions[loc.ID] = loc
	g.locOrder = append(g.locOrder, loc.ID)
	return loc, nil
}

// RemoveLocution drops a locution from the registry. Component entries go
// back to PENDING unless they carry a target.
func (g *Glossary) RemoveLocution(id string) bool {
	loc, ok := g.locutions[id]
	if !ok {
		return false
	}
	for _, comp := range loc.Components {
		if e, ok := g.entries[token.Key(comp)]; ok && e.Status == Blocked {
			if e.Target != "" {
				e.Status = Assigned
			} else {
				e.Status = Pending
			}
		}
	}
	delete(g.locutions, id)
	for i, lid := range g.locOrder {
		if lid == id {
			g.locOrder = append(g.locOrder[:i], g.locOrder[i+1:]...)
			break
		}
	}
	return true
}

// Locution returns a copy of the locution with the given id.
func (g *Glossary) Locution(id string) (Locution, bool) {
	loc, ok := g.locutions[id]
	if !ok {
		return Locution{}, false
	}
	return loc.copy(), true
}

// Locutions returns copies of all locutions in registration order.
func (g *Glossary) Locutions() []Locution {
	out := make([]Locution, 0, len(g.locOrder))
	for _, id := range g.locOrder {
		out = append(out, g.locutions[id].copy())
	}
	return out
}

// RestoreEntry reinstates a persisted entry verbatim. Intended for the
// persistence layer; AddEntry and Assign are the online paths.
func (g *Glossary) RestoreEntry(e Entry) error {
	key := token.Key(e.Source)
	if key == "" {
		return fmt.Errorf("restore entry: empty token")
	}
	if _, ok := g.entries[key]; ok {
		return fmt.Errorf("restore %q: %w", e.Source, ErrDuplicateEntry)
	}
	cp := copyEntry(&e)
	cp.Source = key
	g.entries[key] = &cp
	return nil
}

// RestoreLocution reinstates a persisted locution with its original id.
// Component entry statuses are restored separately by RestoreEntry.
func (g *Glossary) RestoreLocution(l Locution) error {
	if l.ID == "" {
		return fmt.Errorf("restore locution %q: empty id", l.Source)
	}
	if _, ok := g.locutions[l.ID]; ok {
		return fmt.Errorf("restore locution %q: %w", l.Source, ErrDuplicateEntry)
	}
	cp := (&l).copy()
	g.locutions[l.ID] = &cp
	g.locOrder = append(g.locOrder, l.ID)
	return nil
}

// Snapshot captures a deep copy of the glossary for later rollback.
type Snapshot struct {
	entries   map[string]*Entry
	locutions map[string]*Locution
	locOrder  []string
}

// Snapshot returns a point-in-time copy of all state.
func (g *Glossary) Snapshot() *Snapshot {
	s := &Snapshot{
		entries:   make(map[string]*Entry, len(g.entries)),
		locutions: make(map[string]*Locution, len(g.locutions)),
		locOrder:  append([]string(nil), g.locOrder...),
	}
	for k, e := range g.entries {
		cp := copyEntry(e)
		s.entries[k] = &cp
	}
	for k, l := range g.locutions {
		cp := l.copy()
		s.locutions[k] = &cp
	}
	return s
}

// Restore rewinds the glossary to a snapshot taken earlier.
func (g *Glossary) Restore(s *Snapshot) {
	g.entries = make(map[string]*Entry, len(s.entries))
	for k, e := range s.entries {
		cp := copyEntry(e)
		g.entries[k] = &cp
	}
	g.locutions = make(map[string]*Locution, len(s.locutions))
	for k, l := range s.locutions {
		cp := l.copy()
		g.locutions[k] = &cp
	}
	g.locOrder = append([]string(nil), s.locOrder...)
}
