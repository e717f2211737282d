// Package engine drives the fixed per-sentence translation pipeline against
// the glossary and the alignment matrices. Sentences are processed strictly
// in order: core-word resolution may mutate the shared glossary and later
// slots must observe that mutation.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/glossary"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/matrix"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/resolve"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

// ErrIsomorphismBroken reports a size mismatch between source and target
// matrices. Fatal for the sentence, never silently patched.
var ErrIsomorphismBroken = errors.New("isomorphism broken: matrix size mismatch")

// Result is the outcome bundle of one sentence.
type Result struct {
	OK      bool
	Target  *matrix.Target
	Message string
}

// Engine owns the orchestration. The glossary instance is passed in
// explicitly; there is no ambient global state.
type Engine struct {
	glossary  *glossary.Glossary
	cores     *resolve.CoreResolver
	particles *resolve.ParticleResolver
	state     *State
	log       *zap.Logger
}

// New wires an engine over an explicitly owned glossary.
func New(g *glossary.Glossary, cores *resolve.CoreResolver, logger *zap.Logger) *Engine {
	if cores == nil {
		cores = resolve.NewCoreResolver(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		glossary:  g,
		cores:     cores,
		particles: resolve.NewParticleResolver(),
		state:     NewState(),
		log:       logger,
	}
}

// State exposes the process report.
func (e *Engine) State() *State { return e.state }

// Glossary exposes the engine's glossary for the command surface.
func (e *Engine) Glossary() *glossary.Glossary { return e.glossary }

// BuildSourceMatrix tokenizes and classifies one sentence into a populated
// source matrix, attaching any registered locutions whose component sequence
// occurs in the sentence.
func (e *Engine) BuildSourceMatrix(sentence string) (*matrix.Source, error) {
	m := matrix.NewSource()
	toks := token.Tokenize(sentence)
	for _, tok := range toks {
		pos := m.AddCell(tok)
		cat, gram := token.Classify(tok)
		slot := &matrix.Slot{
			Source:   tok,
			Category: cat,
			Grammar:  gram,
			Position: pos,
		}
		if err := m.AttachSlot(slot); err != nil {
			return nil, err
		}
	}

	for _, loc := range e.glossary.Locutions() {
		if positions, ok := matchComponents(toks, loc.Components); ok {
			bound := loc
			bound.Positions = positions
			m.AddLocution(bound)
		}
	}
	return m, nil
}

// matchComponents finds the first consecutive occurrence of components in
// toks and returns the covered positions.
func matchComponents(toks, components []string) ([]int, bool) {
	if len(components) == 0 || len(components) > len(toks) {
		return nil, false
	}
	for start := 0; start+len(components) <= len(toks); start++ {
		match := true
		for i, comp := range components {
			if token.Key(toks[start+i]) != token.Key(comp) {
				match = false
				break
			}
		}
		if match {
			positions := make([]int, len(components))
			for i := range components {
				positions[i] = start + i
			}
			return positions, true
		}
	}
	return nil, false
}

// ProcessSentence runs the fixed pipeline over a populated source matrix.
// A failure on one slot does not abort the sentence: the bracketed source
// placeholder stands in and processing continues.
func (e *Engine) ProcessSentence(mtxS *matrix.Source) (Result, error) {
	mtxT := matrix.NewTarget(mtxS.Size())
	if !mtxT.Isomorphic(mtxS) {
		return Result{}, fmt.Errorf("%w: source %d, target %d", ErrIsomorphismBroken, mtxS.Size(), mtxT.Size())
	}

	// Core slots first; provisional results are re-fetched from the
	// glossary, which is the authority for coined values.
	for _, slot := range mtxS.CoreSlots() {
		if slot.Blocked() {
			continue
		}
		res, err := e.cores.Resolve(slot, e.glossary)
		if err != nil {
			var conflict *glossary.SynonymyConflictError
			if errors.As(err, &conflict) {
				e.log.Warn("synonymy conflict flagged for review",
					zap.String("token", conflict.Token),
					zap.String("assigned", conflict.Assigned),
					zap.String("proposed", conflict.Proposed))
				slot.Resolve(conflict.Assigned)
				continue
			}
			e.log.Warn("core slot unresolved",
				zap.String("token", slot.Source),
				zap.Int("position", slot.Position),
				zap.Error(err))
			e.state.Errors++
			continue
		}
		target := res.Target
		if res.Provisional {
			authoritative, ok := e.glossary.Lookup(slot.Source)
			if !ok {
				e.state.Errors++
				continue
			}
			target = authoritative
		}
		slot.Resolve(target)
	}

	// Positional mapping: locutions collapse to their first member
	// position, every other member is absorbed; plain core slots copy
	// their resolved target.
	for pos := 0; pos < mtxS.Size(); pos++ {
		if err := mtxT.SetSource(pos, mtxS.TokenAt(pos)); err != nil {
			return Result{}, err
		}
		if loc, ok := mtxS.LocutionAt(pos); ok {
			if pos == loc.First() {
				if err := mtxT.MarkLocution(pos, loc.Target); err != nil {
					return Result{}, err
				}
			} else if err := mtxT.MarkAbsorbed(pos); err != nil {
				return Result{}, err
			}
			continue
		}
		if slot := mtxS.SlotAt(pos); slot != nil && slot.Category == token.Nucleo && slot.Target != "" {
			if err := mtxT.SetTarget(pos, slot.Target); err != nil {
				return Result{}, err
			}
		}
	}

	// Particle slots, first candidate wins.
	for _, slot := range mtxS.ParticleSlots() {
		if slot.Blocked() {
			continue
		}
		candidates := e.particles.Resolve(slot)
		slot.Resolve(candidates[0])
		if err := mtxT.SetTarget(slot.Position, candidates[0]); err != nil {
			return Result{}, err
		}
	}

	return Result{OK: true, Target: mtxT, Message: "OK"}, nil
}

// Serialize concatenates non-ABSORBED target cells in position order; cells
// that never got a target keep the bracket-wrapped source token visible.
func Serialize(mtxT *matrix.Target) string {
	var parts []string
	for _, c := range mtxT.Cells() {
		if c.Type == matrix.CellAbsorbed {
			continue
		}
		if c.Target == "" {
			parts = append(parts, "["+c.Source+"]")
			continue
		}
		parts = append(parts, c.Target)
	}
	return strings.Join(parts, " ")
}

// Translate runs the full pipeline over a text: sentence split, registration
// pass, then strictly ordered per-sentence resolution. The glossary is
// snapshotted up front; a fatal failure rolls every write of this batch back
// so prior committed state stays intact.
func (e *Engine) Translate(text string) (string, error) {
	if e.state.Paused {
		return "", errors.New("engine is paused")
	}

	sentences := token.SplitSentences(text)
	e.state.Phase = "REGISTRO"
	e.state.Total = len(sentences)
	e.state.Translated = 0

	base := 0
	for _, s := range sentences {
		batch := token.ClassifyAll(s, base)
		e.glossary.RegisterOccurrences(batch)
		base += len(batch)
	}
	e.state.GlossaryCount = e.glossary.Len()

	snap := e.glossary.Snapshot()
	e.state.Phase = "TRADUCCION"

	results := make([]string, 0, len(sentences))
	for i, sentence := range sentences {
		mtxS, err := e.BuildSourceMatrix(sentence)
		if err == nil {
			var res Result
			res, err = e.ProcessSentence(mtxS)
			if err == nil {
				results = append(results, Serialize(res.Target))
			}
		}
		if err != nil {
			e.glossary.Restore(snap)
			e.state.Errors++
			e.state.Phase = "ERROR"
			e.state.GlossaryCount = e.glossary.Len()
			return "", fmt.Errorf("sentence %d: %w", i, err)
		}
		e.state.Translated = i + 1
		e.state.GlossaryCount = e.glossary.Len()
	}

	e.state.Phase = "COMPLETO"
	return strings.Join(results, " "), nil
}
