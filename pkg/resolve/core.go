package resolve

import (
	"fmt"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/glossary"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/matrix"
)

// CoreResult is the two-variant outcome of core-word resolution. Provisional
// means the target was coined and written into the glossary as the new
// authority: the caller must re-fetch the glossary value instead of trusting
// Target directly.
type CoreResult struct {
	Target      string
	Provisional bool
	Margin      glossary.Margin
	Tag         glossary.Tag
}

// Final wraps an authoritative resolution.
func Final(target string, margin glossary.Margin) CoreResult {
	return CoreResult{Target: target, Margin: margin}
}

// Provisional wraps a coined resolution that requires a re-fetch.
func Provisional(target string, margin glossary.Margin, tag glossary.Tag) CoreResult {
	return CoreResult{Target: target, Provisional: true, Margin: margin, Tag: tag}
}

// CoreResolver resolves content-word slots: glossary cache, then lexicon,
// then the difficult-case fallback.
type CoreResolver struct {
	Lexicon Lexicon
}

// NewCoreResolver builds a resolver over the given lexicon (nil means the
// built-in one).
func NewCoreResolver(lex Lexicon) *CoreResolver {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &CoreResolver{Lexicon: lex}
}

// Resolve handles one core slot in the fixed priority order. Lexicon hits
// are written back so later occurrences hit the cache; coinages come back
// Provisional so the orchestrator re-fetches the authoritative value.
func (r *CoreResolver) Resolve(slot *matrix.Slot, g *glossary.Glossary) (CoreResult, error) {
	if slot.Blocked() {
		return CoreResult{}, fmt.Errorf("resolve core %q: slot is blocked", slot.Source)
	}
	if err := g.VerifyRegistered(slot.Source); err != nil {
		return CoreResult{}, err
	}

	// 1. Glossary cache hit. Never mutates.
	if e, ok := g.Entry(slot.Source); ok && e.Status == glossary.Assigned {
		return Final(e.Target, e.Margin), nil
	}

	// 2. Fixed lexicon, etymology first.
	if target, ok := r.Lexicon.Lookup(slot.Source); ok {
		if err := g.Assign(slot.Source, target, glossary.MarginDirect, glossary.TagNone); err != nil {
			return CoreResult{}, err
		}
		return Final(target, glossary.MarginDirect), nil
	}

	// 3. Difficult case: coin a neologism and make the glossary the
	// authority for it.
	coined, err := DifficultCase(slot.Source, slot.Grammar, NoRoot, nil)
	if err != nil {
		return CoreResult{}, err
	}
	if err := g.Assign(slot.Source, coined, glossary.MarginNoRoot, glossary.TagAutoNeologism); err != nil {
		return CoreResult{}, err
	}
	return Provisional(coined, glossary.MarginNoRoot, glossary.TagAutoNeologism), nil
}
