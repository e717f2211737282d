package resolve

import (
	"errors"
	"strings"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

// Reason says why a slot landed in the difficult-case resolver.
type Reason int

const (
	NoRoot Reason = iota
	GapDerivation
	Collision
	Idiom
)

func (r Reason) String() string {
	switch r {
	case GapDerivation:
		return "GAP_DERIVATION"
	case Collision:
		return "COLLISION"
	case Idiom:
		return "IDIOM"
	}
	return "NO_ROOT"
}

// ErrNoCandidates is returned for a COLLISION call without a ranked list.
var ErrNoCandidates = errors.New("collision without candidates")

// suffixes holds the placeholder morphological suffixes keyed by grammatical
// category. The first suffix of a category is its default coinage form.
var suffixes = map[token.Grammar][]string{
	token.Sustantivo: {"-a", "-o", "-e", "-idad", "-ción", "-miento", "-dor", "-nte"},
	token.Adjetivo:   {"-al", "-ico", "-oso", "-ado", "-ido"},
	token.Verbo:      {"-ar", "-ificar", "-izar"},
	token.Adverbio:   {"-mente"},
}

// SuffixFor selects the placeholder suffix for a grammatical category;
// categories without a table fall back to the participial "-ado".
func SuffixFor(g token.Grammar) string {
	if s, ok := suffixes[g]; ok && len(s) > 0 {
		return s[0]
	}
	return "-ado"
}

// DifficultCase is the pure fallback strategy for unmapped, colliding or
// idiomatic tokens. It never mutates shared state; the caller persists the
// result.
//
//   - NoRoot / GapDerivation: transliterate and append the category suffix.
//   - Collision: first entry of the caller-ranked candidate list.
//   - Idiom: transliterate the whole phrase, no suffixing.
func DifficultCase(tok string, grammar token.Grammar, reason Reason, candidates []string) (string, error) {
	switch reason {
	case Collision:
		if len(candidates) == 0 {
			return "", ErrNoCandidates
		}
		return candidates[0], nil
	case Idiom:
		return Transliterate(tok), nil
	}
	root := strings.TrimRight(Transliterate(tok), "-")
	return root + SuffixFor(grammar), nil
}
