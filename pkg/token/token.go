// Package token splits source text into sentences and word tokens and tags
// each token with its grammatical category. All functions are pure: the same
// input always produces the same output and nothing is mutated.
package token

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Category separates content words from function words.
type Category int

const (
	// Nucleo covers nouns, verbs, adjectives and adverbs. Their translation,
	// once fixed in the glossary, is immutable unless forced by the user.
	Nucleo Category = iota
	// Particula covers prepositions, conjunctions and pronouns. Their mapping
	// is context-dependent.
	Particula
)

func (c Category) String() string {
	if c == Particula {
		return "PARTICULA"
	}
	return "NUCLEO"
}

// Grammar is the flat grammatical tag attached to a token. There is no real
// morphological analysis behind it, only closed-set lookup.
type Grammar int

const (
	Sustantivo Grammar = iota
	Verbo
	Adjetivo
	Adverbio
	Preposicion
	Conjuncion
	Pronombre
)

var grammarNames = map[Grammar]string{
	Sustantivo:  "SUSTANTIVO",
	Verbo:       "VERBO",
	Adjetivo:    "ADJETIVO",
	Adverbio:    "ADVERBIO",
	Preposicion: "PREPOSICION",
	Conjuncion:  "CONJUNCION",
	Pronombre:   "PRONOMBRE",
}

func (g Grammar) String() string {
	if s, ok := grammarNames[g]; ok {
		return s
	}
	return "SUSTANTIVO"
}

// FuncRole is the syntactic function a particle performs in its sentence.
// Particles are polyvalent: the same surface form can map to different
// targets depending on its role, so resolvers accept the role as an extra
// lookup key.
type FuncRole int

const (
	RoleNone FuncRole = iota
	RoleCopula
	RoleRegimen
	RoleDeterminacion
	RoleNexoLogico
	RoleMarcaCasual
	RoleAdverbial
	RoleRelativo
)

func (r FuncRole) String() string {
	switch r {
	case RoleCopula:
		return "COPULA"
	case RoleRegimen:
		return "REGIMEN"
	case RoleDeterminacion:
		return "DETERMINACION"
	case RoleNexoLogico:
		return "NEXO_LOGICO"
	case RoleMarcaCasual:
		return "MARCA_CASUAL"
	case RoleAdverbial:
		return "ADVERBIAL"
	case RoleRelativo:
		return "RELATIVO"
	}
	return "NONE"
}

// Classified is one token of a sentence together with its classification and
// its position in the registration pass.
type Classified struct {
	Text     string
	Category Category
	Grammar  Grammar
	Position int
}

// wordPattern admits Latin letters, digits, underscore and the Arabic blocks
// (0600-06FF, 0750-077F via \p{L}); mixed-script input is expected.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Normalize puts text into NFC form so that glossary keys compare byte-wise.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Key is the case-normalized glossary key form of a token.
func Key(tok string) string {
	return strings.ToLower(strings.TrimSpace(Normalize(tok)))
}

// Tokenize returns the ordered word tokens of text.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(Normalize(text), -1)
}

// sentence-initial forms: upper-case Latin (including accented vowels) or the
// Arabic alif variants that open a sentence.
func isInitial(r rune) bool {
	if unicode.IsUpper(r) {
		return true
	}
	switch r {
	case 'أ', 'إ', 'آ':
		return true
	}
	return false
}

// SplitSentences splits text on sentence-final punctuation (., !, ?) followed
// by whitespace and an initial letter. Empty results are trimmed and dropped.
func SplitSentences(text string) []string {
	text = Normalize(text)
	runes := []rune(text)
	var sentences []string
	var current []rune

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current = append(current, r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Look ahead: whitespace run then a sentence-initial letter.
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !isInitial(runes[j]) {
			continue
		}
		sentences = append(sentences, string(current))
		current = nil
		i = j - 1
	}
	if len(current) > 0 {
		sentences = append(sentences, string(current))
	}

	var out []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Closed sets for the classifier. Anything outside them defaults to a
// core noun.
var (
	prepositions = map[string]struct{}{
		"bi": {}, "li": {}, "fi": {}, "min": {}, "ʿan": {}, "ʿalā": {},
		"ilā": {}, "maʿa": {}, "bayna": {},
	}
	conjunctions = map[string]struct{}{
		"wa": {}, "fa": {}, "aw": {}, "inna": {}, "anna": {},
	}
	pronouns = map[string]struct{}{
		"huwa": {}, "hiya": {}, "anta": {}, "anti": {}, "ana": {},
		"naḥnu": {}, "hum": {},
	}
)

// Classify tags a single token. Stable for identical input, no side effects.
func Classify(tok string) (Category, Grammar) {
	t := Key(tok)
	if _, ok := prepositions[t]; ok {
		return Particula, Preposicion
	}
	if _, ok := conjunctions[t]; ok {
		return Particula, Conjuncion
	}
	if _, ok := pronouns[t]; ok {
		return Particula, Pronombre
	}
	return Nucleo, Sustantivo
}

// ClassifyAll tokenizes and classifies a whole text, numbering positions from
// base. It is the registration form consumed by the glossary.
func ClassifyAll(text string, base int) []Classified {
	toks := Tokenize(text)
	out := make([]Classified, 0, len(toks))
	for i, tok := range toks {
		cat, gram := Classify(tok)
		out = append(out, Classified{
			Text:     tok,
			Category: cat,
			Grammar:  gram,
			Position: base + i,
		})
	}
	return out
}
