package resolve

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon is the fixed etymology-first lookup used before coining a
// neologism. Keys are lower-cased source tokens.
type Lexicon map[string]string

// DefaultLexicon returns the built-in etymological mappings.
func DefaultLexicon() Lexicon {
	return Lexicon{
		"kitab": "libro",
		"qalb":  "corazón",
		"aql":   "intelecto",
		"nur":   "luz",
		"dar":   "casa",
		"ilm":   "ciencia",
	}
}

// Lookup returns the mapped target for a token.
func (l Lexicon) Lookup(tok string) (string, bool) {
	t, ok := l[strings.ToLower(tok)]
	return t, ok
}

// lexiconFile is the YAML shape of a user lexicon: a flat token->target map
// under "entries".
type lexiconFile struct {
	Entries map[string]string `yaml:"entries"`
}

// LoadLexicon reads a YAML lexicon file and merges it over the defaults.
// User entries win.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: read %s: %w", path, err)
	}
	var lf lexiconFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("lexicon: parse %s: %w", path, err)
	}
	lex := DefaultLexicon()
	for k, v := range lf.Entries {
		lex[strings.ToLower(k)] = v
	}
	return lex, nil
}
