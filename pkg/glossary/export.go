package glossary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

func categoryFromString(s string) token.Category {
	if s == "PARTICULA" {
		return token.Particula
	}
	return token.Nucleo
}

// Format selects an export serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

// ErrUnknownFormat is returned by Export for unsupported formats.
var ErrUnknownFormat = fmt.Errorf("unknown export format")

// exportedEntry is the JSON shape: target plus category, keyed by token.
type exportedEntry struct {
	Target   string `json:"target"`
	Category string `json:"category"`
}

// Export serializes the glossary deterministically (token-sorted). It never
// mutates state.
func (g *Glossary) Export(format Format) (string, error) {
	entries := g.Entries()
	switch format {
	case FormatJSON:
		m := make(map[string]exportedEntry, len(entries))
		for _, e := range entries {
			m[e.Source] = exportedEntry{Target: e.Target, Category: e.Category.String()}
		}
		b, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return "", fmt.Errorf("export json: %w", err)
		}
		return string(b), nil
	case FormatCSV:
		var sb strings.Builder
		sb.WriteString("token,target\n")
		for _, e := range entries {
			sb.WriteString(e.Source)
			sb.WriteString(",")
			sb.WriteString(e.Target)
			sb.WriteString("\n")
		}
		return sb.String(), nil
	case FormatText:
		if len(entries) == 0 {
			return "(empty)", nil
		}
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			tgt := e.Target
			if tgt == "" {
				tgt = "[PENDING]"
			}
			lines = append(lines, fmt.Sprintf("%s -> %s", e.Source, tgt))
		}
		return strings.Join(lines, "\n"), nil
	}
	return "", fmt.Errorf("%q: %w", format, ErrUnknownFormat)
}

// ImportJSON merges a previously exported JSON mapping back into the
// glossary. Existing entries keep their occurrence history; targets from the
// import win only where the entry has none.
func (g *Glossary) ImportJSON(data []byte) error {
	var m map[string]exportedEntry
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("import json: %w", err)
	}
	for tok, exp := range m {
		e, ok := g.entries[tok]
		if !ok {
			cat := categoryFromString(exp.Category)
			if err := g.AddEntry(tok, cat, exp.Target); err != nil {
				return err
			}
			continue
		}
		if e.Target == "" && exp.Target != "" {
			e.Target = exp.Target
			e.Status = Assigned
		}
	}
	return nil
}
