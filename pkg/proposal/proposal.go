// Package proposal is the boundary to the external AI annotation service.
// Every proposal is untrusted: the glossary always wins and mismatches are
// tagged CONFLICT, never silently resolved.
package proposal

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/glossary"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

// Proposal is one annotated token returned by the provider.
type Proposal struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Category  string `json:"category"`
	Grammar   string `json:"grammar"`
	Root      string `json:"root"`
	Rationale string `json:"rationale"`
}

// Provider produces ordered proposals for a source text given the current
// glossary contents. It must return a complete result or an explicit error;
// no partial consumption is defined.
type Provider interface {
	Propose(ctx context.Context, text string, current map[string]string) ([]Proposal, error)
}

// Verdict says how one proposal was reconciled against the glossary.
type Verdict int

const (
	// Accepted: the token was unassigned and the proposal was taken.
	Accepted Verdict = iota
	// Confirmed: the proposal agrees with the assigned glossary value.
	Confirmed
	// Conflict: the glossary value overrides a differing proposal.
	Conflict
	// Skipped: the proposal was unusable (empty token or target).
	Skipped
)

func (v Verdict) String() string {
	switch v {
	case Confirmed:
		return "CONFIRMED"
	case Conflict:
		return "CONFLICT"
	case Skipped:
		return "SKIPPED"
	}
	return "ACCEPTED"
}

// Annotation pairs a proposal with its reconciliation verdict.
type Annotation struct {
	Proposal Proposal
	Verdict  Verdict
	// Kept is the value the glossary holds after reconciliation.
	Kept string
}

// Reconcile applies untrusted proposals to the glossary. Assigned glossary
// entries override the proposal; a mismatch flags the entry CONFLICT.
// Unassigned tokens take the proposal at the ALT_1:1 margin. Proposals for
// never-registered tokens are registered first, with no occurrence position:
// the provider holds no source text, so its list order says nothing about
// where the token appears.
func Reconcile(g *glossary.Glossary, proposals []Proposal) ([]Annotation, error) {
	out := make([]Annotation, 0, len(proposals))
	for _, p := range proposals {
		if token.Key(p.Source) == "" || p.Target == "" {
			out = append(out, Annotation{Proposal: p, Verdict: Skipped})
			continue
		}

		if err := g.VerifyRegistered(p.Source); err != nil {
			cat, _ := token.Classify(p.Source)
			if p.Category == token.Particula.String() {
				cat = token.Particula
			}
			g.RegisterOccurrences([]token.Classified{{
				Text:     p.Source,
				Category: cat,
				Position: -1,
			}})
		}

		entry, _ := g.Entry(p.Source)
		if entry.Status == glossary.Assigned {
			if entry.Target == p.Target {
				out = append(out, Annotation{Proposal: p, Verdict: Confirmed, Kept: entry.Target})
				continue
			}
			// Glossary overrides. For core entries the rejected write
			// leaves the CONFLICT flag on the entry for review; anything
			// other than the expected conflict error is a real failure.
			if entry.Category == token.Nucleo {
				err := g.Assign(p.Source, p.Target, glossary.MarginAlt, glossary.TagNone)
				var conflict *glossary.SynonymyConflictError
				if err != nil && !errors.As(err, &conflict) {
					return out, fmt.Errorf("reconcile %q: %w", p.Source, err)
				}
			}
			out = append(out, Annotation{Proposal: p, Verdict: Conflict, Kept: entry.Target})
			continue
		}

		if err := g.Assign(p.Source, p.Target, glossary.MarginAlt, glossary.TagNone); err != nil {
			out = append(out, Annotation{Proposal: p, Verdict: Skipped})
			continue
		}
		out = append(out, Annotation{Proposal: p, Verdict: Accepted, Kept: p.Target})
	}
	return out, nil
}
