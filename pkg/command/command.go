// Package command is the thin dispatch layer over the glossary and process
// state. Failures come back as structured results, never as uncaught faults.
package command

import (
	"fmt"
	"strings"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/engine"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/glossary"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

// Result is the structured outcome of one command.
type Result struct {
	OK                bool
	Message           string
	NeedsConfirmation bool
}

// Processor parses command lines and applies them. Destructive verbs
// (UPDATE, DELETE, RESET) hold one pending action: the next input must be an
// affirmative token to execute, anything else cancels without mutation.
type Processor struct {
	glossary  *glossary.Glossary
	state     *engine.State
	callbacks map[string]func()
	pending   func() Result
}

// NewProcessor wires a processor over the shared glossary and state.
func NewProcessor(g *glossary.Glossary, st *engine.State) *Processor {
	return &Processor{
		glossary:  g,
		state:     st,
		callbacks: make(map[string]func()),
	}
}

// SetCallback registers a hook for PAUSE / RESUME / RESET.
func (p *Processor) SetCallback(verb string, fn func()) {
	p.callbacks[strings.ToUpper(verb)] = fn
}

// Pending reports whether a two-step command is waiting for confirmation.
func (p *Processor) Pending() bool { return p.pending != nil }

var affirmatives = map[string]struct{}{
	"si": {}, "s": {}, "yes": {}, "y": {},
}

// Process handles one input line.
func (p *Processor) Process(input string) Result {
	input = strings.TrimSpace(input)
	if p.pending != nil {
		return p.confirm(input)
	}

	input = strings.Trim(input, "[]")
	verb, args, _ := strings.Cut(input, " ")
	verb = strings.ToUpper(verb)
	args = strings.TrimSpace(args)

	switch verb {
	case "GLOSSARY":
		out, err := p.glossary.Export(glossary.FormatText)
		if err != nil {
			return Result{Message: err.Error()}
		}
		return Result{OK: true, Message: out}

	case "LOCUTIONS":
		return Result{OK: true, Message: p.formatLocutions()}

	case "ADD":
		return p.add(args)

	case "UPDATE":
		return p.update(args)

	case "DELETE":
		return p.delete(args)

	case "STATUS":
		return Result{OK: true, Message: p.state.Report()}

	case "PAUSE":
		p.state.Paused = true
		p.fire("PAUSE")
		return Result{OK: true, Message: "Paused"}

	case "RESUME":
		p.state.Paused = false
		p.fire("RESUME")
		return Result{OK: true, Message: "Resumed"}

	case "RESET":
		p.pending = func() Result {
			p.state.Reset()
			p.fire("RESET")
			return Result{OK: true, Message: "Reset done"}
		}
		return Result{OK: true, Message: "Reset the system?", NeedsConfirmation: true}

	case "EXPORT":
		return p.export(args)

	case "HELP":
		return Result{OK: true, Message: helpText}
	}

	return Result{Message: fmt.Sprintf("unknown command %q, try HELP", verb)}
}

func (p *Processor) confirm(input string) Result {
	action := p.pending
	p.pending = nil
	if _, ok := affirmatives[strings.ToLower(input)]; ok {
		return action()
	}
	return Result{OK: true, Message: "Cancelled"}
}

func (p *Processor) fire(verb string) {
	if fn, ok := p.callbacks[verb]; ok {
		fn()
	}
}

// add handles "ADD token=value" and "ADD LOCUTION src=value".
func (p *Processor) add(args string) Result {
	if rest, ok := strings.CutPrefix(args, "LOCUTION "); ok {
		src, target, found := strings.Cut(rest, "=")
		src = strings.TrimSpace(src)
		target = strings.TrimSpace(target)
		if !found || src == "" || target == "" {
			return Result{Message: "usage: ADD LOCUTION phrase=target"}
		}
		components := token.Tokenize(src)
		loc, err := p.glossary.RegisterLocution(src, components, nil, target)
		if err != nil {
			return Result{Message: err.Error()}
		}
		return Result{OK: true, Message: fmt.Sprintf("Locution %s registered (%d components)", loc.ID, len(components))}
	}

	tok, target, found := strings.Cut(args, "=")
	tok = strings.TrimSpace(tok)
	target = strings.TrimSpace(target)
	if !found || tok == "" {
		return Result{Message: "usage: ADD token=target"}
	}
	cat, _ := token.Classify(tok)
	if err := p.glossary.AddEntry(tok, cat, target); err != nil {
		return Result{Message: err.Error()}
	}
	return Result{OK: true, Message: fmt.Sprintf("Added %s -> %s", tok, target)}
}

func (p *Processor) update(args string) Result {
	tok, target, found := strings.Cut(args, "=")
	tok = strings.TrimSpace(tok)
	target = strings.TrimSpace(target)
	if !found || tok == "" || target == "" {
		return Result{Message: "usage: UPDATE token=target"}
	}
	if err := p.glossary.VerifyRegistered(tok); err != nil {
		return Result{Message: err.Error()}
	}
	p.pending = func() Result {
		n, err := p.glossary.ForceUpdate(tok, target)
		if err != nil {
			return Result{Message: err.Error()}
		}
		return Result{OK: true, Message: fmt.Sprintf("Updated %s -> %s (%d occurrences)", tok, target, n)}
	}
	return Result{OK: true, Message: fmt.Sprintf("Change %s to %q?", tok, target), NeedsConfirmation: true}
}

func (p *Processor) delete(args string) Result {
	tok := strings.TrimSpace(args)
	if tok == "" {
		return Result{Message: "usage: DELETE token"}
	}
	if err := p.glossary.VerifyRegistered(tok); err != nil {
		return Result{Message: err.Error()}
	}
	p.pending = func() Result {
		n, err := p.glossary.DeleteEntry(tok)
		if err != nil {
			return Result{Message: err.Error()}
		}
		return Result{OK: true, Message: fmt.Sprintf("Deleted %s (%d occurrences)", tok, n)}
	}
	return Result{OK: true, Message: fmt.Sprintf("Delete %s?", tok), NeedsConfirmation: true}
}

func (p *Processor) export(args string) Result {
	format := glossary.FormatText
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "json":
		format = glossary.FormatJSON
	case "csv":
		format = glossary.FormatCSV
	case "", "txt":
	default:
		return Result{Message: fmt.Sprintf("unknown export format %q", args)}
	}
	out, err := p.glossary.Export(format)
	if err != nil {
		return Result{Message: err.Error()}
	}
	return Result{OK: true, Message: out}
}

func (p *Processor) formatLocutions() string {
	locs := p.glossary.Locutions()
	if len(locs) == 0 {
		return "(no locutions)"
	}
	lines := make([]string, 0, len(locs))
	for _, l := range locs {
		lines = append(lines, fmt.Sprintf("%s -> %s", l.Source, l.Target))
	}
	return strings.Join(lines, "\n")
}

const helpText = `Commands:
  GLOSSARY                 show the glossary
  LOCUTIONS                show registered locutions
  ADD token=target         add a glossary entry
  ADD LOCUTION phrase=tgt  register an idiomatic phrase
  UPDATE token=target      force-update an entry (asks for confirmation)
  DELETE token             remove an entry (asks for confirmation)
  STATUS                   show the process report
  PAUSE / RESUME           pause or resume translation
  RESET                    reset process state (asks for confirmation)
  EXPORT [json|csv|txt]    export the glossary
  HELP                     this text`
