package engine

import "fmt"

// State is the process report the command surface exposes: current phase,
// progress, error and glossary counts, pause flag.
type State struct {
	Phase         string
	Translated    int
	Total         int
	Errors        int
	GlossaryCount int
	Paused        bool
}

// NewState starts at the initial phase.
func NewState() *State {
	return &State{Phase: "INICIO"}
}

// Progress is the translated percentage; 0 when nothing is queued.
func (s *State) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Translated) / float64(s.Total) * 100
}

// Report formats the one-line status string.
func (s *State) Report() string {
	return fmt.Sprintf("FASE: %s | PROG: %.1f%% | ERR: %d | GLOS: %d",
		s.Phase, s.Progress(), s.Errors, s.GlossaryCount)
}

// Reset returns the state to its initial values.
func (s *State) Reset() {
	*s = State{Phase: "INICIO"}
}
