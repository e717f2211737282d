package glossary

// Locution is a multi-token idiomatic source phrase collapsed into a single
// aligned target slot. It owns the blocking relationship to its component
// slots; a slot referencing a locution holds a back-reference only.
type Locution struct {
	ID         string
	Source     string
	Components []string
	Positions  []int
	Target     string
}

// Covers reports whether pos is one of the locution's occupied positions.
func (l Locution) Covers(pos int) bool {
	for _, p := range l.Positions {
		if p == pos {
			return true
		}
	}
	return false
}

// First returns the minimum member position, the one that materializes the
// target text. Returns -1 when no positions are recorded.
func (l Locution) First() int {
	if len(l.Positions) == 0 {
		return -1
	}
	min := l.Positions[0]
	for _, p := range l.Positions[1:] {
		if p < min {
			min = p
		}
	}
	return min
}

func (l *Locution) copy() Locution {
	cp := *l
	cp.Components = append([]string(nil), l.Components...)
	cp.Positions = append([]int(nil), l.Positions...)
	return cp
}
