package glossary

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenNotRegistered is returned for reads or updates against a token
	// the glossary never registered. Callers must register before querying.
	ErrTokenNotRegistered = errors.New("token not registered")

	// ErrDuplicateEntry is returned by AddEntry when the token is already
	// present.
	ErrDuplicateEntry = errors.New("entry already exists")
)

// SynonymyConflictError reports an attempt to change the accepted target of a
// core token without the forced-by-user tag. The stored target is kept; the
// entry is flagged for supervised review.
type SynonymyConflictError struct {
	Token    string
	Assigned string
	Proposed string
}

func (e *SynonymyConflictError) Error() string {
	return fmt.Sprintf("synonymy conflict on %q: assigned %q, proposed %q", e.Token, e.Assigned, e.Proposed)
}
