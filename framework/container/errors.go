package container

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotBound means nothing was registered under the requested abstract.
	ErrNotBound = errors.New("no binding registered")

	// ErrCircular means the abstract is already being built further up the
	// resolution chain.
	ErrCircular = errors.New("circular dependency")

	// ErrTypeMismatch means the instance does not have the requested type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNilFactory means a binding was registered with a nil factory.
	ErrNilFactory = errors.New("nil factory")

	// ErrSelfAlias means an abstract was aliased to itself.
	ErrSelfAlias = errors.New("aliased to itself")
)

// ResolutionError reports why an abstract could not be resolved. Chain lists
// the abstracts that were under construction when the failure happened,
// outermost first.
type ResolutionError struct {
	Abstract string
	Chain    []string
	Err      error
}

func (e *ResolutionError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("container: [%s]: %v", e.Abstract, e.Err)
	}
	return fmt.Sprintf("container: [%s] (via %s): %v", e.Abstract, strings.Join(e.Chain, " -> "), e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
