package propnet

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reasons why a circuit cannot be indexed.
var (
	ErrNoRoles     = errors.New("no role")
	ErrNoInit      = errors.New("no init proposition")
	ErrNoTerminal  = errors.New("no terminal proposition")
	ErrDuplicate   = errors.New("duplicate proposition")
	ErrBaseFanIn   = errors.New("base proposition must have exactly one input")
	ErrFanIn       = errors.New("proposition has too many inputs")
	ErrGateArity   = errors.New("invalid number of inputs for gate")
	ErrUnknownRole = errors.New("unknown role")
	ErrGoalValue   = errors.New("goal value is not an integer")
	ErrCycle       = errors.New("dependency cycle not broken by a transition")
)

// A BuildError is returned when a circuit is malformed.
// Err is one of the Err* values of this package.
type BuildError struct {
	Op   string // What was being done, e.g "classify" or "order"
	Term string // The offending proposition or component, if any
	Err  error
}

func (e *BuildError) Error() string {
	if e.Term == "" {
		return fmt.Sprintf("propnet: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("propnet: %s %s: %v", e.Op, e.Term, e.Err)
}

// Unwrap returns the underlying reason.
func (e *BuildError) Unwrap() error {
	return e.Err
}

func buildErr(op, term string, err error) error {
	return &BuildError{Op: op, Term: term, Err: err}
}
