package statemachine

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ggp-go/propnet/circuit"
)

// Errors returned by a Machine.
var (
	ErrUnknownRole    = errors.New("unknown role")
	ErrJointMoveArity = errors.New("a joint move needs exactly one move per role")
	ErrNoLegalMoves   = errors.New("no legal move")
)

// A GoalError is returned when a role does not have exactly one true goal proposition.
type GoalError struct {
	Role  circuit.Role
	Count int // Number of true goal propositions
}

func (e *GoalError) Error() string {
	return fmt.Sprintf("role %s has %d true goal propositions, expected exactly 1", e.Role, e.Count)
}

// A MoveResolutionError is returned when a move has no matching input proposition.
type MoveResolutionError struct {
	Role   circuit.Role
	Action circuit.Term
}

func (e *MoveResolutionError) Error() string {
	return fmt.Sprintf("no input proposition for role %s doing %v", e.Role, e.Action)
}
