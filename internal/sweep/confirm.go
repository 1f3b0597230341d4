package sweep

import (
	"errors"
	"strings"
)

// ConfirmState is the sticky interactive answer. It starts at AskEachTime
// and transitions permanently to ConfirmAll or DenyAll once the operator
// answers "All" or "None" to any prompt. The state is scoped to one engine
// instance and persists across every selection that instance processes.
type ConfirmState int

const (
	AskEachTime ConfirmState = iota
	ConfirmAll
	DenyAll
)

// ErrBadAnswer is returned by Decide for an answer outside yes/no/All/None.
var ErrBadAnswer = errors.New("sweep: answer must be yes, no, All, or None")

// Sticky returns the standing decision, if any. ok is false while the state
// is still AskEachTime.
func (s ConfirmState) Sticky() (approved, ok bool) {
	switch s {
	case ConfirmAll:
		return true, true
	case DenyAll:
		return false, true
	}
	return false, false
}

// Decide consumes one raw operator answer and returns the decision plus the
// next state. It is a pure transition function: sticky states short-circuit
// without inspecting the answer.
func Decide(state ConfirmState, raw string) (approved bool, next ConfirmState, err error) {
	if approved, ok := state.Sticky(); ok {
		return approved, state, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes":
		return true, AskEachTime, nil
	case "n", "no":
		return false, AskEachTime, nil
	case "a", "all":
		return true, ConfirmAll, nil
	case "none":
		return false, DenyAll, nil
	}
	return false, state, ErrBadAnswer
}
