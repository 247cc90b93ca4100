package engine

import "errors"

// AgentError is returned by DoBet when the requested action is
// illegal given the current betting ledger. Per spec.md §7 this is
// never a ProgrammerError: the simulation driver converts the failed
// attempt into a legalized action and keeps going.
type AgentError struct {
	Err error
}

func (e *AgentError) Error() string { return e.Err.Error() }
func (e *AgentError) Unwrap() error { return e.Err }

// Sentinel errors wrapped by AgentError, named directly after
// spec.md §4.2's bullet list.
var (
	ErrBetSizeDoesntCall = errors.New("engine: bet size doesn't call the current high bet")
	ErrRaiseSizeTooSmall = errors.New("engine: raise size is below the minimum raise")
)

func agentErr(err error) error { return &AgentError{Err: err} }

// ProgrammerError marks a broken invariant: advancing from Complete,
// a duplicate card, a negative stack. Per spec.md §7 these abort the
// process rather than returning an error value; callers that detect
// one should panic with it.
type ProgrammerError struct {
	Msg string
}

func (e *ProgrammerError) Error() string { return "engine: programmer error: " + e.Msg }

func panicInvariant(msg string) {
	panic(&ProgrammerError{Msg: msg})
}
