package pipeline

import (
	"errors"
	"fmt"
)

type State int

const (
	NotStarted State = iota
	PreconditionChecked
	WhitelistDeployed
	TokensDeployed
	LibrariesDeployed
	CoreDeployed
	TokensLateInitialized
	GettersDeployed
	CreditsDeployed
	ArtifactPersisted
	PostActionsComplete
	Done
	Aborted
)

var stateNames = map[State]string{
	NotStarted:            "NotStarted",
	PreconditionChecked:   "PreconditionChecked",
	WhitelistDeployed:     "WhitelistDeployed",
	TokensDeployed:        "TokensDeployed",
	LibrariesDeployed:     "LibrariesDeployed",
	CoreDeployed:          "CoreDeployed",
	TokensLateInitialized: "TokensLateInitialized",
	GettersDeployed:       "GettersDeployed",
	CreditsDeployed:       "CreditsDeployed",
	ArtifactPersisted:     "ArtifactPersisted",
	PostActionsComplete:   "PostActionsComplete",
	Done:                  "Done",
	Aborted:               "Aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var ErrInvalidTransition = errors.New("invalid state transition")

// Machine tracks the progress of a run. Every state except Aborted can only
// be entered from the one before it.
type Machine struct {
	current State
	// failedAt is the state that could not be reached.
	failedAt State
	reason   error
}

func NewMachine() *Machine {
	return &Machine{current: NotStarted}
}

func (m *Machine) State() State {
	return m.current
}

// Reason is the cause of an abort, nil otherwise.
func (m *Machine) Reason() error {
	return m.reason
}

func (m *Machine) FailedAt() State {
	return m.failedAt
}

// CanEnter reports whether to directly follows the current state.
func (m *Machine) CanEnter(to State) error {
	if m.current == Aborted {
		return fmt.Errorf("%w: pipeline aborted at %s", ErrInvalidTransition, m.failedAt)
	}
	if to == Aborted || to != m.current+1 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.current, to)
	}
	return nil
}

func (m *Machine) Advance(to State) error {
	if err := m.CanEnter(to); err != nil {
		return err
	}
	m.current = to
	return nil
}

// Abort is terminal. Repeated aborts keep the first reason.
func (m *Machine) Abort(at State, reason error) {
	if m.current == Aborted {
		return
	}
	m.current = Aborted
	m.failedAt = at
	m.reason = reason
}
