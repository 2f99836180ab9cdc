package capture

import (
	"fmt"

	"github.com/ha1tch/sightwords/pkg/fsm"
)

// State is a capture machine state.
type State int

const (
	Idle State = iota
	CapturingRaw
	CapturingSmoothed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CapturingRaw:
		return "capturing-raw"
	case CapturingSmoothed:
		return "capturing-smoothed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Input is a transition label of the capture machine.
type Input string

const (
	InputDownRaw      Input = "down-raw"
	InputDownSmoothed Input = "down-smoothed"
	InputMove         Input = "move"
	InputUp           Input = "up"
	InputAbort        Input = "abort"
)

// Transitions returns the capture machine's transition table.
func Transitions() *fsm.Table[State, Input] {
	t := fsm.New[State, Input]("stroke-capture", Idle)
	t.AddTransition(Idle, InputDownRaw, CapturingRaw)
	t.AddTransition(Idle, InputDownSmoothed, CapturingSmoothed)
	for _, s := range []State{CapturingRaw, CapturingSmoothed} {
		t.AddTransition(s, InputMove, s)
		t.AddTransition(s, InputUp, Idle)
		t.AddTransition(s, InputAbort, Idle)
	}
	return t
}
