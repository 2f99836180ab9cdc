// Package fsm provides a deterministic transition table and a runner that
// walks it one input at a time.
package fsm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTransition is returned when the table has no entry for the current
// state and input.
var ErrNoTransition = errors.New("no transition")

// Transition represents a state transition.
type Transition[S, I comparable] struct {
	From  S
	Input I
	To    S
}

// Table is a deterministic finite state machine: each (state, input) pair
// leads to at most one state.
type Table[S, I comparable] struct {
	Name        string
	Initial     S
	states      []S
	inputs      []I
	transitions []Transition[S, I]
}

// New creates an empty table whose initial state is initial.
func New[S, I comparable](name string, initial S) *Table[S, I] {
	t := &Table[S, I]{
		Name:    name,
		Initial: initial,
	}
	t.AddState(initial)
	return t
}

// AddState adds a state to the table.
func (t *Table[S, I]) AddState(s S) {
	for _, existing := range t.states {
		if existing == s {
			return
		}
	}
	t.states = append(t.states, s)
}

// AddInput adds an input symbol to the alphabet.
func (t *Table[S, I]) AddInput(input I) {
	for _, existing := range t.inputs {
		if existing == input {
			return
		}
	}
	t.inputs = append(t.inputs, input)
}

// AddTransition adds a transition, registering its states and input.
func (t *Table[S, I]) AddTransition(from S, input I, to S) {
	t.AddState(from)
	t.AddState(to)
	t.AddInput(input)
	t.transitions = append(t.transitions, Transition[S, I]{From: from, Input: input, To: to})
}

// States returns the states in insertion order.
func (t *Table[S, I]) States() []S {
	return append([]S(nil), t.states...)
}

// Inputs returns the input alphabet in insertion order.
func (t *Table[S, I]) Inputs() []I {
	return append([]I(nil), t.inputs...)
}

// Transitions returns all transitions in insertion order.
func (t *Table[S, I]) Transitions() []Transition[S, I] {
	return append([]Transition[S, I](nil), t.transitions...)
}

// Next returns the state reached from 'from' on input, if any.
func (t *Table[S, I]) Next(from S, input I) (S, bool) {
	for _, tr := range t.transitions {
		if tr.From == from && tr.Input == input {
			return tr.To, true
		}
	}
	var zero S
	return zero, false
}

// AvailableInputs returns the inputs valid from a state.
func (t *Table[S, I]) AvailableInputs(from S) []I {
	var inputs []I
	for _, tr := range t.transitions {
		if tr.From == from {
			inputs = append(inputs, tr.Input)
		}
	}
	return inputs
}

// Validate checks that the table is well-formed and deterministic.
func (t *Table[S, I]) Validate() error {
	if len(t.transitions) == 0 {
		return fmt.Errorf("table %q has no transitions", t.Name)
	}

	type key struct {
		from  S
		input I
	}
	seen := make(map[key]S, len(t.transitions))
	for i, tr := range t.transitions {
		k := key{tr.From, tr.Input}
		if to, ok := seen[k]; ok && to != tr.To {
			return fmt.Errorf("transition %d: state %v on input %v leads to both %v and %v",
				i, tr.From, tr.Input, to, tr.To)
		}
		seen[k] = tr.To
	}
	return nil
}

// String returns a string representation of the table.
func (t *Table[S, I]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "FSM: %s\n", t.Name)
	fmt.Fprintf(&sb, "  States: %v\n", t.states)
	fmt.Fprintf(&sb, "  Inputs: %v\n", t.inputs)
	fmt.Fprintf(&sb, "  Initial: %v\n", t.Initial)
	fmt.Fprintf(&sb, "  Transitions: %d\n", len(t.transitions))
	for _, tr := range t.transitions {
		fmt.Fprintf(&sb, "    %v --%v--> %v\n", tr.From, tr.Input, tr.To)
	}
	return sb.String()
}
