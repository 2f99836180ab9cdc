package fsm

import "fmt"

// maxHistory bounds the step history kept by a Runner.
const maxHistory = 64

// Runner executes a Table one input at a time.
type Runner[S, I comparable] struct {
	table   *Table[S, I]
	current S
	history []Step[S, I]
}

// Step records one step of execution.
type Step[S, I comparable] struct {
	From  S
	Input I
	To    S
}

// NewRunner creates a runner for the given table, positioned at its
// initial state.
func NewRunner[S, I comparable](t *Table[S, I]) (*Runner[S, I], error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid FSM: %w", err)
	}
	return &Runner[S, I]{
		table:   t,
		current: t.Initial,
	}, nil
}

// MustRunner is like NewRunner but panics on an invalid table. It is meant
// for tables declared at package level.
func MustRunner[S, I comparable](t *Table[S, I]) *Runner[S, I] {
	r, err := NewRunner(t)
	if err != nil {
		panic(err)
	}
	return r
}

// Current returns the current state.
func (r *Runner[S, I]) Current() S {
	return r.current
}

// Can reports whether input is accepted from the current state.
func (r *Runner[S, I]) Can(input I) bool {
	_, ok := r.table.Next(r.current, input)
	return ok
}

// Step processes an input and returns the new state.
// The state is unchanged when no transition exists.
func (r *Runner[S, I]) Step(input I) (S, error) {
	to, ok := r.table.Next(r.current, input)
	if !ok {
		return r.current, fmt.Errorf("%w from state %v on input %v", ErrNoTransition, r.current, input)
	}

	if len(r.history) == maxHistory {
		copy(r.history, r.history[1:])
		r.history = r.history[:maxHistory-1]
	}
	r.history = append(r.history, Step[S, I]{From: r.current, Input: input, To: to})
	r.current = to
	return to, nil
}

// Reset returns the runner to the initial state and forgets its history.
func (r *Runner[S, I]) Reset() {
	r.current = r.table.Initial
	r.history = r.history[:0]
}

// History returns the most recent steps, oldest first.
func (r *Runner[S, I]) History() []Step[S, I] {
	return append([]Step[S, I](nil), r.history...)
}

// Table returns the table the runner walks.
func (r *Runner[S, I]) Table() *Table[S, I] {
	return r.table
}
