package orders

import "fmt"

// InvalidTransitionError is returned when a requested status change is
// not reachable from the order's current status. The order and its
// timeline are left untouched.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s (valid: %v)", e.From, e.To, NextStatuses(e.From))
}

// validTransitions is the authoritative state machine definition.
// Transitions are one-directional; cancelled is reachable from any
// pre-paid state.
var validTransitions = []struct{ From, To string }{
	{StatusPending, StatusPreparing},
	{StatusPreparing, StatusReady},
	{StatusReady, StatusServed},
	{StatusServed, StatusPaid},

	{StatusPending, StatusCancelled},
	{StatusPreparing, StatusCancelled},
	{StatusReady, StatusCancelled},
	{StatusServed, StatusCancelled},
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[[2]string]bool {
	m := make(map[[2]string]bool)
	for _, t := range validTransitions {
		m[[2]string{t.From, t.To}] = true
	}
	return m
}()

// CanTransition checks whether from -> to is a legal status change.
func CanTransition(from, to string) error {
	if transitionMap[[2]string{from, to}] {
		return nil
	}
	return &InvalidTransitionError{From: from, To: to}
}

// NextStatuses returns all valid next states from a given state.
func NextStatuses(from string) []string {
	var nexts []string
	for _, t := range validTransitions {
		if t.From == from {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}
