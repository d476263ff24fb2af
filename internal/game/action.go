package game

import (
	"fmt"

	"github.com/lox/liarsdeck/internal/deck"
)

// Action is an encoded declaration: rank*MaxDeclare + (quantity-1).
type Action int

// ActionSpace is the bijection between actions and declarations.
type ActionSpace struct {
	MaxDeclare int
}

// NewActionSpace creates the action space for the given maximum claim size
func NewActionSpace(maxDeclare int) ActionSpace {
	return ActionSpace{MaxDeclare: maxDeclare}
}

// Size returns the number of discrete actions
func (s ActionSpace) Size() int {
	return deck.NumRanks * s.MaxDeclare
}

// Contains reports whether a is a valid action
func (s ActionSpace) Contains(a Action) bool {
	return a >= 0 && int(a) < s.Size()
}

// Validate returns an *InvalidActionError for out-of-range actions
func (s ActionSpace) Validate(a Action) error {
	if !s.Contains(a) {
		return &InvalidActionError{Action: a, Size: s.Size()}
	}
	return nil
}

// Decode converts an action into the declaration it encodes
func (s ActionSpace) Decode(a Action) (Declaration, error) {
	if err := s.Validate(a); err != nil {
		return Declaration{}, err
	}
	return Declaration{
		Rank:     int(a) / s.MaxDeclare,
		Quantity: int(a)%s.MaxDeclare + 1,
	}, nil
}

// Encode converts a declaration into its action
func (s ActionSpace) Encode(d Declaration) (Action, error) {
	if _, err := deck.RankFromIndex(d.Rank); err != nil {
		return 0, fmt.Errorf("declaration: %w", err)
	}
	if d.Quantity < 1 || d.Quantity > s.MaxDeclare {
		return 0, fmt.Errorf("declaration quantity %d out of range [1,%d]", d.Quantity, s.MaxDeclare)
	}
	return Action(d.Rank*s.MaxDeclare + d.Quantity - 1), nil
}

// MustEncode is Encode for declarations known to be valid.
func (s ActionSpace) MustEncode(d Declaration) Action {
	a, err := s.Encode(d)
	if err != nil {
		panic(err)
	}
	return a
}

// All lists every action in order
func (s ActionSpace) All() []Action {
	actions := make([]Action, s.Size())
	for i := range actions {
		actions[i] = Action(i)
	}
	return actions
}
