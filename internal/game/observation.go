package game

import "github.com/lox/liarsdeck/internal/deck"

// ObservationDim is the length of Observation.Vector.
const ObservationDim = deck.NumKinds + 2 + 2 + 1

// Observation is what the current player sees. It is a value built fresh on
// every call and never aliases environment state.
type Observation struct {
	Player               int                `json:"player"`
	PlayerHand           [deck.NumKinds]int `json:"player_hand"`
	CurrentDeclaration   [2]int             `json:"current_declaration"`
	PreviousPlayerAction [2]int             `json:"previous_player_action"`
	BulletsRemaining     int                `json:"bullets_remaining"`
}

// HandSize returns the number of cards in the observed hand
func (o Observation) HandSize() int {
	n := 0
	for _, c := range o.PlayerHand {
		n += c
	}
	return n
}

// Vector flattens the observation as hand counts, current declaration,
// previous declaration, bullets.
func (o Observation) Vector() [ObservationDim]int {
	var v [ObservationDim]int
	i := 0
	for _, c := range o.PlayerHand {
		v[i] = c
		i++
	}
	v[i], v[i+1] = o.CurrentDeclaration[0], o.CurrentDeclaration[1]
	v[i+2], v[i+3] = o.PreviousPlayerAction[0], o.PreviousPlayerAction[1]
	v[i+4] = o.BulletsRemaining
	return v
}
