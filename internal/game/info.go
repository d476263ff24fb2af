package game

import (
	"fmt"

	"github.com/lox/liarsdeck/internal/deck"
)

// Outcome classifies how a step resolved.
type Outcome int

const (
	// OutcomeContinue: no challenge was issued.
	OutcomeContinue Outcome = iota
	// OutcomeSurvived: a challenge was adjudicated and the at-fault player survived.
	OutcomeSurvived
	// OutcomeEliminated: the at-fault player was eliminated; the episode is over.
	OutcomeEliminated
	// OutcomeHandEmptied: the declarer ran out of cards and won.
	OutcomeHandEmptied
	// OutcomeAlreadyDone: Step was called on a finished episode.
	OutcomeAlreadyDone
)

var outcomeNames = [...]string{
	OutcomeContinue:    "continue",
	OutcomeSurvived:    "survived",
	OutcomeEliminated:  "eliminated",
	OutcomeHandEmptied: "hand_emptied",
	OutcomeAlreadyDone: "already_done",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Terminal reports whether the outcome ends the episode
func (o Outcome) Terminal() bool {
	return o == OutcomeEliminated || o == OutcomeHandEmptied || o == OutcomeAlreadyDone
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for i, name := range outcomeNames {
		if name == string(text) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(text))
}

// StepInfo describes what happened during a step. Player ids are -1 when
// not applicable.
type StepInfo struct {
	Step             int         `json:"step"`
	Player           int         `json:"player"`
	NextPlayer       int         `json:"next_player"`
	Declaration      Declaration `json:"declaration"`
	Played           []deck.Card `json:"played"`
	Bluff            bool        `json:"bluff"`
	Challenged       bool        `json:"challenged"`
	AtFault          int         `json:"at_fault"`
	Survived         bool        `json:"survived"`
	Outcome          Outcome     `json:"outcome"`
	Winner           int         `json:"winner"`
	BulletsRemaining int         `json:"bullets_remaining"`
	Seed             int64       `json:"seed"`
}

// Map returns the info as a generic mapping for drivers that expect one.
func (i StepInfo) Map() map[string]any {
	played := make([]string, len(i.Played))
	for n, c := range i.Played {
		played[n] = c.String()
	}
	return map[string]any{
		"step":              i.Step,
		"player":            i.Player,
		"next_player":       i.NextPlayer,
		"declaration":       i.Declaration.Pair(),
		"played":            played,
		"bluff":             i.Bluff,
		"challenged":        i.Challenged,
		"at_fault":          i.AtFault,
		"survived":          i.Survived,
		"outcome":           i.Outcome.String(),
		"winner":            i.Winner,
		"bullets_remaining": i.BulletsRemaining,
		"seed":              i.Seed,
	}
}

// StepResult is the return of Step.
type StepResult struct {
	Observation Observation `json:"observation"`
	Reward      float64     `json:"reward"`
	Done        bool        `json:"done"`
	Info        StepInfo    `json:"info"`
}
