package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsdeck/internal/game"
)

// RandBot picks a uniformly random action
type RandBot struct {
	space  game.ActionSpace
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(space game.ActionSpace, rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{space: space, rng: rng, logger: logger}
}

func (r *RandBot) Act(obs game.Observation) game.Action {
	a := game.Action(r.rng.IntN(r.space.Size()))
	r.logger.Debug("rand-bot action", "player", obs.Player, "action", int(a))
	return a
}
