package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/liarsdeck/internal/deck"
	"github.com/lox/liarsdeck/internal/game"
)

// HonestBot claims its most plentiful rank and only as many cards as it can
// back with that rank plus Jokers, so it never bluffs while it holds cards.
type HonestBot struct {
	space  game.ActionSpace
	logger *log.Logger
}

// NewHonestBot creates a new HonestBot instance
func NewHonestBot(space game.ActionSpace, logger *log.Logger) *HonestBot {
	return &HonestBot{space: space, logger: logger}
}

func (h *HonestBot) Act(obs game.Observation) game.Action {
	rank, count := strongestRank(obs.PlayerHand)
	backed := count + obs.PlayerHand[deck.Joker]

	decl := game.Declaration{
		Rank:     int(rank),
		Quantity: clamp(backed, 1, h.space.MaxDeclare),
	}
	h.logger.Debug("honest-bot declaration", "player", obs.Player, "declaration", decl.String(), "backed", backed)
	return h.space.MustEncode(decl)
}
