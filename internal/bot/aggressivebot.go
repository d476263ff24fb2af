package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/liarsdeck/internal/game"
)

// AggressiveBot always claims the maximum quantity of its strongest rank,
// emptying its hand as fast as possible and bluffing whenever it falls short.
type AggressiveBot struct {
	space  game.ActionSpace
	logger *log.Logger
}

// NewAggressiveBot creates a new AggressiveBot instance
func NewAggressiveBot(space game.ActionSpace, logger *log.Logger) *AggressiveBot {
	return &AggressiveBot{space: space, logger: logger}
}

func (a *AggressiveBot) Act(obs game.Observation) game.Action {
	rank, _ := strongestRank(obs.PlayerHand)
	decl := game.Declaration{Rank: int(rank), Quantity: a.space.MaxDeclare}
	a.logger.Debug("aggressive-bot declaration", "player", obs.Player, "declaration", decl.String())
	return a.space.MustEncode(decl)
}
