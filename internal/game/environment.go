package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsdeck/internal/deck"
	"github.com/lox/liarsdeck/internal/randutil"
)

// Environment runs Liar's Deck episodes. It owns the game state; callers
// only see it through Reset, Step, Observe and Render.
type Environment struct {
	cfg    Config
	space  ActionSpace
	policy ChallengePolicy
	logger *log.Logger
	master *rand.Rand
	st     *state
}

// Option configures an Environment
type Option func(*Environment)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(e *Environment) {
		if logger != nil {
			e.logger = logger.WithPrefix("game")
		}
	}
}

// WithSeed seeds the master stream that Reset(nil) draws episode seeds from.
func WithSeed(seed int64) Option {
	return func(e *Environment) {
		e.master = randutil.New(seed)
	}
}

// WithChallengePolicy replaces the default FixedProbability policy.
func WithChallengePolicy(p ChallengePolicy) Option {
	return func(e *Environment) {
		if p != nil {
			e.policy = p
		}
	}
}

// New creates an environment. Reset must be called before Step.
func New(cfg Config, opts ...Option) (*Environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	e := &Environment{
		cfg:    cfg,
		space:  cfg.ActionSpace(),
		policy: FixedProbability{P: cfg.ChallengeProbability},
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.master == nil {
		e.master = randutil.New(randutil.TimeSeed())
	}
	return e, nil
}

// Config returns the rules this environment plays
func (e *Environment) Config() Config {
	return e.cfg
}

// ActionSpace returns the discrete action space
func (e *Environment) ActionSpace() ActionSpace {
	return e.space
}

// Reset starts a new episode. A nil seed draws one from the master stream,
// so runs stay reproducible from the WithSeed value.
func (e *Environment) Reset(seed *int64) Observation {
	var episodeSeed int64
	if seed != nil {
		episodeSeed = *seed
	} else {
		episodeSeed = randutil.NextSeed(e.master)
	}
	rng := randutil.New(episodeSeed)

	d := deck.New(e.cfg.Deck, rng)
	d.Shuffle()

	hands := make([]*deck.Hand, e.cfg.NumPlayers)
	for i := range hands {
		hands[i] = deck.NewHand(d.Draw(e.cfg.HandSize))
	}

	e.st = &state{
		seed:     episodeSeed,
		rng:      rng,
		hands:    hands,
		current:  initialDeclaration,
		previous: noDeclaration,
		revolver: NewRevolver(e.cfg.Chambers, e.cfg.LethalChambers, e.cfg.Bullets),
		winner:   -1,
	}

	e.logger.Debug("Dealt episode", "seed", episodeSeed, "players", len(hands), "undealt", d.Remaining())
	return e.st.observe()
}

// Step plays one turn for the current player. Only misuse is an error:
// ErrNotReset before the first Reset and *InvalidActionError for actions
// outside the action space. Once the episode is over Step returns the frozen
// observation with zero reward.
func (e *Environment) Step(action Action) (StepResult, error) {
	st := e.st
	if st == nil {
		return StepResult{}, ErrNotReset
	}
	if st.done {
		return e.frozen(), nil
	}

	decl, err := e.space.Decode(action)
	if err != nil {
		return StepResult{}, err
	}

	declarer := st.player
	challenger := st.nextPlayer()
	hand := st.hands[declarer]

	st.current = decl
	play := resolveDeclaration(hand, decl, st.rng)

	challenged := e.policy.ShouldChallenge(ChallengeContext{
		Challenger:        challenger,
		Declarer:          declarer,
		Declaration:       decl,
		ChallengerHand:    st.hands[challenger].Counts(),
		Deck:              e.cfg.Deck,
		DeclarerCardsLeft: hand.Len(),
	}, st.rng)

	info := StepInfo{
		Step:        st.steps + 1,
		Player:      declarer,
		NextPlayer:  challenger,
		Declaration: decl,
		Played:      play.Cards,
		Bluff:       play.Bluff,
		Challenged:  challenged,
		AtFault:     adjudicate(challenged, play.Bluff, declarer, challenger),
		Outcome:     OutcomeContinue,
		Winner:      -1,
		Seed:        st.seed,
	}

	var reward float64
	if info.AtFault >= 0 {
		info.Survived = st.revolver.Pull(st.rng)
		if info.Survived {
			reward = e.cfg.PenaltyReward
			info.Outcome = OutcomeSurvived
		} else {
			reward = e.cfg.WinReward
			info.Outcome = OutcomeEliminated
			winner := challenger
			if info.AtFault == challenger {
				winner = declarer
			}
			st.finish(winner)
		}
		e.logger.Debug("Challenge resolved",
			"declarer", declarer, "challenger", challenger, "bluff", play.Bluff,
			"atFault", info.AtFault, "survived", info.Survived, "bullets", st.revolver.Bullets())
	}

	if hand.IsEmpty() {
		st.finish(declarer)
		reward = e.cfg.WinReward
		info.Outcome = OutcomeHandEmptied
	}

	st.previous = st.current
	st.player = challenger
	st.steps++

	info.Winner = st.winner
	info.BulletsRemaining = st.revolver.Bullets()

	if st.done {
		e.logger.Debug("Episode finished", "winner", st.winner, "outcome", info.Outcome, "steps", st.steps)
	}

	return StepResult{
		Observation: st.observe(),
		Reward:      reward,
		Done:        st.done,
		Info:        info,
	}, nil
}

func (e *Environment) frozen() StepResult {
	st := e.st
	return StepResult{
		Observation: st.observe(),
		Reward:      0,
		Done:        true,
		Info: StepInfo{
			Step:             st.steps,
			Player:           st.player,
			NextPlayer:       -1,
			Declaration:      st.current,
			AtFault:          -1,
			Outcome:          OutcomeAlreadyDone,
			Winner:           st.winner,
			BulletsRemaining: st.revolver.Bullets(),
			Seed:             st.seed,
		},
	}
}

// Observe returns the current player's observation without advancing.
func (e *Environment) Observe() (Observation, error) {
	if e.st == nil {
		return Observation{}, ErrNotReset
	}
	return e.st.observe(), nil
}

// Done reports whether the current episode has ended
func (e *Environment) Done() bool {
	return e.st != nil && e.st.done
}

// Winner returns the winning player once the episode has ended
func (e *Environment) Winner() (int, bool) {
	if e.st == nil || !e.st.done || e.st.winner < 0 {
		return -1, false
	}
	return e.st.winner, true
}

// Seed returns the seed of the current episode
func (e *Environment) Seed() int64 {
	if e.st == nil {
		return 0
	}
	return e.st.seed
}

// Render returns a textual dump of the current player's view. It is
// diagnostic only.
func (e *Environment) Render() string {
	st := e.st
	if st == nil {
		return "Environment not reset.\n"
	}

	names := make([]string, 0, st.hands[st.player].Len())
	for _, c := range st.hands[st.player].Cards() {
		names = append(names, c.String())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Player %d's turn.\n", st.player)
	fmt.Fprintf(&sb, "Hand: [%s]\n", strings.Join(names, ", "))
	fmt.Fprintf(&sb, "Declared: %s\n", st.current)
	fmt.Fprintf(&sb, "Previous Action: %s\n", st.previous)
	fmt.Fprintf(&sb, "Bullets Remaining: %d\n", st.revolver.Bullets())
	if st.done {
		fmt.Fprintf(&sb, "Winner: Player %d\n", st.winner)
	}
	sb.WriteString(strings.Repeat("-", 30))
	sb.WriteString("\n")
	return sb.String()
}
