package config

// fileConfig mirrors the HCL layout. Every attribute is a pointer so an
// explicit zero in the file is distinguishable from an omitted attribute.
type fileConfig struct {
	Environment *environmentBlock `hcl:"environment,block"`
	Deck        *deckBlock        `hcl:"deck,block"`
	Rewards     *rewardsBlock     `hcl:"rewards,block"`
	Evaluation  *evaluationBlock  `hcl:"evaluation,block"`
	Server      *serverBlock      `hcl:"server,block"`
}

type environmentBlock struct {
	NumPlayers           *int     `hcl:"num_players,optional"`
	HandSize             *int     `hcl:"hand_size,optional"`
	MaxDeclare           *int     `hcl:"max_declare,optional"`
	Chambers             *int     `hcl:"chambers,optional"`
	LethalChambers       *int     `hcl:"lethal_chambers,optional"`
	Bullets              *int     `hcl:"bullets,optional"`
	ChallengeProbability *float64 `hcl:"challenge_probability,optional"`
	ChallengePolicy      *string  `hcl:"challenge_policy,optional"`
	LogLevel             *string  `hcl:"log_level,optional"`
}

type deckBlock struct {
	King  *int `hcl:"king,optional"`
	Queen *int `hcl:"queen,optional"`
	Ace   *int `hcl:"ace,optional"`
	Joker *int `hcl:"joker,optional"`
}

type rewardsBlock struct {
	Win     *float64 `hcl:"win,optional"`
	Penalty *float64 `hcl:"penalty,optional"`
}

type evaluationBlock struct {
	Episodes *int    `hcl:"episodes,optional"`
	Bot      *string `hcl:"bot,optional"`
	Opponent *string `hcl:"opponent,optional"`
	Seed     *int64  `hcl:"seed,optional"`
	Workers  *int    `hcl:"workers,optional"`
	MaxSteps *int    `hcl:"max_steps,optional"`
	Report   *string `hcl:"report,optional"`
}

type serverBlock struct {
	Address *string `hcl:"address,optional"`
	Port    *int    `hcl:"port,optional"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (f *fileConfig) apply(c *Config) {
	if e := f.Environment; e != nil {
		set(&c.Environment.NumPlayers, e.NumPlayers)
		set(&c.Environment.HandSize, e.HandSize)
		set(&c.Environment.MaxDeclare, e.MaxDeclare)
		set(&c.Environment.Chambers, e.Chambers)
		set(&c.Environment.LethalChambers, e.LethalChambers)
		set(&c.Environment.Bullets, e.Bullets)
		set(&c.Environment.ChallengeProbability, e.ChallengeProbability)
		set(&c.Environment.ChallengePolicy, e.ChallengePolicy)
		set(&c.Environment.LogLevel, e.LogLevel)
	}
	if d := f.Deck; d != nil {
		set(&c.Deck.King, d.King)
		set(&c.Deck.Queen, d.Queen)
		set(&c.Deck.Ace, d.Ace)
		set(&c.Deck.Joker, d.Joker)
	}
	if r := f.Rewards; r != nil {
		set(&c.Rewards.Win, r.Win)
		set(&c.Rewards.Penalty, r.Penalty)
	}
	if e := f.Evaluation; e != nil {
		set(&c.Evaluation.Episodes, e.Episodes)
		set(&c.Evaluation.Bot, e.Bot)
		set(&c.Evaluation.Opponent, e.Opponent)
		set(&c.Evaluation.Seed, e.Seed)
		set(&c.Evaluation.Workers, e.Workers)
		set(&c.Evaluation.MaxSteps, e.MaxSteps)
		set(&c.Evaluation.Report, e.Report)
	}
	if s := f.Server; s != nil {
		set(&c.Server.Address, s.Address)
		set(&c.Server.Port, s.Port)
	}
}
