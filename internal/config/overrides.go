package config

// Overrides are command line values merged over the file. Nil fields leave
// the file value in place.
type Overrides struct {
	NumPlayers           *int
	ChallengeProbability *float64
	ChallengePolicy      *string
	LogLevel             *string

	Episodes *int
	Bot      *string
	Opponent *string
	Seed     *int64
	Workers  *int
	MaxSteps *int
	Report   *string

	Address *string
	Port    *int
}

// Apply merges the overrides into c and revalidates it
func (o Overrides) Apply(c *Config) error {
	set(&c.Environment.NumPlayers, o.NumPlayers)
	set(&c.Environment.ChallengeProbability, o.ChallengeProbability)
	set(&c.Environment.ChallengePolicy, o.ChallengePolicy)
	set(&c.Environment.LogLevel, o.LogLevel)

	set(&c.Evaluation.Episodes, o.Episodes)
	set(&c.Evaluation.Bot, o.Bot)
	set(&c.Evaluation.Opponent, o.Opponent)
	set(&c.Evaluation.Seed, o.Seed)
	set(&c.Evaluation.Workers, o.Workers)
	set(&c.Evaluation.MaxSteps, o.MaxSteps)
	set(&c.Evaluation.Report, o.Report)

	set(&c.Server.Address, o.Address)
	set(&c.Server.Port, o.Port)

	return c.Validate()
}
