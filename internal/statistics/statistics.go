package statistics

import (
	"fmt"
	"math"
	"sort"
)

// EpisodeResult is the outcome of a single evaluation episode
type EpisodeResult struct {
	ID               string  `json:"id"`
	Index            int     `json:"index"`
	Seed             int64   `json:"seed"`
	Steps            int     `json:"steps"`
	FinalReward      float64 `json:"final_reward"` // Reward of the terminal step
	TotalReward      float64 `json:"total_reward"` // Sum of rewards over every step
	Won              bool    `json:"won"`
	Winner           int     `json:"winner"`
	Outcome          string  `json:"outcome"`
	BulletsRemaining int     `json:"bullets_remaining"`
	Challenges       int     `json:"challenges"`
	Bluffs           int     `json:"bluffs"`
	CaughtBluffs     int     `json:"caught_bluffs"`
	Survivals        int     `json:"survivals"`
}

// Statistics aggregates episode results
type Statistics struct {
	Episodes int     `json:"episodes"`
	Wins     int     `json:"wins"`
	SumR     float64 `json:"-"`
	SumR2    float64 `json:"-"` // Sum of squares for variance calculation
	Steps    []int   `json:"-"` // Episode lengths for median/percentile calculation
	SumSteps int     `json:"total_steps"`

	Challenges   int `json:"challenges"`
	Bluffs       int `json:"bluffs"`
	CaughtBluffs int `json:"caught_bluffs"`
	Survivals    int `json:"survivals"`

	Outcomes map[string]int `json:"outcomes"`
	Winners  map[int]int    `json:"winners"`
}

// Add incorporates a new episode result into the statistics
func (s *Statistics) Add(r EpisodeResult) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[string]int)
	}
	if s.Winners == nil {
		s.Winners = make(map[int]int)
	}

	s.Episodes++
	if r.Won {
		s.Wins++
	}
	s.SumR += r.TotalReward
	s.SumR2 += r.TotalReward * r.TotalReward
	s.Steps = append(s.Steps, r.Steps)
	s.SumSteps += r.Steps

	s.Challenges += r.Challenges
	s.Bluffs += r.Bluffs
	s.CaughtBluffs += r.CaughtBluffs
	s.Survivals += r.Survivals

	s.Outcomes[r.Outcome]++
	s.Winners[r.Winner]++
}

// WinRate returns the fraction of episodes that ended in a win
func (s *Statistics) WinRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Episodes)
}

// Mean returns the mean total reward per episode
func (s *Statistics) Mean() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return s.SumR / float64(s.Episodes)
}

// Variance returns the sample variance of total rewards
func (s *Statistics) Variance() float64 {
	if s.Episodes < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumR2 - float64(s.Episodes)*mean*mean) / float64(s.Episodes-1)
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation of total rewards
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Episodes))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// SeatWinRate returns the fraction of episodes won by the given seat
func (s *Statistics) SeatWinRate(seat int) float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Winners[seat]) / float64(s.Episodes)
}

// MeanSteps returns the mean episode length
func (s *Statistics) MeanSteps() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.SumSteps) / float64(s.Episodes)
}

func (s *Statistics) sortedSteps() []float64 {
	sorted := make([]float64, len(s.Steps))
	for i, n := range s.Steps {
		sorted[i] = float64(n)
	}
	sort.Float64s(sorted)
	return sorted
}

// MedianSteps returns the median episode length
func (s *Statistics) MedianSteps() float64 {
	return s.StepsPercentile(0.5)
}

// StepsPercentile returns the episode length at the given percentile (0.0 to 1.0)
func (s *Statistics) StepsPercentile(p float64) float64 {
	if len(s.Steps) == 0 {
		return 0
	}
	sorted := s.sortedSteps()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// BluffCatchRate returns the fraction of bluffs that were challenged
func (s *Statistics) BluffCatchRate() float64 {
	if s.Bluffs == 0 {
		return 0
	}
	return float64(s.CaughtBluffs) / float64(s.Bluffs)
}

// Validate checks that the tallies are consistent with each other
func (s *Statistics) Validate() error {
	if s.Episodes <= 0 {
		return fmt.Errorf("invalid episode count: %d", s.Episodes)
	}
	if len(s.Steps) != s.Episodes {
		return fmt.Errorf("steps length (%d) does not match episode count (%d)", len(s.Steps), s.Episodes)
	}
	if s.Wins > s.Episodes {
		return fmt.Errorf("wins (%d) exceed episodes (%d)", s.Wins, s.Episodes)
	}
	if s.CaughtBluffs > s.Bluffs {
		return fmt.Errorf("caught bluffs (%d) exceed bluffs (%d)", s.CaughtBluffs, s.Bluffs)
	}
	if s.CaughtBluffs > s.Challenges {
		return fmt.Errorf("caught bluffs (%d) exceed challenges (%d)", s.CaughtBluffs, s.Challenges)
	}

	total := 0
	for _, n := range s.Outcomes {
		total += n
	}
	if total != s.Episodes {
		return fmt.Errorf("outcome total (%d) does not match episode count (%d)", total, s.Episodes)
	}

	total = 0
	for _, n := range s.Winners {
		total += n
	}
	if total != s.Episodes {
		return fmt.Errorf("winner total (%d) does not match episode count (%d)", total, s.Episodes)
	}
	return nil
}
