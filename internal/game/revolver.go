package game

import "github.com/lox/liarsdeck/internal/randutil"

// Revolver resolves faults. Each pull spends one bullet from a pool shared
// by all players; an empty pool means every later pull survives.
type Revolver struct {
	chambers int
	lethal   int
	bullets  int
}

// NewRevolver creates a revolver with the given chamber count, number of
// lethal chambers and bullet pool
func NewRevolver(chambers, lethal, bullets int) *Revolver {
	return &Revolver{chambers: chambers, lethal: lethal, bullets: bullets}
}

// Bullets returns the remaining pool
func (r *Revolver) Bullets() int {
	return r.bullets
}

// Pull reports whether the at-fault player survives.
func (r *Revolver) Pull(rng randutil.Source) bool {
	if r.bullets <= 0 {
		return true
	}
	chamber := rng.IntN(r.chambers)
	r.bullets--
	return chamber >= r.lethal
}
