package fetch

import "time"

// Environment is the mutable state an executor run owns exclusively for its
// own duration: the current cache and the round log accumulated so far. A
// *Environment is never shared between concurrent runs and is never
// retained by a Fetch value past the run that created it; once Run returns,
// the caller holds the final Environment as a read-only diagnostic record.
type Environment struct {
	cache  Cache
	rounds []Round
	clock  func() time.Time
}

func newEnvironment(cache Cache, clock func() time.Time) *Environment {
	if clock == nil {
		clock = time.Now
	}
	return &Environment{cache: cache, clock: clock}
}

// Cache returns the environment's current cache.
func (e *Environment) Cache() Cache {
	return e.cache
}

// Rounds returns a copy of the round log accumulated so far.
func (e *Environment) Rounds() []Round {
	out := make([]Round, len(e.rounds))
	copy(out, e.rounds)
	return out
}

func (e *Environment) appendRound(r Round) {
	e.rounds = append(e.rounds, r)
}
