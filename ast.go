package fetch

import "context"

// Fetch[A] is a description of a computation that produces an A, possibly
// by reading from one or more data sources. Building a Fetch value never
// performs I/O; only handing it to Run (or a variant) interprets it.
//
// Go has no sum types, so rather than a literal tagged union of
// Pure/Blocked/BlockedMany/Concurrent/Errored nodes (which cannot hold
// children with differing type parameters without type erasure at every
// node), Fetch is represented as a single re-entrant closure: run advances
// the computation as far as it can go without blocking, and reports either
// a final value, an error, or the set of requests currently blocking
// progress together with a resume continuation. Leaf nodes recheck the
// cache every time they are invoked, so resume never needs to thread
// explicit per-node continuations back up through its ancestors — it is
// simply "build the same shape of Fetch again, now that the cache has
// moved forward."
type Fetch[A any] struct {
	run func(ctx context.Context, env *Environment) step[A]
}

// step is the result of advancing a Fetch by one interpretation step. If
// done is true, value holds the result. If err is non-nil, the whole run
// fails. Otherwise blocked holds every request currently preventing
// progress, and resume builds the Fetch to interpret next, once the
// executor has resolved those requests and merged the results into the
// cache.
type step[A any] struct {
	done    bool
	value   A
	err     error
	blocked []blockedFetch
	resume  func() Fetch[A]
}
