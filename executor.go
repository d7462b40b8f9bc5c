package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// runConfig collects the options Run and its variants accept.
type runConfig struct {
	cache       Cache
	clock       func() time.Time
	maxParallel int
}

// Option configures a run.
type Option func(*runConfig)

// WithCache seeds the run with a pre-populated cache, so that identities
// already present never trigger a data-source call.
func WithCache(c Cache) Option {
	return func(rc *runConfig) { rc.cache = c }
}

// WithClock overrides the clock used to timestamp rounds. Tests use this to
// make round durations deterministic.
func WithClock(clock func() time.Time) Option {
	return func(rc *runConfig) { rc.clock = clock }
}

// WithMaxParallel bounds how many data sources a single Concurrent round
// will invoke at once. The default is 8.
func WithMaxParallel(n int) Option {
	return func(rc *runConfig) {
		if n > 0 {
			rc.maxParallel = n
		}
	}
}

// Run interprets f to completion and returns its value. On failure, the
// returned error is a *FetchFailure.
func Run[A any](ctx context.Context, f Fetch[A], opts ...Option) (A, error) {
	v, _, err := RunWithEnv(ctx, f, opts...)
	return v, err
}

// RunWithCache runs f starting from a specific cache and returns the final
// Environment alongside the result, so callers can inspect the round log or
// seed a later run from the resulting cache.
func RunWithCache[A any](ctx context.Context, f Fetch[A], cache Cache) (A, *Environment, error) {
	return RunWithEnv(ctx, f, WithCache(cache))
}

// RunWithEnv runs f and returns both its value and the Environment the run
// produced (round log included), regardless of outcome — on failure, env is
// still the one attached to the returned *FetchFailure.
func RunWithEnv[A any](ctx context.Context, f Fetch[A], opts ...Option) (A, *Environment, error) {
	cfg := runConfig{cache: EmptyCache(), clock: time.Now, maxParallel: 8}
	for _, o := range opts {
		o(&cfg)
	}
	env := newEnvironment(cfg.cache, cfg.clock)

	cur := f
	for {
		if err := ctx.Err(); err != nil {
			var zero A
			return zero, env, &FetchFailure{Err: err, Env: env}
		}

		s := cur.run(ctx, env)
		if s.err != nil {
			var zero A
			return zero, env, &FetchFailure{Err: s.err, Env: env}
		}
		if s.done {
			return s.value, env, nil
		}

		if err := resolveRound(ctx, env, s.blocked, cfg.maxParallel); err != nil {
			var zero A
			return zero, env, &FetchFailure{Err: err, Env: env}
		}
		cur = s.resume()
	}
}

// RunEnvOnly runs f purely for its round-log side effects, discarding both
// the value and any error. A failed data-source round still shows up as the
// last round, with its Err set; a failure that happens outside a round (an
// Error node, a response type mismatch, a cancelled ctx) leaves no trace in
// the returned Environment. Test harnesses use this to assert on round
// counts and shapes without threading error handling through every
// assertion.
func RunEnvOnly[A any](ctx context.Context, f Fetch[A], opts ...Option) *Environment {
	_, env, _ := RunWithEnv(ctx, f, opts...)
	return env
}

// groupOutcome is the result of invoking one data source's batched Fetch
// for a single round.
type groupOutcome struct {
	name string
	data map[any]any
	err  error
}

// runGroupsConcurrently invokes do once per name in order, bounded to
// maxParallel concurrent calls, collecting results in the same order as
// order: a semaphore-gated goroutine per item, a WaitGroup barrier, and a
// pre-sized result slice indexed by position rather than arrival order,
// the same bounded fan-out shape as internal/app/fanout.Run.
func runGroupsConcurrently(
	ctx context.Context,
	maxParallel int,
	order []string,
	do func(context.Context, string) (map[any]any, error),
) []groupOutcome {
	if len(order) == 0 {
		return nil
	}
	results := make([]groupOutcome, len(order))
	sem := make(chan struct{}, maxParallel)
	var wg sync.WaitGroup
	for i, name := range order {
		wg.Add(1)
		go func(idx int, n string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = groupOutcome{name: n, err: ctx.Err()}
				return
			}
			data, err := do(ctx, n)
			results[idx] = groupOutcome{name: n, data: data, err: err}
		}(i, name)
	}
	wg.Wait()
	return results
}

// groupBlocked partitions a round's blocked requests by source name,
// deduplicating requests within each source while preserving first-
// occurrence order both across sources and within each source's request
// list. This is what turns "N blocked leaves, possibly repeated, possibly
// from several sources" into the batching/dedup/concurrency shape the
// executor actually resolves.
func groupBlocked(blocked []blockedFetch) (order []string, sources map[string]anySource, reqs map[string][]any) {
	sources = map[string]anySource{}
	reqs = map[string][]any{}
	seen := map[string]map[any]bool{}
	for _, b := range blocked {
		name := b.source.name()
		if _, ok := sources[name]; !ok {
			sources[name] = b.source
			seen[name] = map[any]bool{}
			order = append(order, name)
		}
		if !seen[name][b.req] {
			seen[name][b.req] = true
			reqs[name] = append(reqs[name], b.req)
		}
	}
	return order, sources, reqs
}

// resolveRound groups a round's blocked requests by source, invokes each
// source's Fetch concurrently, and — only if every source succeeds and
// accounted for every request it was given — merges all the results into
// the environment's cache in one atomic commit. On any failure, the round
// is still appended to the log (so a FetchFailure's Environment shows the
// attempt that broke the run), but the cache is left exactly as it was
// before the round started: no partial commits, ever.
func resolveRound(ctx context.Context, env *Environment, blocked []blockedFetch, maxParallel int) error {
	order, sources, reqs := groupBlocked(blocked)
	start := env.clock()

	outcomes := runGroupsConcurrently(ctx, maxParallel, order, func(ctx context.Context, name string) (map[any]any, error) {
		return sources[name].fetchAny(ctx, reqs[name])
	})

	merged := make(map[Identity]any)
	groups := make(map[string][]any, len(order))
	var firstErr error
	for i, name := range order {
		groups[name] = reqs[name]
		outcome := outcomes[i]
		if outcome.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("fetch: %w: source %q: %w", ErrSourceFailure, name, outcome.err)
			}
			continue
		}
		ds := sources[name]
		for _, req := range reqs[name] {
			v, ok := outcome.data[req]
			if !ok {
				if firstErr == nil {
					firstErr = fmt.Errorf("fetch: %w: source %q did not return a value for request %v",
						ErrMissingIdentity, name, req)
				}
				continue
			}
			merged[ds.identity(req)] = v
		}
	}

	end := env.clock()

	label := "concurrent"
	var desc RoundDescription
	switch {
	case len(order) == 1 && len(reqs[order[0]]) == 1:
		label = order[0]
		desc = OneRound(reqs[order[0]][0])
	case len(order) == 1:
		label = order[0]
		desc = ManyRound(reqs[order[0]])
	default:
		desc = ConcurrentRound(groups)
	}

	env.appendRound(Round{
		PrevCache:       env.cache,
		SourceLabel:     label,
		Description:     desc,
		Start:           start,
		End:             end,
		ServedFromCache: false,
		Err:             firstErr,
	})

	if firstErr != nil {
		return firstErr
	}
	env.cache = env.cache.CacheResults(merged)
	return nil
}
