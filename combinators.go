package fetch

import (
	"context"
	"fmt"
)

// Pure lifts a plain value into Fetch without touching any data source.
func Pure[A any](v A) Fetch[A] {
	return Fetch[A]{run: func(ctx context.Context, env *Environment) step[A] {
		return step[A]{done: true, value: v}
	}}
}

// Error builds a Fetch that fails immediately whenever it is run, tagging
// the failure as ErrUserError: an explicit error(e) node in the AST, as
// opposed to a failure the executor itself detects (ErrMissingIdentity,
// ErrSourceFailure).
func Error[A any](err error) Fetch[A] {
	return Fetch[A]{run: func(ctx context.Context, env *Environment) step[A] {
		return step[A]{err: fmt.Errorf("fetch: %w: %w", ErrUserError, err)}
	}}
}

// FetchOne requests a single value from a data source. If the value is
// already cached under ds.Identity(req), it is served synchronously (and
// logged as a cache-served round) without blocking; otherwise it reports
// itself as blocked so the executor can batch it with any other request
// blocking in the same round.
func FetchOne[Req comparable, Resp any](ds DataSource[Req, Resp], req Req) Fetch[Resp] {
	adapter := sourceAdapter[Req, Resp]{ds: ds}
	id := ds.Identity(req)

	resolve := func(v any) (Resp, error) {
		resp, ok := v.(Resp)
		if !ok {
			var zero Resp
			return zero, fmt.Errorf("fetch: %w: source %q returned %T for identity %v, expected %T",
				ErrResponseTypeMismatch, ds.Name(), v, id, zero)
		}
		return resp, nil
	}

	return Fetch[Resp]{run: func(ctx context.Context, env *Environment) step[Resp] {
		if v, ok := env.cache.Get(id); ok {
			resp, err := resolve(v)
			if err != nil {
				return step[Resp]{err: err}
			}
			now := env.clock()
			env.appendRound(Round{
				PrevCache:       env.cache,
				SourceLabel:     ds.Name(),
				Description:     OneRound(req),
				Start:           now,
				End:             now,
				ServedFromCache: true,
			})
			return step[Resp]{done: true, value: resp}
		}
		return step[Resp]{
			blocked: []blockedFetch{{source: adapter, req: req}},
			resume: func() Fetch[Resp] {
				return Fetch[Resp]{run: func(ctx context.Context, env *Environment) step[Resp] {
					v, ok := env.cache.Get(id)
					if !ok {
						return step[Resp]{err: fmt.Errorf("fetch: %w: identity %v missing after round resolution",
							ErrMissingIdentity, id)}
					}
					resp, err := resolve(v)
					if err != nil {
						return step[Resp]{err: err}
					}
					return step[Resp]{done: true, value: resp}
				}}
			},
		}
	}}
}

// Map applies fn to the result of fa once it is available. Map never
// introduces a sequencing barrier: if fa's blocked requests could be
// batched with a sibling's, wrapping it in Map does not prevent that.
func Map[A, B any](fa Fetch[A], fn func(A) B) Fetch[B] {
	return Fetch[B]{run: func(ctx context.Context, env *Environment) step[B] {
		s := fa.run(ctx, env)
		if s.err != nil {
			return step[B]{err: s.err}
		}
		if !s.done {
			resume := s.resume
			return step[B]{blocked: s.blocked, resume: func() Fetch[B] {
				return Map(resume(), fn)
			}}
		}
		return step[B]{done: true, value: fn(s.value)}
	}}
}

// FlatMap sequences fa with a continuation k that may itself depend on
// fa's result. This is the only combinator that introduces a sequencing
// barrier: k is never invoked until fa is fully resolved, so anything k
// requests is necessarily issued in a round strictly after every round fa
// needed.
func FlatMap[A, B any](fa Fetch[A], k func(A) Fetch[B]) Fetch[B] {
	return Fetch[B]{run: func(ctx context.Context, env *Environment) step[B] {
		s := fa.run(ctx, env)
		if s.err != nil {
			return step[B]{err: s.err}
		}
		if !s.done {
			resume := s.resume
			return step[B]{blocked: s.blocked, resume: func() Fetch[B] {
				return FlatMap(resume(), k)
			}}
		}
		return k(s.value).run(ctx, env)
	}}
}

// Pair holds the result of Join.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Join runs two independent Fetch values and combines their results. Unlike
// FlatMap, fb does not depend on fa's value, so if both block in the same
// round their requests are free to batch together (same source) or run
// concurrently (different sources) — Join never forces fb to wait for fa.
func Join[A, B any](fa Fetch[A], fb Fetch[B]) Fetch[Pair[A, B]] {
	return Fetch[Pair[A, B]]{run: func(ctx context.Context, env *Environment) step[Pair[A, B]] {
		sa := fa.run(ctx, env)
		if sa.err != nil {
			return step[Pair[A, B]]{err: sa.err}
		}
		sb := fb.run(ctx, env)
		if sb.err != nil {
			return step[Pair[A, B]]{err: sb.err}
		}
		if sa.done && sb.done {
			return step[Pair[A, B]]{done: true, value: Pair[A, B]{First: sa.value, Second: sb.value}}
		}
		blocked := make([]blockedFetch, 0, len(sa.blocked)+len(sb.blocked))
		blocked = append(blocked, sa.blocked...)
		blocked = append(blocked, sb.blocked...)
		return step[Pair[A, B]]{blocked: blocked, resume: func() Fetch[Pair[A, B]] {
			nextA := fa
			if sa.done {
				nextA = Pure(sa.value)
			} else {
				nextA = sa.resume()
			}
			nextB := fb
			if sb.done {
				nextB = Pure(sb.value)
			} else {
				nextB = sb.resume()
			}
			return Join(nextA, nextB)
		}}
	}}
}

// Collect runs every element of fs independently within the same round(s),
// batching and deduplicating requests across elements exactly as Join does
// for two. The result preserves the input order.
func Collect[A any](fs []Fetch[A]) Fetch[[]A] {
	return Fetch[[]A]{run: func(ctx context.Context, env *Environment) step[[]A] {
		if len(fs) == 0 {
			return step[[]A]{done: true, value: []A{}}
		}
		vals := make([]A, len(fs))
		states := make([]step[A], len(fs))
		var blocked []blockedFetch
		anyBlocked := false
		for i, f := range fs {
			s := f.run(ctx, env)
			if s.err != nil {
				return step[[]A]{err: s.err}
			}
			states[i] = s
			if s.done {
				vals[i] = s.value
			} else {
				anyBlocked = true
				blocked = append(blocked, s.blocked...)
			}
		}
		if !anyBlocked {
			return step[[]A]{done: true, value: vals}
		}
		return step[[]A]{blocked: blocked, resume: func() Fetch[[]A] {
			next := make([]Fetch[A], len(fs))
			for i, s := range states {
				if s.done {
					next[i] = Pure(s.value)
				} else {
					next[i] = s.resume()
				}
			}
			return Collect(next)
		}}
	}}
}

// Traverse maps f over xs and collects the results, exactly as
// Collect(map(f, xs)) would, batching and deduplicating requests across the
// whole slice: traversing a slice with repeated elements issues one batch
// of distinct requests, not one request per element.
func Traverse[T, A any](xs []T, f func(T) Fetch[A]) Fetch[[]A] {
	fs := make([]Fetch[A], len(xs))
	for i, x := range xs {
		fs[i] = f(x)
	}
	return Collect(fs)
}
