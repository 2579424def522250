// Package engine drives the outer iteration loop: draw a base MAIG from
// the best pool, split it to multi-input form, cycle Expand/Share/
// Reduce, canonicalize back to two-input form, and score the result
// against the pool.
package engine

import (
	"math/rand"
	"time"

	"aigrewrite/internal/expand"
	"aigrewrite/internal/maig"
	"aigrewrite/internal/reduce"
	"aigrewrite/internal/share"
	"aigrewrite/internal/simulate"
)

// SaveNum is the maximum number of tied-best MAIGs the pool retains.
const SaveNum = 8

// Options configures one rewrite run. Field names mirror the CLI flags
// (-I -E -G -D -F -S -T) one-to-one.
type Options struct {
	NIters    int // -I, default 1000
	NExpands  int // -E, default 100
	NGrowth   int // -G, default 3
	NDivs     int // -D, default 4
	NFaninMax int // -F, default 4
	Seed      int64
	Timeout   time.Duration // 0 disables the wall-clock budget
}

// DefaultOptions returns the reference driver's defaults.
func DefaultOptions() Options {
	return Options{
		NIters:    1000,
		NExpands:  100,
		NGrowth:   3,
		NDivs:     4,
		NFaninMax: 4,
		Seed:      1,
		Timeout:   0,
	}
}

// Stats snapshots the engine's progress. It is refreshed every
// iteration (not only on a new best), so a verbose emitter can show
// live per-transformation accept counts.
type Stats struct {
	Iteration      int
	BestAndCount   int
	ExpandAdded    int
	ShareExtracted int
	ReduceChanged  int
	Improved       bool
	TimedOut       bool
}

// Emitter receives a Stats snapshot after every iteration. Implementations
// decide how much of it to surface (e.g. only print on Improved).
type Emitter func(Stats)

// Run executes the iteration loop over input (a two-input AIG already
// expressed as a MAIG, see maig.FromTwoInput) and returns the best
// two-input MAIG found, final stats, and an error only for a fatal
// InvalidAIG or SimulationMismatch — a Timeout sets Stats.TimedOut and
// returns the best-so-far with a nil error, since the design treats it
// as a successful early return, not a failure.
func Run(input *maig.MAIG, opts Options, emit Emitter) (*maig.MAIG, Stats, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	best := input.AndCount()
	pool := []*maig.MAIG{input.Clone()}

	var deadline time.Time
	if opts.Timeout > 0 {
		deadline = time.Now().Add(opts.Timeout)
	}

	var stats Stats
	for iter := 0; iter < opts.NIters; iter++ {
		if opts.Timeout > 0 && time.Now().After(deadline) {
			stats.TimedOut = true
			break
		}

		base := pool[rng.Intn(len(pool))].Clone()
		multi := maig.Split(base, rng, opts.NFaninMax, opts.NGrowth)

		sim := simulate.New(multi)
		added := expand.Run(multi, sim, rng, opts.NExpands)
		if err := sim.CheckEquivalence(); err != nil {
			return nil, stats, err
		}
		multi.Recount()

		afterShare, extracted, err := share.Run(multi, rng, opts.NDivs)
		if err != nil {
			return nil, stats, err
		}
		afterShare.Recount()

		sim = simulate.New(afterShare)
		changed := reduce.Run(afterShare, sim, rng)
		if err := sim.CheckEquivalence(); err != nil {
			return nil, stats, err
		}

		canon, err := maig.Canonicalize(afterShare)
		if err != nil {
			return nil, stats, err
		}
		if err := simulate.VerifyEquivalence(input, canon); err != nil {
			return nil, stats, err
		}

		c := canon.AndCount()
		stats.Iteration = iter
		stats.ExpandAdded = added
		stats.ShareExtracted = extracted
		stats.ReduceChanged = changed
		stats.Improved = false
		switch {
		case c > best:
			// discard
		case c == best:
			if len(pool) < SaveNum {
				pool = append(pool, canon)
			} else {
				pool[rng.Intn(len(pool))] = canon
			}
		default:
			best = c
			pool = []*maig.MAIG{canon}
			stats.Improved = true
		}
		stats.BestAndCount = best
		if emit != nil {
			emit(stats)
		}
	}

	return pickBest(pool), stats, nil
}

func pickBest(pool []*maig.MAIG) *maig.MAIG {
	best := pool[0]
	bestCount := best.AndCount()
	for _, m := range pool[1:] {
		if c := m.AndCount(); c < bestCount {
			best, bestCount = m, c
		}
	}
	return best
}
