// Package highlight tracks smoothed, eased karaoke highlight progress for
// timed tokens across ticks.
package highlight

import (
	"math"

	"github.com/sukalov/karaokesync/internal/lyrics/timeline"
)

// Options tunes the low-pass filter and cache eviction.
type Options struct {
	// Factor is the share of the remaining distance covered per tick.
	Factor float64
	// Snap is the distance below which progress jumps straight to target.
	Snap float64
	// EvictAfterMs drops a cached token once the position is this far past
	// its end.
	EvictAfterMs int
	// Smoothing disabled makes progress follow the target exactly.
	Smoothing bool
}

// DefaultOptions returns a 0.3 factor, a 0.01 snap and a one second eviction delay.
func DefaultOptions() Options {
	return Options{
		Factor:       0.3,
		Snap:         0.01,
		EvictAfterMs: 1000,
		Smoothing:    true,
	}
}

// Tracker keeps per-token progress keyed by token identity. A reparse hands
// out new tokens, so progress for the new timeline starts over even when the
// text did not change.
//
// Tracker is not safe for concurrent use; the owner serializes ticks.
type Tracker struct {
	opts  Options
	cache map[*timeline.Token]float64
}

// NewTracker returns a tracker with an empty cache.
func NewTracker(opts Options) *Tracker {
	return &Tracker{
		opts:  opts,
		cache: make(map[*timeline.Token]float64),
	}
}

// EaseOutCubic maps linear progress to 1-(1-p)^3.
func EaseOutCubic(p float64) float64 {
	return 1 - math.Pow(1-p, 3)
}

// Target is the eased progress a token should show at position. The
// upper bound is closed: at the token's end the sweep is complete.
func Target(tok *timeline.Token, position int) float64 {
	if position < tok.StartTime {
		return 0
	}
	if position >= tok.EndTime {
		return 1
	}

	total := float64(tok.EndTime - tok.StartTime)
	linear := float64(position-tok.StartTime) / total
	linear = math.Max(0, math.Min(1, linear))
	return EaseOutCubic(linear)
}

// Smooth moves current toward target by factor, snapping when close enough.
func Smooth(current, target, factor, snap float64) float64 {
	diff := target - current
	if math.Abs(diff) > snap {
		return current + diff*factor
	}
	return target
}

// ProgressOf advances and returns the cached progress of one token. A token
// never seen before takes its target directly.
func (t *Tracker) ProgressOf(tok *timeline.Token, position int) float64 {
	target := Target(tok, position)

	current, ok := t.cache[tok]
	if !ok || !t.opts.Smoothing {
		t.cache[tok] = target
		return target
	}

	next := Smooth(current, target, t.opts.Factor, t.opts.Snap)
	t.cache[tok] = next
	return next
}

// Tick advances every token of the current line and evicts stale entries.
// The returned slice is aligned with line.Tokens; whitespace tokens are not
// highlighted and always report 0.
func (t *Tracker) Tick(line *timeline.Line, position int) []float64 {
	var progress []float64
	if line != nil && len(line.Tokens) > 0 {
		progress = make([]float64, len(line.Tokens))
		for i, tok := range line.Tokens {
			if tok.IsSpace() {
				continue
			}
			progress[i] = t.ProgressOf(tok, position)
		}
	}

	t.Evict(position)
	return progress
}

// Evict removes tokens that ended more than EvictAfterMs before position,
// whether or not their line is still current.
func (t *Tracker) Evict(position int) int {
	removed := 0
	for tok := range t.cache {
		if position > tok.EndTime+t.opts.EvictAfterMs {
			delete(t.cache, tok)
			removed++
		}
	}
	return removed
}

// Cached returns the stored progress for tok and whether it is cached.
func (t *Tracker) Cached(tok *timeline.Token) (float64, bool) {
	p, ok := t.cache[tok]
	return p, ok
}

// ClearCache forgets every token.
func (t *Tracker) ClearCache() {
	t.cache = make(map[*timeline.Token]float64)
}

// Len reports how many tokens are cached.
func (t *Tracker) Len() int {
	return len(t.cache)
}
