package lyrics

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sukalov/karaokesync/internal/logger"
	"github.com/sukalov/karaokesync/internal/lyrics/highlight"
	"github.com/sukalov/karaokesync/internal/lyrics/timeline"
)

// Frame is what the renderer needs for one tick: the active line and the
// highlight progress of each of its tokens.
type Frame struct {
	Position int            `json:"position"`
	Index    int            `json:"index"`
	Line     *timeline.Line `json:"line,omitempty"`
	Progress []float64      `json:"progress,omitempty"`
	Revision int            `json:"revision"`
}

// Engine owns the current timeline and the highlight cache. Hosts feed it
// raw text on content polls and positions on animation ticks. All methods
// take the same lock, so a tick is a single critical section even if the
// host calls from several goroutines.
type Engine struct {
	mu       sync.Mutex
	opts     timeline.Options
	tracker  *highlight.Tracker
	raw      string
	lines    timeline.Timeline
	revision int
	force    bool
}

// NewEngine creates an engine with no lyrics loaded.
func NewEngine(parseOpts timeline.Options, trackOpts highlight.Options) *Engine {
	return &Engine{
		opts:    parseOpts,
		tracker: highlight.NewTracker(trackOpts),
	}
}

// Update rebuilds the timeline when raw differs from the last text seen or a
// refresh was forced. It reports whether a rebuild happened. Empty text
// clears the timeline.
func (e *Engine) Update(raw string) (bool, timeline.Report) {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw = strings.TrimSpace(raw)
	if raw == e.raw && !e.force {
		return false, timeline.Report{}
	}

	forced := e.force
	e.force = false
	e.raw = raw
	e.revision++

	if forced {
		e.tracker.ClearCache()
	}

	if raw == "" {
		e.lines = nil
		logger.Debug(fmt.Sprintf("lyrics cleared (revision %d)", e.revision))
		return true, timeline.Report{}
	}

	report := timeline.Parse(raw, e.opts)
	e.lines = report.Timeline
	logReport(report, e.revision)
	return true, report
}

// ForceRefresh makes the next Update rebuild even for unchanged text and
// drop all cached progress.
func (e *Engine) ForceRefresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.force = true
}

// Reconfigure swaps the options, drops all cached progress and forces a
// rebuild of the current text on the next Update.
func (e *Engine) Reconfigure(parseOpts timeline.Options, trackOpts highlight.Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = parseOpts
	e.tracker = highlight.NewTracker(trackOpts)
	e.force = true
}

// Tick resolves the line at position and advances its highlight progress.
func (e *Engine) Tick(position int) Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	line, idx := e.lines.At(position)
	return Frame{
		Position: position,
		Index:    idx,
		Line:     line,
		Progress: e.tracker.Tick(line, position),
		Revision: e.revision,
	}
}

// ProgressOf advances a single token, for hosts that drive tokens directly.
func (e *Engine) ProgressOf(tok *timeline.Token, position int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.ProgressOf(tok, position)
}

// ClearCache drops all highlight progress.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracker.ClearCache()
}

// Timeline returns the current timeline. Callers must not modify it.
func (e *Engine) Timeline() timeline.Timeline {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines
}

func (e *Engine) CachedTokens() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Len()
}

func logReport(report timeline.Report, revision int) {
	logger.Debug(fmt.Sprintf("parsed lyrics (revision %d): %d lines, %d raw lines dropped",
		revision, len(report.Timeline), report.Dropped))

	for _, res := range report.Degraded() {
		logger.Warn(fmt.Sprintf("line at %dms lost word timing: %q\nError: %v",
			res.Line.StartTime, res.Line.OriginalText, res.Err))
	}
}
