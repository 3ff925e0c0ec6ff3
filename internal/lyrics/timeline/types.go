package timeline

import "errors"

// TailMs is the synthetic duration given to the last line of a timeline.
const TailMs = 5000

var (
	ErrMalformedTimestamp = errors.New("malformed or missing timestamp tag")
	ErrEmptyContent       = errors.New("no text after removing timestamp tags")
	ErrScheduling         = errors.New("tokenizing or scheduling failed")
)

// Token is the smallest piece of text that gets its own highlight timing.
// Tokens are always handled by pointer: the highlight tracker keys its cache
// on the pointer, so every parse hands out fresh tokens.
type Token struct {
	Text      string `json:"text"`
	StartTime int    `json:"start_time"`
	EndTime   int    `json:"end_time"`
}

// IsSpace reports whether the token is a whitespace separator.
func (t *Token) IsSpace() bool {
	return isSpaceText(t.Text)
}

// Line represents one timestamped lyric line, optionally with a translation
type Line struct {
	StartTime       int      `json:"start_time"`
	EndTime         int      `json:"end_time"`
	OriginalText    string   `json:"original_text"`
	TranslationText string   `json:"translation_text,omitempty"`
	Tokens          []*Token `json:"tokens,omitempty"`
}

func (l *Line) HasTranslation() bool {
	return l.TranslationText != ""
}

// WordTimed reports whether the line carries per-token timing. Lines without
// tokens fall back to whole-line display.
func (l *Line) WordTimed() bool {
	return len(l.Tokens) > 0
}

// Timeline is a sorted, gap-free sequence of lines.
type Timeline []*Line

// Status describes how a timestamp group was turned into a line.
type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// LineResult is the outcome of building a single line. Degraded and empty
// lines are still valid timeline entries, they just have no tokens.
type LineResult struct {
	Line   *Line
	Status Status
	Err    error
}

// Report is the full outcome of a parse.
type Report struct {
	Timeline Timeline
	Results  []LineResult
	// Dropped counts raw lines skipped for lacking a usable timestamp tag.
	Dropped int
}

// Degraded returns the results that lost their word timing.
func (r Report) Degraded() []LineResult {
	var out []LineResult
	for _, res := range r.Results {
		if res.Status == StatusDegraded {
			out = append(out, res)
		}
	}
	return out
}
