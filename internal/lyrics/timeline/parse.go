package timeline

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var timestampRegex = regexp.MustCompile(`\[(\d+):(\d+)\.(\d+)\]`)

// maxTagValue bounds every tag field so the millisecond sum stays well inside int range.
const maxTagValue = 1_000_000

// Options tunes how raw text is turned into a timeline.
type Options struct {
	// ScaleFraction reads the fraction after the dot as a decimal part of a
	// second (".12" is 120ms). When false the digits are taken literally
	// as milliseconds (".12" is 12ms).
	ScaleFraction bool
	Durations     Durations
	TailMs        int
}

// DefaultOptions returns literal fractions, the stock duration table and the
// standard tail.
func DefaultOptions() Options {
	return Options{
		Durations: DefaultDurations(),
		TailMs:    TailMs,
	}
}

type group struct {
	time  int
	texts []string
}

// ParseLyrics turns raw timestamped text into a timeline using the default
// options.
func ParseLyrics(raw string) Timeline {
	return Parse(raw, DefaultOptions()).Timeline
}

// Parse splits raw text into timestamp groups, builds one line per group and
// links the lines into a gap-free timeline. It never fails: untagged lines
// are dropped and lines that cannot be word-timed keep their text only.
func Parse(raw string, opts Options) Report {
	var report Report
	if raw == "" {
		return report
	}

	groups, dropped := groupByTimestamp(raw, opts)
	report.Dropped = dropped

	for _, g := range groups {
		res := buildLine(g, opts.Durations)
		report.Results = append(report.Results, res)
		report.Timeline = append(report.Timeline, res.Line)
	}

	sort.SliceStable(report.Timeline, func(i, j int) bool {
		return report.Timeline[i].StartTime < report.Timeline[j].StartTime
	})
	link(report.Timeline, opts.TailMs)

	return report
}

// groupByTimestamp collects cleaned line texts under their timestamp,
// keeping first-seen order for both groups and texts within a group.
func groupByTimestamp(raw string, opts Options) ([]*group, int) {
	var (
		groups  []*group
		byTime  = make(map[int]*group)
		dropped int
	)

	for _, rawLine := range strings.Split(raw, "\n") {
		if rawLine == "" {
			continue
		}

		ms, err := parseTimestamp(rawLine, opts.ScaleFraction)
		if err != nil {
			dropped++
			continue
		}

		clean := strings.TrimSpace(timestampRegex.ReplaceAllString(rawLine, ""))

		g, ok := byTime[ms]
		if !ok {
			g = &group{time: ms}
			byTime[ms] = g
			groups = append(groups, g)
		}
		g.texts = append(g.texts, clean)
	}

	return groups, dropped
}

// parseTimestamp reads the first [mm:ss.ff] tag of a raw line.
func parseTimestamp(rawLine string, scaleFraction bool) (int, error) {
	match := timestampRegex.FindStringSubmatch(rawLine)
	if match == nil {
		return 0, ErrMalformedTimestamp
	}

	minutes, err := strconv.Atoi(match[1])
	if err != nil || minutes > maxTagValue {
		return 0, fmt.Errorf("%w: minutes %q", ErrMalformedTimestamp, match[1])
	}
	seconds, err := strconv.Atoi(match[2])
	if err != nil || seconds > maxTagValue {
		return 0, fmt.Errorf("%w: seconds %q", ErrMalformedTimestamp, match[2])
	}
	fraction, err := parseFraction(match[3], scaleFraction)
	if err != nil {
		return 0, fmt.Errorf("%w: fraction %q", ErrMalformedTimestamp, match[3])
	}

	return (minutes*60+seconds)*1000 + fraction, nil
}

func parseFraction(digits string, scale bool) (int, error) {
	if !scale {
		v, err := strconv.Atoi(digits)
		if err != nil || v > maxTagValue {
			return 0, ErrMalformedTimestamp
		}
		return v, nil
	}

	// Pad or cut to exactly three digits: "1" -> "100", "1234" -> "123".
	if len(digits) > 3 {
		digits = digits[:3]
	}
	digits += strings.Repeat("0", 3-len(digits))
	return strconv.Atoi(digits)
}

// buildLine turns one timestamp group into a line. The first text is the
// original, the second (if any) its translation. Anything that goes wrong
// while timing tokens leaves the line with plain text.
func buildLine(g *group, d Durations) (res LineResult) {
	line := &Line{
		StartTime: g.time,
		EndTime:   g.time,
	}
	if len(g.texts) > 1 {
		line.TranslationText = g.texts[1]
	}

	text := g.texts[0]
	line.OriginalText = text
	res.Line = line

	if text == "" {
		res.Status = StatusEmpty
		res.Err = ErrEmptyContent
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			line.Tokens = nil
			line.EndTime = line.StartTime
			res.Status = StatusDegraded
			res.Err = fmt.Errorf("%w: %v", ErrScheduling, r)
		}
	}()

	tokens, end, err := timeTokens(text, g.time, d)
	if err != nil {
		res.Status = StatusDegraded
		res.Err = err
		return res
	}

	line.Tokens = tokens
	line.EndTime = end
	res.Status = StatusOK
	return res
}

func timeTokens(text string, start int, d Durations) ([]*Token, int, error) {
	parts := Tokenize(text)
	if len(parts) == 0 {
		return nil, 0, fmt.Errorf("%w: no tokens in %q", ErrScheduling, text)
	}

	tokens, end := Schedule(parts, start, d)
	prev := start
	for i, tok := range tokens {
		if tok.EndTime < tok.StartTime || tok.StartTime < prev {
			return nil, 0, fmt.Errorf("%w: token %d %q spans [%d,%d]",
				ErrScheduling, i, tok.Text, tok.StartTime, tok.EndTime)
		}
		prev = tok.StartTime
	}
	return tokens, end, nil
}

// link makes each line end where the next one starts and gives the last
// line a fixed tail.
func link(lines Timeline, tail int) {
	for i, line := range lines {
		if i < len(lines)-1 {
			line.EndTime = lines[i+1].StartTime
		} else {
			line.EndTime = line.StartTime + tail
		}
	}
}
