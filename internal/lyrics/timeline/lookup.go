package timeline

import "math"

// CurrentLine returns the line active at position, or nil for an empty
// timeline. Positions before the first line resolve to the first line.
func CurrentLine(lines Timeline, position int) *Line {
	line, _ := lines.At(position)
	return line
}

// At is CurrentLine that also reports the index of the line, -1 when the
// timeline is empty.
func (t Timeline) At(position int) (*Line, int) {
	if len(t) == 0 {
		return nil, -1
	}

	for i, line := range t {
		next := math.MaxInt
		if i < len(t)-1 {
			next = t[i+1].StartTime
		}
		if position >= line.StartTime && position < next {
			return line, i
		}
	}

	if position < t[0].StartTime {
		return t[0], 0
	}
	return t[len(t)-1], len(t) - 1
}

// Duration is the span covered by the timeline, tail included.
func (t Timeline) Duration() int {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].EndTime - t[0].StartTime
}
