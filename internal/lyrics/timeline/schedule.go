package timeline

import "unicode/utf8"

// Durations holds the per-category token durations in milliseconds.
type Durations struct {
	CJK         int `yaml:"cjk"`
	Punctuation int `yaml:"punctuation"`
	PerLetter   int `yaml:"per_letter"`
	Default     int `yaml:"default"`
	Gap         int `yaml:"gap"`
}

// DefaultDurations returns the stock timing table.
func DefaultDurations() Durations {
	return Durations{
		CJK:         180,
		Punctuation: 80,
		PerLetter:   60,
		Default:     150,
		Gap:         20,
	}
}

// For returns how long a token stays in its highlight sweep.
func (d Durations) For(part string) int {
	switch Classify(part) {
	case CategoryCJK:
		return d.CJK
	case CategoryPunctuation:
		return d.Punctuation
	case CategoryWord:
		return utf8.RuneCountInString(part) * d.PerLetter
	default:
		return d.Default
	}
}

// Schedule lays tokens out one after another starting at start, separated
// by the inter-token gap. It returns the timed tokens and the cursor after
// the last one, which is the line's natural end.
func Schedule(parts []string, start int, d Durations) ([]*Token, int) {
	tokens := make([]*Token, 0, len(parts))
	cursor := start
	for _, part := range parts {
		dur := d.For(part)
		tokens = append(tokens, &Token{
			Text:      part,
			StartTime: cursor,
			EndTime:   cursor + dur,
		})
		cursor += dur + d.Gap
	}
	return tokens, cursor
}
