package timeline

import (
	"errors"
	"testing"
)

func TestSchedule_Durations(t *testing.T) {
	tokens, end := Schedule([]string{"Hi", " ", "你", "好", "!"}, 1000, DefaultDurations())

	want := []struct {
		text       string
		start, end int
	}{
		{"Hi", 1000, 1120},
		{" ", 1140, 1290},
		{"你", 1310, 1490},
		{"好", 1510, 1690},
		{"!", 1710, 1790},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Text != w.text || tok.StartTime != w.start || tok.EndTime != w.end {
			t.Errorf("token %d = {%q %d %d}; want {%q %d %d}",
				i, tok.Text, tok.StartTime, tok.EndTime, w.text, w.start, w.end)
		}
	}
	if end != 1810 {
		t.Errorf("cursor after last token = %d; want 1810", end)
	}
}

func TestParseLyrics_MixedLatinCJKIsOneWord(t *testing.T) {
	line := ParseLyrics("[00:01.00]OK你好")[0]
	if len(line.Tokens) != 1 {
		t.Fatalf("tokens = %v; want one word", line.Tokens)
	}
	tok := line.Tokens[0]
	if tok.Text != "OK你好" || tok.StartTime != 1000 || tok.EndTime != 1240 {
		t.Errorf("token = {%q %d %d}; want {\"OK你好\" 1000 1240}", tok.Text, tok.StartTime, tok.EndTime)
	}
}

func TestParseLyrics_EndToEnd(t *testing.T) {
	lines := ParseLyrics("[00:01.00]Hello\n[00:01.00]你好\n[00:05.00]World")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	first, second := lines[0], lines[1]
	if first.StartTime != 1000 || first.EndTime != 5000 {
		t.Errorf("line 0 span = [%d,%d]; want [1000,5000]", first.StartTime, first.EndTime)
	}
	if first.OriginalText != "Hello" || first.TranslationText != "你好" {
		t.Errorf("line 0 text = %q / %q", first.OriginalText, first.TranslationText)
	}
	if len(first.Tokens) != 1 || first.Tokens[0].Text != "Hello" {
		t.Errorf("line 0 tokens = %v", first.Tokens)
	}

	if second.StartTime != 5000 || second.EndTime != 10000 {
		t.Errorf("line 1 span = [%d,%d]; want [5000,10000]", second.StartTime, second.EndTime)
	}
	if second.OriginalText != "World" || second.HasTranslation() {
		t.Errorf("line 1 text = %q / %q", second.OriginalText, second.TranslationText)
	}
}

func TestParseLyrics_SortsAndLinks(t *testing.T) {
	raw := "[00:10.00]third\n[00:02.50]first\n[00:05.00]second\n"
	lines := ParseLyrics(raw)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	wantText := []string{"first", "second", "third"}
	for i, line := range lines {
		if line.OriginalText != wantText[i] {
			t.Errorf("line %d text = %q; want %q", i, line.OriginalText, wantText[i])
		}
		if i < len(lines)-1 && line.EndTime != lines[i+1].StartTime {
			t.Errorf("line %d ends at %d, next starts at %d", i, line.EndTime, lines[i+1].StartTime)
		}
		if line.StartTime > line.EndTime {
			t.Errorf("line %d start %d after end %d", i, line.StartTime, line.EndTime)
		}
	}
	last := lines[len(lines)-1]
	if last.EndTime != last.StartTime+TailMs {
		t.Errorf("last line end = %d; want %d", last.EndTime, last.StartTime+TailMs)
	}
}

func TestParseLyrics_LiteralFraction(t *testing.T) {
	lines := ParseLyrics("[01:02.12]x")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if got := lines[0].StartTime; got != 62012 {
		t.Errorf("start = %d; want 62012", got)
	}
}

func TestParse_ScaledFraction(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"[00:01.5]x", 1500},
		{"[00:01.12]x", 1120},
		{"[00:01.123]x", 1123},
		{"[00:01.1234]x", 1123},
	}

	opts := DefaultOptions()
	opts.ScaleFraction = true
	for _, tc := range tests {
		report := Parse(tc.raw, opts)
		if len(report.Timeline) != 1 {
			t.Fatalf("%q: expected 1 line, got %d", tc.raw, len(report.Timeline))
		}
		if got := report.Timeline[0].StartTime; got != tc.want {
			t.Errorf("%q: start = %d; want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParse_DropsUntaggedLines(t *testing.T) {
	raw := "[ti:Song]\nno tag here\n[00:01.00]kept\n[1:2]bad\n"
	report := Parse(raw, DefaultOptions())

	if len(report.Timeline) != 1 {
		t.Fatalf("expected 1 line, got %d", len(report.Timeline))
	}
	if report.Dropped != 3 {
		t.Errorf("dropped = %d; want 3", report.Dropped)
	}
}

func TestParse_EmptyTextKeepsLine(t *testing.T) {
	report := Parse("[00:01.00]\n[00:01.00]translation\n[00:03.00]next", DefaultOptions())
	if len(report.Timeline) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(report.Timeline))
	}

	line := report.Timeline[0]
	if line.WordTimed() {
		t.Errorf("empty line should have no tokens, got %d", len(line.Tokens))
	}
	if line.TranslationText != "translation" {
		t.Errorf("translation = %q", line.TranslationText)
	}
	if report.Results[0].Status != StatusEmpty || !errors.Is(report.Results[0].Err, ErrEmptyContent) {
		t.Errorf("result = %v / %v; want empty", report.Results[0].Status, report.Results[0].Err)
	}
}

func TestParse_ThirdLineInGroupIgnored(t *testing.T) {
	lines := ParseLyrics("[00:01.00]a\n[00:01.00]b\n[00:01.00]c")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].OriginalText != "a" || lines[0].TranslationText != "b" {
		t.Errorf("line = %q / %q", lines[0].OriginalText, lines[0].TranslationText)
	}
}

func TestParse_TranslationNotTokenized(t *testing.T) {
	lines := ParseLyrics("[00:01.00]Hey you\n[00:01.00]嘿 你")
	if got := len(lines[0].Tokens); got != 3 {
		t.Fatalf("tokens = %d; want 3 (original only)", got)
	}
}

func TestParse_DegradesOnBadSchedule(t *testing.T) {
	opts := DefaultOptions()
	opts.Durations.Default = -500

	report := Parse("[00:01.00]a b\n[00:02.00]ok words", opts)
	if len(report.Timeline) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(report.Timeline))
	}

	bad := report.Results[0]
	if bad.Status != StatusDegraded || !errors.Is(bad.Err, ErrScheduling) {
		t.Fatalf("result = %v / %v; want degraded", bad.Status, bad.Err)
	}
	if bad.Line.WordTimed() || bad.Line.OriginalText != "a b" {
		t.Errorf("degraded line = %+v", bad.Line)
	}
	if got := len(report.Degraded()); got != 1 {
		t.Errorf("Degraded() = %d; want 1", got)
	}
	if report.Results[1].Status != StatusOK {
		t.Errorf("second line status = %v; want ok", report.Results[1].Status)
	}
}

func TestParse_TokensFreshOnReparse(t *testing.T) {
	raw := "[00:01.00]Hello world\n[00:04.00]again"
	a := ParseLyrics(raw)
	b := ParseLyrics(raw)

	if len(a) != len(b) {
		t.Fatalf("line counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].StartTime != b[i].StartTime || a[i].EndTime != b[i].EndTime || a[i].OriginalText != b[i].OriginalText {
			t.Errorf("line %d differs between parses", i)
		}
		for j := range a[i].Tokens {
			ta, tb := a[i].Tokens[j], b[i].Tokens[j]
			if *ta != *tb {
				t.Errorf("token %d/%d values differ: %+v vs %+v", i, j, *ta, *tb)
			}
			if ta == tb {
				t.Errorf("token %d/%d shared between parses", i, j)
			}
		}
	}
}

func TestParse_CRLF(t *testing.T) {
	lines := ParseLyrics("[00:01.00]one\r\n[00:02.00]two\r\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].OriginalText != "one" {
		t.Errorf("text = %q; want %q", lines[0].OriginalText, "one")
	}
}

func TestParseLyrics_Empty(t *testing.T) {
	if got := ParseLyrics(""); len(got) != 0 {
		t.Fatalf("expected empty timeline, got %d lines", len(got))
	}
}
