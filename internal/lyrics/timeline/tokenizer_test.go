package timeline

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "latin word space cjk punctuation",
			in:   "Hi 你好!",
			want: []string{"Hi", " ", "你", "好", "!"},
		},
		{
			name: "apostrophe stays inside word",
			in:   "don't stop",
			want: []string{"don't", " ", "stop"},
		},
		{
			name: "leading apostrophe is punctuation",
			in:   "'cause",
			want: []string{"'", "cause"},
		},
		{
			name: "digits join letters",
			in:   "24K magic",
			want: []string{"24K", " ", "magic"},
		},
		{
			name: "kana and hangul split per character",
			in:   "さくら사랑",
			want: []string{"さ", "く", "ら", "사", "랑"},
		},
		{
			name: "latin run absorbs following cjk",
			in:   "OK你好 好OK",
			want: []string{"OK你好", " ", "好", "OK"},
		},
		{
			name: "symbols are single tokens",
			in:   "a+b",
			want: []string{"a", "+", "b"},
		},
		{
			name: "accented letters form one word",
			in:   "café",
			want: []string{"café"},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Tokenize(%q) = %q; want %q", tc.in, got, tc.want)
			}
			if joined := strings.Join(got, ""); joined != tc.in {
				t.Errorf("joined tokens = %q; want %q", joined, tc.in)
			}
		})
	}
}

func TestTokenize_KeepsWhitespaceRune(t *testing.T) {
	got := Tokenize("a\tb")
	want := []string{"a", "\t", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %q; want %q", got, want)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"你", CategoryCJK},
		{"カ", CategoryCJK},
		{"!", CategoryPunctuation},
		{"，", CategoryPunctuation},
		{"Hi", CategoryWord},
		{"a", CategoryOther},
		{" ", CategoryOther},
		{"+", CategoryOther},
		{"", CategoryOther},
	}

	for _, tc := range tests {
		if got := Classify(tc.in); got != tc.want {
			t.Errorf("Classify(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsCJK_RangeEdges(t *testing.T) {
	for _, r := range []rune{0x4E00, 0x9FFF, 0x3040, 0x309F, 0x30A0, 0x30FF, 0xAC00, 0xD7AF} {
		if !IsCJK(r) {
			t.Errorf("IsCJK(%U) = false; want true", r)
		}
	}
	for _, r := range []rune{0x4DFF, 0xA000, 0x303F, 0xD7B0, 'A'} {
		if IsCJK(r) {
			t.Errorf("IsCJK(%U) = true; want false", r)
		}
	}
}
