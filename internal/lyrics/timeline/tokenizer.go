package timeline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category classifies a token for duration scheduling.
type Category int

const (
	CategoryOther Category = iota
	CategoryCJK
	CategoryPunctuation
	CategoryWord
)

func (c Category) String() string {
	switch c {
	case CategoryCJK:
		return "cjk"
	case CategoryPunctuation:
		return "punctuation"
	case CategoryWord:
		return "word"
	default:
		return "other"
	}
}

// IsCJK reports whether r is a CJK ideograph, kana or Hangul syllable.
func IsCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3040 && r <= 0x309F) ||
		(r >= 0x30A0 && r <= 0x30FF) ||
		(r >= 0xAC00 && r <= 0xD7AF)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokenize splits cleaned lyric text into highlight units. Whitespace, CJK
// characters and punctuation become single-character tokens, runs of
// letters, digits and apostrophes become one word token. A run started by a
// non-CJK letter keeps consuming letters, CJK included, so "OK你好" is one
// word. Joining the result gives back the input.
func Tokenize(text string) []string {
	var parts []string
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		switch {
		case unicode.IsSpace(r), IsCJK(r), unicode.IsPunct(r):
			parts = append(parts, text[i:i+size])
			i += size
		case isWordRune(r):
			start := i
			for i < len(text) {
				r, size = utf8.DecodeRuneInString(text[i:])
				if !isWordRune(r) && r != '\'' {
					break
				}
				i += size
			}
			parts = append(parts, text[start:i])
		default:
			parts = append(parts, text[i:i+size])
			i += size
		}
	}
	return parts
}

// Classify returns the scheduling category of a token, decided by its
// first character and its length.
func Classify(part string) Category {
	r, _ := utf8.DecodeRuneInString(part)
	switch {
	case part == "":
		return CategoryOther
	case IsCJK(r):
		return CategoryCJK
	case unicode.IsPunct(r):
		return CategoryPunctuation
	case utf8.RuneCountInString(part) > 1:
		return CategoryWord
	default:
		return CategoryOther
	}
}

func isSpaceText(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}
