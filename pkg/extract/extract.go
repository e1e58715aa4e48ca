// Package extract pulls tagged sections out of free-form model output.
//
// Prompts in this repo ask the model to wrap the structured parts of a reply
// in angle-bracket tag pairs, e.g. <reasoning>...</reasoning>. The model does
// not always comply: tags may be missing, empty, mixed-case, or surrounded by
// extra prose. Extraction therefore never fails — an absent tag yields an
// empty string and the caller decides what that means.
package extract

import "strings"

// Tag returns the trimmed content between the first occurrence of <name> and
// the first subsequent </name> in text. Tag names match case-insensitively
// and content may span multiple lines. Only the first pair is considered;
// nested same-named tags are not treated specially (the first closing tag
// found terminates the match). Returns "" when no complete pair exists.
func Tag(text, name string) string {
	open := "<" + name + ">"
	closing := "</" + name + ">"

	start := indexFold(text, open)
	if start < 0 {
		return ""
	}
	start += len(open)

	end := indexFold(text[start:], closing)
	if end < 0 {
		return ""
	}

	return strings.TrimSpace(text[start : start+end])
}

// Blocks returns the raw content of every complete <name>...</name> pair in
// text, in order of appearance. Content is not trimmed; callers that want
// the per-block trimming of Tag should re-extract within each block.
func Blocks(text, name string) []string {
	open := "<" + name + ">"
	closing := "</" + name + ">"

	var blocks []string
	rest := text
	for {
		start := indexFold(rest, open)
		if start < 0 {
			return blocks
		}
		start += len(open)

		end := indexFold(rest[start:], closing)
		if end < 0 {
			return blocks
		}

		blocks = append(blocks, rest[start:start+end])
		rest = rest[start+end+len(closing):]
	}
}

// indexFold returns the index of the first occurrence of substr in s,
// comparing ASCII letters case-insensitively. Tag names are ASCII, so a
// byte-wise scan is sufficient and keeps indexes aligned with the original
// text (unlike lowercasing the whole input first).
func indexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// equalFoldASCII reports whether a and b are equal under ASCII case folding.
// Both strings must have the same length.
func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
