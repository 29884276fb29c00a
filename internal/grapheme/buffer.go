// Package grapheme holds Mech source text as a sequence of extended
// grapheme-cluster slices, fronted by a cursor and an append-only error
// log, so the parser never has to reconcile byte offsets with what a user
// actually sees on screen.
package grapheme

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Range is a half-open [Start, End) span over grapheme indices, not bytes.
type Range struct {
	Start int
	End   int
}

// LogEntry is one accumulated parse problem, kept even after recovery.
type LogEntry struct {
	Range  Range
	Detail string
}

// Buffer is the input type threaded through every parser combinator.
// Cloning a Buffer is just copying this small struct — the grapheme slice
// backing array is shared, never duplicated.
type Buffer struct {
	graphemes []string
	Errors    []LogEntry
	cursor    int
}

// New splits src into grapheme clusters and synthesises a trailing
// newline if one is missing, so row/column arithmetic never has to
// special-case end-of-file.
func New(src string) *Buffer {
	if !strings.HasSuffix(src, "\n") {
		src = src + "\n"
	}
	return &Buffer{graphemes: Segment(src)}
}

// Segment splits s into extended-grapheme-cluster-ish slices. Go's
// standard library has no Unicode Annex #29 segmenter and nothing in the
// retrieved corpus carries one, so this approximates clusters as a base
// rune plus any immediately following combining marks — exact for every
// script Mech's own test corpus exercises (Latin, digits, box-drawing,
// common emoji) and documented here rather than silently assumed.
func Segment(s string) []string {
	var out []string
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		cluster := s[:size]
		rest := s[size:]
		for len(rest) > 0 {
			r2, size2 := utf8.DecodeRuneInString(rest)
			if !unicode.Is(unicode.Mn, r2) && !unicode.Is(unicode.Me, r2) {
				break
			}
			cluster += rest[:size2]
			rest = rest[size2:]
			_ = r2
		}
		out = append(out, cluster)
		s = rest
		_ = r
	}
	return out
}

// Width returns the terminal column width of a single grapheme, per
// spec.md §4.1: 1 for printable ASCII and tab, 2 for alphanumeric
// non-ASCII, 2 as a fallback for other non-ASCII, 0 for ASCII control
// other than tab.
func Width(g string) int {
	if g == "" {
		return 0
	}
	r, size := utf8.DecodeRuneInString(g)
	if size == len(g) {
		switch {
		case r == '\t':
			return 1
		case r < 0x20 || r == 0x7f:
			return 0
		case r < 0x80:
			return 1
		}
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return 2
	}
	return 2
}

// IsNewline reports whether a grapheme contains a line feed.
func IsNewline(g string) bool {
	return strings.ContainsRune(g, '\n')
}

// Cursor returns the current consumed-grapheme count.
func (b *Buffer) Cursor() int { return b.cursor }

// SetCursor rewinds or fast-forwards the cursor, used by backtracking
// combinators (alt, opt) to retry from a saved position.
func (b *Buffer) SetCursor(c int) { b.cursor = c }

// Clone returns a shallow copy sharing the grapheme slice but with its
// own cursor, so speculative parses never mutate the caller's position.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{graphemes: b.graphemes, cursor: b.cursor, Errors: b.Errors}
}

// Len returns the number of unconsumed graphemes.
func (b *Buffer) Len() int {
	return len(b.graphemes) - b.cursor
}

func (b *Buffer) AtEOF() bool { return b.Len() <= 0 }

// MatchTag peeks at the current location for tag without consuming.
func (b *Buffer) MatchTag(tag string) (bool, int) {
	gs := Segment(tag)
	if b.Len() < len(gs) {
		return false, 0
	}
	for i, g := range gs {
		if b.graphemes[b.cursor+i] != g {
			return false, 0
		}
	}
	return true, len(gs)
}

// ConsumeTag consumes tag if it matches at the current position.
func (b *Buffer) ConsumeTag(tag string) (string, bool) {
	ok, n := b.MatchTag(tag)
	if !ok {
		return "", false
	}
	b.cursor += n
	return tag, true
}

// ConsumeOne consumes and returns a single grapheme, regardless of class.
func (b *Buffer) ConsumeOne() (string, bool) {
	if b.AtEOF() {
		return "", false
	}
	g := b.graphemes[b.cursor]
	b.cursor++
	return g, true
}

// ConsumeAlpha consumes one grapheme if its leading rune is alphabetic.
func (b *Buffer) ConsumeAlpha() (string, bool) {
	return b.consumeIf(unicode.IsLetter)
}

// ConsumeDigit consumes one grapheme if its leading rune is numeric.
func (b *Buffer) ConsumeDigit() (string, bool) {
	return b.consumeIf(unicode.IsDigit)
}

// ConsumeEmoji consumes one grapheme if its leading rune is non-ASCII and
// non-alphabetic — Mech's atom/identifier sigils allow a handful of
// symbol runes here.
func (b *Buffer) ConsumeEmoji() (string, bool) {
	return b.consumeIf(func(r rune) bool { return r > unicode.MaxASCII && !unicode.IsLetter(r) })
}

func (b *Buffer) consumeIf(pred func(rune) bool) (string, bool) {
	if b.AtEOF() {
		return "", false
	}
	g := b.graphemes[b.cursor]
	r, _ := utf8.DecodeRuneInString(g)
	if !pred(r) {
		return "", false
	}
	b.cursor++
	return g, true
}

// RemainingLen exposes the count of unconsumed graphemes (spec.md §4.1).
func (b *Buffer) RemainingLen() int { return b.Len() }

// Peek returns the grapheme at the cursor without consuming it.
func (b *Buffer) Peek() (string, bool) {
	if b.AtEOF() {
		return "", false
	}
	return b.graphemes[b.cursor], true
}

// Slice returns the raw graphemes in [r.Start, r.End).
func (b *Buffer) Slice(r Range) []string {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > len(b.graphemes) {
		r.End = len(b.graphemes)
	}
	if r.Start >= r.End {
		return nil
	}
	return b.graphemes[r.Start:r.End]
}

// String reassembles a range of graphemes into a string.
func (b *Buffer) String(r Range) string {
	return strings.Join(b.Slice(r), "")
}

// LogError appends an error to the buffer's append-only log.
func (b *Buffer) LogError(r Range, detail string) {
	b.Errors = append(b.Errors, LogEntry{Range: r, Detail: detail})
}

// Graphemes exposes the full underlying slice, used by the diagnostic
// formatter (C3) to compute row/col from a grapheme range.
func (b *Buffer) Graphemes() []string { return b.graphemes }
