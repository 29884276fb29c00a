// Package diagnostic assembles spec.md §4.3/§6's coloured multi-line
// parse-error report (component C3): gutter line numbers, caret/tilde
// underlining, major/minor range classification, and a 10-error cap
// with a humanized overflow trailer. It is grounded on the teacher's
// internal/errors/errors.go Error() method's gutter+caret rendering,
// generalized here to the multi-range, multi-error report spec.md
// requires — errors.go itself stays a single-line summary for runtime
// MechErrors (spec.md §7's "User-visible behaviour... On runtime
// failure: a single line").
package diagnostic

import (
	"fmt"
	"os"
	"sort"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"mech/internal/grapheme"
)

const maxDiagnostics = 10

// ansi color codes used for the cause range (red) and annotation ranges
// (purple), gated behind a TTY check so a redirected/piped run gets the
// same text report without ANSI escapes.
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiPurple = "\x1b[35m"
	ansiDim    = "\x1b[2m"
)

// Range is a half-open [Start, End) span over grapheme offsets, the
// same unit spec.md §6's machine-readable diagnostic form uses.
type Range struct {
	Start, End int
}

// Diagnostic is one syntax error: a cause range plus zero or more
// annotation ranges pointing at related context (e.g. "opened here").
type Diagnostic struct {
	CauseStart, CauseEnd int
	Message              string
	Annotations          []Range
}

// FromLog builds one Diagnostic per entry in a grapheme.Buffer's error
// log (populated by internal/parser's labelRecover), with no
// annotations — the parser doesn't yet track secondary ranges per
// error, so every Diagnostic here carries only a cause range.
func FromLog(log []grapheme.LogEntry) []Diagnostic {
	out := make([]Diagnostic, len(log))
	for i, e := range log {
		out[i] = Diagnostic{CauseStart: e.Range.Start, CauseEnd: e.Range.End, Message: e.Detail}
	}
	return out
}

// Render assembles the full coloured report for src against diags,
// gating ANSI colour on whether stdout is a terminal.
func Render(src string, diags []Diagnostic) string {
	return RenderColor(src, diags, isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

// RenderColor is Render with the colour decision made explicit, for
// testing and for callers that want to override the TTY auto-detection.
func RenderColor(src string, diags []Diagnostic, color bool) string {
	buf := grapheme.New(src)
	loc := grapheme.NewLocator(buf)

	shown := diags
	overflow := 0
	if len(diags) > maxDiagnostics {
		shown = diags[:maxDiagnostics]
		overflow = len(diags) - maxDiagnostics
	}

	var sb strings.Builder
	for i, d := range shown {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(renderOne(buf, loc, i+1, d, color))
	}
	if overflow > 0 {
		sb.WriteString(fmt.Sprintf("\n... and %s more error(s)\n", humanize.Comma(int64(overflow))))
	}
	return sb.String()
}

func renderOne(buf *grapheme.Buffer, loc *grapheme.Locator, n int, d Diagnostic, color bool) string {
	var sb strings.Builder
	heading := fmt.Sprintf("syntax error #%d", n)
	if color {
		heading = ansiBold + heading + ansiReset
	}
	row, col := loc.RowCol(d.CauseStart)
	sb.WriteString(heading + "\n")
	sb.WriteString(fmt.Sprintf("@location:%d:%d\n", row, col))
	sb.WriteString(fmt.Sprintf("%s\n", d.Message))

	allRanges := append([]Range{{d.CauseStart, d.CauseEnd}}, d.Annotations...)
	lines := touchedLines(loc, allRanges)
	gutterWidth := len(fmt.Sprintf("%d", lastLine(lines)))

	prevLine := -2
	for _, line := range lines {
		if prevLine != -2 && line != prevLine+1 {
			sb.WriteString(strings.Repeat(" ", gutterWidth) + " | " + ansiDim + "..." + ansiReset + "\n")
		}
		prevLine = line
		lr := loc.LineRange(line)
		text := buf.String(lr)
		sb.WriteString(fmt.Sprintf("%*d | %s\n", gutterWidth, line, text))
		sb.WriteString(strings.Repeat(" ", gutterWidth) + " | " + underline(lr, line, d, color) + "\n")
	}
	return sb.String()
}

// underline builds the caret/tilde line beneath one source line: the
// cause range draws `~` across its interior and a final `^` on the
// line that is its single line or its end line (a "major" range per
// spec.md §4.3); annotation ranges draw `~` only, in purple.
func underline(lr grapheme.Range, line int, d Diagnostic, color bool) string {
	width := lr.End - lr.Start
	if width < 0 {
		width = 0
	}
	marks := make([]byte, width)
	for i := range marks {
		marks[i] = ' '
	}
	markRange(marks, lr, d.CauseStart, d.CauseEnd, true)
	for _, a := range d.Annotations {
		markRange(marks, lr, a.Start, a.End, false)
	}
	if !color {
		return string(marks)
	}
	return colorize(marks)
}

// markRange stamps one range's tildes (and, on its major line, a
// trailing caret) into marks, which is indexed relative to lr.Start.
func markRange(marks []byte, lr grapheme.Range, start, end int, isCause bool) {
	lo, hi := start, end
	if lo < lr.Start {
		lo = lr.Start
	}
	if hi > lr.End {
		hi = lr.End
	}
	if lo >= hi {
		return
	}
	tilde, caret := byte('~'), byte('^')
	if !isCause {
		caret = '~' // annotations never draw a caret, only cause ranges do
	}
	major := end <= lr.End // this line is the range's only/last line
	for i := lo; i < hi; i++ {
		idx := i - lr.Start
		if major && i == hi-1 {
			marks[idx] = caret
		} else {
			marks[idx] = tilde
		}
	}
}

// colorize wraps the cause/annotation marks in ANSI colour, red for `^`
// and purple for `~`, leaving blank columns untouched.
func colorize(marks []byte) string {
	var sb strings.Builder
	for _, m := range marks {
		switch m {
		case '^':
			sb.WriteString(ansiRed + "^" + ansiReset)
		case '~':
			sb.WriteString(ansiPurple + "~" + ansiReset)
		default:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func touchedLines(loc *grapheme.Locator, ranges []Range) []int {
	set := map[int]bool{}
	for _, r := range ranges {
		end := r.End - 1
		if end < r.Start {
			end = r.Start
		}
		startRow, _ := loc.RowCol(r.Start)
		endRow, _ := loc.RowCol(end)
		for l := startRow; l <= endRow; l++ {
			set[l] = true
		}
	}
	out := make([]int, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

func lastLine(lines []int) int {
	if len(lines) == 0 {
		return 1
	}
	return lines[len(lines)-1]
}
