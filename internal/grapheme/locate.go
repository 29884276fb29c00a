package grapheme

// Locator maps grapheme offsets to (row, col) pairs, indexing line
// beginnings lazily on first use — spec.md §4.1: "Line beginnings are
// indexed lazily by the formatter."
type Locator struct {
	b            *Buffer
	lineStarts   []int
	indexed      bool
}

// NewLocator builds a locator over b. Indexing is deferred to the first
// call to RowCol.
func NewLocator(b *Buffer) *Locator {
	return &Locator{b: b}
}

func (l *Locator) ensureIndexed() {
	if l.indexed {
		return
	}
	l.lineStarts = []int{0}
	for i, g := range l.b.graphemes {
		if IsNewline(g) {
			l.lineStarts = append(l.lineStarts, i+1)
		}
	}
	l.indexed = true
}

// RowCol converts a grapheme offset into a 1-based (row, col) pair.
func (l *Locator) RowCol(offset int) (row, col int) {
	l.ensureIndexed()
	if offset < 0 {
		offset = 0
	}
	// binary search for the last line start <= offset
	lo, hi := 0, len(l.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	row = lo + 1
	col = offset - l.lineStarts[lo] + 1
	return row, col
}

// LineRange returns the grapheme range [start, end) of the given 1-based
// line number, end exclusive of its trailing newline.
func (l *Locator) LineRange(line int) Range {
	l.ensureIndexed()
	if line < 1 || line > len(l.lineStarts) {
		return Range{}
	}
	start := l.lineStarts[line-1]
	end := len(l.b.graphemes)
	if line < len(l.lineStarts) {
		end = l.lineStarts[line] - 1
		if end < start {
			end = start
		}
	}
	return Range{Start: start, End: end}
}

// LineCount returns the total number of lines indexed so far.
func (l *Locator) LineCount() int {
	l.ensureIndexed()
	return len(l.lineStarts)
}
