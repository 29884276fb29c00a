// internal/parser/parser.go
package parser

import (
	"strings"
	"unicode"

	"mech/internal/errors"
	"mech/internal/grapheme"
	"mech/internal/kind"
)

// Parser drives a recursive-descent ladder over a grapheme.Buffer.
// Productions that can fail without aborting the whole parse wrap
// their body in p.labelRecover, mirroring original_source's
// label!/labelr! combinators (spec.md §4.2 invariant 3: "a malformed
// statement is skipped, not fatal").
type Parser struct {
	buf    *grapheme.Buffer
	file   string
	Errors []*errors.MechError
}

// New wraps src in a grapheme buffer and a fresh Parser.
func New(src, file string) *Parser {
	return &Parser{buf: grapheme.New(normalizeTables(src)), file: file}
}

// Locator exposes a row/col mapper over this parser's source buffer, so
// internal/diagnostic can resolve a Position's grapheme offset without
// reaching into the unexported buffer field itself.
func (p *Parser) Locator() *grapheme.Locator {
	return grapheme.NewLocator(p.buf)
}

// ErrorLog exposes the grapheme buffer's range-tagged error log (richer
// than p.Errors, which only carries a message) so internal/diagnostic
// can build cause ranges without reaching into the unexported buffer.
func (p *Parser) ErrorLog() []grapheme.LogEntry {
	return p.buf.Errors
}

// normalizeTables replaces box-drawing glyphs with their ASCII
// counterparts (`-`, `|`, `+`) across the whole source before
// segmentation (SPEC_FULL.md §12): a `|` table
// literal's decorative `+---+` / `├───┤` border rows parse identically
// to ones drawn with plain ASCII dashes.
func normalizeTables(src string) string {
	replacer := strings.NewReplacer(
		"─", "-", "│", "|", "┌", "+", "┐", "+", "└", "+", "┘", "+",
		"├", "+", "┤", "+", "┬", "+", "┴", "+", "┼", "+",
	)
	return replacer.Replace(src)
}

// Parse runs the full program grammar: program -> body -> section ->
// block -> statement (spec.md §4.2). Parsing never returns a nil
// Program; a totally empty input yields one empty section.
func (p *Parser) Parse() (*Program, []*errors.MechError) {
	prog := &Program{}
	p.skipBlank()
	for !p.buf.AtEOF() {
		section := p.parseSection()
		prog.Sections = append(prog.Sections, section)
		p.skipBlank()
	}
	if len(prog.Sections) == 0 {
		prog.Sections = [][]Stmt{{}}
	}
	return prog, p.Errors
}

func (p *Parser) parseSection() []Stmt {
	var stmts []Stmt
	for {
		p.skipSpace()
		if p.buf.AtEOF() {
			break
		}
		if p.atSectionBreak() {
			if len(stmts) > 0 {
				break
			}
			p.skipToNewline() // the heading line opens this section
			continue
		}
		if p.peekIs('\n') {
			p.buf.ConsumeOne()
			if p.peekIs('\n') {
				break // blank line ends the section
			}
			continue
		}
		stmt := p.labelRecover("statement", p.parseStatement)
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// atSectionBreak reports a markdown `#` heading line, which starts a
// new section (spec.md §4.2's markdown-interleaved program grammar).
func (p *Parser) atSectionBreak() bool {
	g, ok := p.buf.Peek()
	return ok && g == "#"
}

// labelRecover runs fn; on panic (this parser's internal signal for
// "this production failed"), it logs the error, skips to the next
// newline, and returns nil instead of aborting the whole parse —
// original_source's labelr! recovery combinator, generalized to Go's
// panic/recover since Go has no Result-returning combinator chaining.
func (p *Parser) labelRecover(what string, fn func() Stmt) (result Stmt) {
	start := p.buf.Cursor()
	defer func() {
		if r := recover(); r != nil {
			msg, _ := r.(string)
			if msg == "" {
				msg = "malformed " + what
			}
			p.logError(start, msg)
			p.skipToNewline()
			result = nil
		}
	}()
	return fn()
}

func (p *Parser) logError(startCursor int, msg string) {
	rng := grapheme.Range{Start: startCursor, End: p.buf.Cursor()}
	p.buf.LogError(rng, msg)
	p.Errors = append(p.Errors, errors.NewParseError(msg, errors.SourceLocation{File: p.file}))
}

func (p *Parser) fail(msg string) {
	panic(msg)
}

func (p *Parser) skipToNewline() {
	for !p.buf.AtEOF() {
		g, _ := p.buf.ConsumeOne()
		if grapheme.IsNewline(g) {
			return
		}
	}
}

func (p *Parser) skipSpace() {
	for {
		g, ok := p.buf.Peek()
		if !ok {
			return
		}
		if g == " " || g == "\t" {
			p.buf.ConsumeOne()
			continue
		}
		return
	}
}

func (p *Parser) skipBlank() {
	for {
		p.skipSpace()
		g, ok := p.buf.Peek()
		if !ok || !grapheme.IsNewline(g) {
			return
		}
		p.buf.ConsumeOne()
	}
}

func (p *Parser) peekIs(r rune) bool {
	g, ok := p.buf.Peek()
	return ok && g == string(r)
}

// ---- statements ----

func (p *Parser) parseStatement() Stmt {
	start := p.buf.Cursor()
	pos := Position{Offset: start}

	if ok, _ := p.buf.MatchTag("whenever"); ok {
		return p.parseReactive(pos, "whenever")
	}
	if ok, _ := p.buf.MatchTag("wait"); ok {
		return p.parseReactive(pos, "wait")
	}
	if ok, _ := p.buf.MatchTag("until"); ok {
		return p.parseReactive(pos, "until")
	}
	if ok, _ := p.buf.MatchTag("function"); ok {
		return p.parseFunctionDef(pos)
	}

	if stmt := p.tryTableOp(pos); stmt != nil {
		return stmt
	}

	save := p.buf.Cursor()
	if name, mutable, ok := p.tryBindingHead(); ok {
		kn := p.tryKindAnnotation()
		p.skipSpace()
		if eq, _ := p.buf.ConsumeTag("="); eq != "" {
			p.skipSpace()
			val := p.parseExpr()
			if kn != nil {
				val = &KindAnnotation{Position: pos, Inner: val, Kind: kn}
			}
			if mutable {
				return &DefineStmt{Position: pos, Name: name, Mutable: true, Value: val}
			}
			return &DefineStmt{Position: pos, Name: name, Value: val}
		}
	}
	p.buf.SetCursor(save)

	// index-assignment: name[axes] = expr
	save = p.buf.Cursor()
	if expr := p.tryParsePostfix(); expr != nil {
		if idx, ok := expr.(*IndexExpr); ok {
			p.skipSpace()
			if eq, _ := p.buf.ConsumeTag("="); eq != "" {
				p.skipSpace()
				val := p.parseExpr()
				return &IndexAssignStmt{Position: pos, Object: idx.Object, Axes: idx.Axes, Value: val}
			}
		}
	}
	p.buf.SetCursor(save)

	expr := p.parseExpr()
	return &ExprStmt{Position: pos, Value: expr}
}

func (p *Parser) parseReactive(pos Position, keyword string) Stmt {
	p.buf.ConsumeTag(keyword)
	p.skipSpace()
	cond := p.parseExpr()
	body := p.parseBraceBlock()
	switch keyword {
	case "whenever":
		return &WheneverStmt{Position: pos, Condition: cond, Body: body}
	case "wait":
		return &WaitStmt{Position: pos, Condition: cond, Body: body}
	default:
		return &UntilStmt{Position: pos, Condition: cond, Body: body}
	}
}

func (p *Parser) parseBraceBlock() []Stmt {
	p.skipSpace()
	if ok, _ := p.buf.ConsumeTag("{"); !ok {
		p.fail("expected '{' to open block")
	}
	var stmts []Stmt
	for {
		p.skipBlank()
		if ok, _ := p.buf.ConsumeTag("}"); ok {
			break
		}
		if p.buf.AtEOF() {
			p.fail("unterminated block")
		}
		stmt := p.labelRecover("block statement", p.parseStatement)
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *Parser) parseFunctionDef(pos Position) Stmt {
	p.buf.ConsumeTag("function")
	p.skipSpace()
	name := p.parseIdentifier()
	p.skipSpace()
	p.buf.ConsumeTag("(")
	var params, kinds []string
	for {
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag(")"); ok {
			break
		}
		pname := p.parseIdentifier()
		pkind := ""
		if k := p.tryKindAnnotation(); k != nil {
			pkind = k.String()
		}
		params = append(params, pname)
		kinds = append(kinds, pkind)
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag(","); ok {
			continue
		}
	}
	body := p.parseBraceBlock()
	var output Expr
	if n := len(body); n > 0 {
		if es, ok := body[n-1].(*ExprStmt); ok {
			output = es.Value
		}
	}
	return &FunctionDefStmt{Position: pos, Name: name, Params: params, ParamKinds: kinds, Body: body, Output: output}
}

// tryTableOp recognises the three table/matrix reshaping statement
// forms from spec.md §4.6: `name -< expr` (flatten), `name >- expr`
// (split), `name += expr` (table add-row). Like tryParsePostfix, it
// rewinds and returns nil on any mismatch rather than panicking, since
// a bare `name` is also a perfectly valid start of an expression
// statement or definition.
func (p *Parser) tryTableOp(pos Position) (stmt Stmt) {
	save := p.buf.Cursor()
	defer func() {
		if r := recover(); r != nil {
			p.buf.SetCursor(save)
			stmt = nil
		}
	}()
	if !p.identStart() {
		return nil
	}
	name := p.parseIdentifier()
	p.skipSpace()
	switch {
	case mustConsume(p, "-<"):
		p.skipSpace()
		return &FlattenStmt{Position: pos, Name: name, Source: p.parseExpr()}
	case mustConsume(p, ">-"):
		p.skipSpace()
		return &SplitStmt{Position: pos, Name: name, Source: p.parseExpr()}
	case mustConsume(p, "+="):
		p.skipSpace()
		return &AddRowStmt{Position: pos, Table: &Variable{Position: pos, Name: name}, Row: p.parseExpr()}
	}
	p.buf.SetCursor(save)
	return nil
}

func mustConsume(p *Parser, tag string) bool {
	ok, _ := p.buf.ConsumeTag(tag)
	return ok
}

// tryBindingHead recognises `~name` or `name` immediately followed by
// an explicit kind annotation or `=`, i.e. the shape of a definition
// rather than a plain expression statement.
func (p *Parser) tryBindingHead() (name string, mutable bool, ok bool) {
	if _, matched := p.buf.ConsumeTag("~"); matched {
		mutable = true
	}
	if !p.identStart() {
		return "", false, false
	}
	name = p.parseIdentifier()
	return name, mutable, true
}

func (p *Parser) identStart() bool {
	g, has := p.buf.Peek()
	if !has {
		return false
	}
	r := []rune(g)[0]
	return unicode.IsLetter(r) || r == '_'
}

func (p *Parser) parseIdentifier() string {
	var sb strings.Builder
	if !p.identStart() {
		p.fail("expected identifier")
	}
	g, _ := p.buf.ConsumeOne()
	sb.WriteString(g)
	for {
		g, ok := p.buf.Peek()
		if !ok {
			break
		}
		r := []rune(g)[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			p.buf.ConsumeOne()
			sb.WriteString(g)
			continue
		}
		break
	}
	return sb.String()
}

func (p *Parser) tryKindAnnotation() kind.Kind {
	save := p.buf.Cursor()
	p.skipSpace()
	if ok, _ := p.buf.ConsumeTag("<"); !ok {
		p.buf.SetCursor(save)
		return nil
	}
	name := p.parseIdentifier()
	p.buf.ConsumeTag(">")
	k, found := kind.LookupPrimitive(name)
	if !found {
		return kind.AtomKind{Name: name}
	}
	return k
}

// ---- expressions: L0 (atoms/postfix) through L6 (logical or/range) ----

func (p *Parser) parseExpr() Expr { return p.parseRange() }

func (p *Parser) parseRange() Expr {
	start := p.parseLogicalOr()
	save := p.buf.Cursor()
	p.skipSpace()
	inclusive := false
	matched := false
	if ok, _ := p.buf.ConsumeTag("..="); ok {
		inclusive, matched = true, true
	} else if ok2, _ := p.buf.ConsumeTag(":"); ok2 {
		matched = true
	}
	if !matched {
		p.buf.SetCursor(save)
		return start
	}
	p.skipSpace()
	mid := p.parseLogicalOr()
	save2 := p.buf.Cursor()
	p.skipSpace()
	if ok, _ := p.buf.ConsumeTag(":"); ok {
		p.skipSpace()
		stop := p.parseLogicalOr()
		return &RangeExpr{Position: start.Pos(), Start: start, Step: mid, Stop: stop, Inclusive: inclusive}
	}
	p.buf.SetCursor(save2)
	return &RangeExpr{Position: start.Pos(), Start: start, Stop: mid, Inclusive: inclusive}
}

func (p *Parser) parseLogicalOr() Expr {
	left := p.parseLogicalAnd()
	for {
		save := p.buf.Cursor()
		p.skipSpace()
		op, ok := p.matchOp("|", "xor")
		if !ok {
			p.buf.SetCursor(save)
			return left
		}
		p.skipSpace()
		right := p.parseLogicalAnd()
		left = &Binary{Position: left.Pos(), Operator: op, Left: left, Right: right}
	}
}

func (p *Parser) parseLogicalAnd() Expr {
	left := p.parseComparison()
	for {
		save := p.buf.Cursor()
		p.skipSpace()
		op, ok := p.matchOp("&")
		if !ok {
			p.buf.SetCursor(save)
			return left
		}
		p.skipSpace()
		right := p.parseComparison()
		left = &Binary{Position: left.Pos(), Operator: op, Left: left, Right: right}
	}
}

func (p *Parser) parseComparison() Expr {
	left := p.parseAdditive()
	save := p.buf.Cursor()
	p.skipSpace()
	op, ok := p.matchOp("==", "!=", "<=", ">=", "<", ">")
	if !ok {
		p.buf.SetCursor(save)
		return left
	}
	p.skipSpace()
	right := p.parseAdditive()
	return &Binary{Position: left.Pos(), Operator: op, Left: left, Right: right}
}

func (p *Parser) parseAdditive() Expr {
	left := p.parseMultiplicative()
	for {
		save := p.buf.Cursor()
		p.skipSpace()
		op, ok := p.matchOp("+", "-")
		if !ok {
			p.buf.SetCursor(save)
			return left
		}
		p.skipSpace()
		right := p.parseMultiplicative()
		left = &Binary{Position: left.Pos(), Operator: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() Expr {
	left := p.parseMatMul()
	for {
		save := p.buf.Cursor()
		p.skipSpace()
		op, ok := p.matchOp("*", "/")
		if !ok {
			p.buf.SetCursor(save)
			return left
		}
		p.skipSpace()
		right := p.parseMatMul()
		left = &Binary{Position: left.Pos(), Operator: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMatMul() Expr {
	left := p.parseUnary()
	for {
		save := p.buf.Cursor()
		p.skipSpace()
		op, ok := p.matchOp("**")
		if !ok {
			p.buf.SetCursor(save)
			return left
		}
		p.skipSpace()
		right := p.parseUnary()
		left = &Binary{Position: left.Pos(), Operator: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() Expr {
	pos := Position{Offset: p.buf.Cursor()}
	if op, ok := p.matchOp("-", "!"); ok {
		operand := p.parseUnary()
		return &Unary{Position: pos, Operator: op, Operand: operand}
	}
	return p.parsePostfix()
}

// matchOp tries each candidate tag in order; longer tags that share a
// prefix with a shorter one (e.g. "**" vs "*") must be listed first.
func (p *Parser) matchOp(tags ...string) (string, bool) {
	for _, t := range tags {
		if ok, _ := p.buf.ConsumeTag(t); ok {
			return t, true
		}
	}
	return "", false
}

func (p *Parser) parsePostfix() Expr {
	expr := p.parsePrimary()
	for {
		save := p.buf.Cursor()
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag("'"); ok {
			expr = &Unary{Position: expr.Pos(), Operator: "'", Operand: expr, Postfix: true}
			continue
		}
		if ok, _ := p.buf.ConsumeTag("["); ok {
			axes := p.parseIndexAxes()
			expr = &IndexExpr{Position: expr.Pos(), Object: expr, Axes: axes}
			continue
		}
		if ok, _ := p.buf.ConsumeTag("."); ok {
			field := p.parseDotField()
			expr = &DotIndex{Position: expr.Pos(), Object: expr, Field: field}
			continue
		}
		p.buf.SetCursor(save)
		return expr
	}
}

// tryParsePostfix is used from statement-head lookahead; unlike
// parsePostfix it never panics, returning nil on any failure so the
// caller can fall back to rewinding and parsing a full expression.
func (p *Parser) tryParsePostfix() (expr Expr) {
	defer func() { recover() }()
	if !p.identStart() {
		return nil
	}
	name := p.parseIdentifier()
	expr = &Variable{Name: name}
	for {
		save := p.buf.Cursor()
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag("["); ok {
			axes := p.parseIndexAxes()
			expr = &IndexExpr{Object: expr, Axes: axes}
			continue
		}
		p.buf.SetCursor(save)
		return expr
	}
}

func (p *Parser) parseDotField() string {
	if p.identStart() {
		return p.parseIdentifier()
	}
	if g, ok := p.buf.ConsumeDigit(); ok {
		var sb strings.Builder
		sb.WriteString(g)
		for {
			g2, ok2 := p.buf.ConsumeDigit()
			if !ok2 {
				break
			}
			sb.WriteString(g2)
		}
		return sb.String()
	}
	p.fail("expected field name or tuple index after '.'")
	return ""
}

func (p *Parser) parseIndexAxes() []IndexAxis {
	var axes []IndexAxis
	for {
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag(":"); ok {
			axes = append(axes, IndexAxis{All: true})
		} else {
			axes = append(axes, IndexAxis{Value: p.parseExpr()})
		}
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag(","); ok {
			continue
		}
		break
	}
	p.skipSpace()
	if ok, _ := p.buf.ConsumeTag("]"); !ok {
		p.fail("expected ']' to close index expression")
	}
	return axes
}

func (p *Parser) parsePrimary() Expr {
	pos := Position{Offset: p.buf.Cursor()}
	p.skipSpace()

	if ok, _ := p.buf.ConsumeTag("("); ok {
		return p.parseParenOrTuple(pos)
	}
	if ok, _ := p.buf.ConsumeTag("["); ok {
		return p.parseMatrixLit(pos)
	}
	if ok, _ := p.buf.ConsumeTag("|"); ok {
		return p.parseTableLit(pos)
	}
	if ok, _ := p.buf.ConsumeTag("{"); ok {
		return p.parseBraceLit(pos)
	}
	if ok, _ := p.buf.ConsumeTag("\""); ok {
		return p.parseStringLit(pos)
	}
	if ok, _ := p.buf.ConsumeTag("true"); ok {
		return &Literal{Position: pos, Raw: "true", Tag: TagBool}
	}
	if ok, _ := p.buf.ConsumeTag("false"); ok {
		return &Literal{Position: pos, Raw: "false", Tag: TagBool}
	}
	if g, ok := p.buf.Peek(); ok && unicode.IsDigit([]rune(g)[0]) {
		return p.parseNumberLit(pos)
	}
	if p.identStart() {
		name := p.parseIdentifier()
		save := p.buf.Cursor()
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag("("); ok {
			return p.parseCallArgs(pos, name)
		}
		p.buf.SetCursor(save)
		return &Variable{Position: pos, Name: name}
	}
	p.fail("expected an expression")
	return nil
}

func (p *Parser) parseCallArgs(pos Position, callee string) Expr {
	var args []Expr
	for {
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag(")"); ok {
			break
		}
		args = append(args, p.parseExpr())
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag(","); ok {
			continue
		}
	}
	return &CallExpr{Position: pos, Callee: callee, Args: args}
}

func (p *Parser) parseParenOrTuple(pos Position) Expr {
	var elems []Expr
	for {
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag(")"); ok {
			break
		}
		elems = append(elems, p.parseExpr())
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag(","); ok {
			continue
		}
	}
	if len(elems) == 1 {
		return elems[0]
	}
	return &TupleLit{Position: pos, Elements: elems}
}

func (p *Parser) parseMatrixLit(pos Position) Expr {
	var rows [][]Expr
	var row []Expr
	for {
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag("]"); ok {
			rows = append(rows, row)
			break
		}
		if ok, _ := p.buf.ConsumeTag(";"); ok {
			rows = append(rows, row)
			row = nil
			continue
		}
		if ok, _ := p.buf.ConsumeTag(","); ok {
			continue
		}
		row = append(row, p.parseExpr())
	}
	return &MatrixLit{Position: pos, Rows: rows}
}

func (p *Parser) parseTableLit(pos Position) Expr {
	var headers []string
	for {
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag("|"); ok {
			break
		}
		headers = append(headers, p.parseIdentifier())
		p.skipSpace()
	}
	var rows [][]Expr
	for {
		p.skipBlank()
		save := p.buf.Cursor()
		if ok, _ := p.buf.ConsumeTag("|"); !ok {
			break
		}
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag("|"); ok {
			break // closing `||` footer
		}
		p.buf.SetCursor(save)
		p.buf.ConsumeTag("|")
		var row []Expr
		for {
			p.skipSpace()
			if ok, _ := p.buf.ConsumeTag("|"); ok {
				break
			}
			row = append(row, p.parseExpr())
			p.skipSpace()
		}
		rows = append(rows, row)
	}
	return &TableLit{Position: pos, Headers: headers, Rows: rows}
}

// parseBraceLit disambiguates `{a, b}` (SetLit), `{k: v}` (RecordLit
// when keys are bare identifiers, MapLit otherwise).
func (p *Parser) parseBraceLit(pos Position) Expr {
	p.skipSpace()
	if ok, _ := p.buf.ConsumeTag("}"); ok {
		return &RecordLit{Position: pos}
	}
	save := p.buf.Cursor()
	if p.identStart() {
		name := p.parseIdentifier()
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag(":"); ok {
			p.skipSpace()
			return p.parseRecordBody(pos, name)
		}
		p.buf.SetCursor(save)
	}
	first := p.parseExpr()
	p.skipSpace()
	if ok, _ := p.buf.ConsumeTag(":"); ok {
		p.skipSpace()
		return p.parseMapBody(pos, first)
	}
	return p.parseSetBody(pos, first)
}

func (p *Parser) parseRecordBody(pos Position, firstField string) Expr {
	fields := []string{firstField}
	values := []Expr{p.parseExpr()}
	for {
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag("}"); ok {
			break
		}
		p.buf.ConsumeTag(",")
		p.skipSpace()
		name := p.parseIdentifier()
		p.skipSpace()
		p.buf.ConsumeTag(":")
		p.skipSpace()
		fields = append(fields, name)
		values = append(values, p.parseExpr())
	}
	return &RecordLit{Position: pos, Fields: fields, Values: values}
}

func (p *Parser) parseMapBody(pos Position, firstKey Expr) Expr {
	keys := []Expr{firstKey}
	values := []Expr{p.parseExpr()}
	for {
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag("}"); ok {
			break
		}
		p.buf.ConsumeTag(",")
		p.skipSpace()
		k := p.parseExpr()
		p.skipSpace()
		p.buf.ConsumeTag(":")
		p.skipSpace()
		keys = append(keys, k)
		values = append(values, p.parseExpr())
	}
	return &MapLit{Position: pos, Keys: keys, Values: values}
}

func (p *Parser) parseSetBody(pos Position, first Expr) Expr {
	elems := []Expr{first}
	for {
		p.skipSpace()
		if ok, _ := p.buf.ConsumeTag("}"); ok {
			break
		}
		p.buf.ConsumeTag(",")
		p.skipSpace()
		elems = append(elems, p.parseExpr())
	}
	return &SetLit{Position: pos, Elements: elems}
}

func (p *Parser) parseStringLit(pos Position) Expr {
	var sb strings.Builder
	for {
		g, ok := p.buf.ConsumeOne()
		if !ok {
			p.fail("unterminated string literal")
		}
		if g == "\"" {
			break
		}
		sb.WriteString(g)
	}
	return &Literal{Position: pos, Raw: sb.String(), Tag: TagString}
}

func (p *Parser) parseNumberLit(pos Position) Expr {
	var sb strings.Builder
	for {
		g, ok := p.buf.Peek()
		if !ok {
			break
		}
		r := []rune(g)[0]
		if unicode.IsDigit(r) || r == '.' || r == 'e' || r == 'E' || r == '_' {
			sb.WriteString(g)
			p.buf.ConsumeOne()
			continue
		}
		break
	}
	raw := sb.String()
	lit := &Literal{Position: pos, Raw: raw, Tag: TagNumber}
	if k := p.tryKindAnnotation(); k != nil {
		return &KindAnnotation{Position: pos, Inner: lit, Kind: k}
	}
	return lit
}
