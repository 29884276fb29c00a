// Package compiler implements Mech's optional secondary bytecode
// backend (spec.md's "for comparison/experimentation only" alternate
// path): scalar literals, arithmetic, comparisons, and global variable
// binding compile to internal/bytecode opcodes; every other node
// (matrices, tables, indexing, calls, reactive statements) belongs to
// the primary tree-walking interpreter only and is rejected here.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"mech/internal/bytecode"
	"mech/internal/parser"
	"mech/internal/value"
)

// parseScalarNumber mirrors internal/interp's number-literal parsing
// (every numeric literal is an f64) for the secondary backend's own
// constant pool, without importing internal/interp.
func parseScalarNumber(raw string) value.Value {
	clean := strings.ReplaceAll(raw, "_", "")
	f, _ := strconv.ParseFloat(clean, 64)
	return value.F64(f)
}

// Compiler implements parser.ExprVisitor and parser.StmtVisitor over
// the scalar subset of the Mech AST, grounded on the teacher's
// single-pass expression-to-chunk Compiler shape.
type Compiler struct {
	chunk *bytecode.Chunk
}

func NewCompiler() *Compiler {
	return &Compiler{chunk: bytecode.NewChunk()}
}

// unsupported reports a node the secondary backend doesn't cover; the
// caller recovers this via CompileProgram's defer.
type unsupported struct{ node interface{} }

func (u unsupported) Error() string {
	return fmt.Sprintf("secondary backend: unsupported node %T (use the tree-walking interpreter)", u.node)
}

// CompileProgram compiles every statement of every section in program
// order into one flat chunk, returning an error if any statement uses
// a node outside the scalar subset.
func (c *Compiler) CompileProgram(prog *parser.Program) (chunk *bytecode.Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			if u, ok := r.(unsupported); ok {
				err = u
				return
			}
			panic(r)
		}
	}()
	var stmts []parser.Stmt
	for _, section := range prog.Sections {
		stmts = append(stmts, section...)
	}
	for i, stmt := range stmts {
		stmt.Accept(c)
		if i != len(stmts)-1 {
			c.chunk.WriteOp(bytecode.OpPop)
		}
	}
	c.chunk.WriteOp(bytecode.OpReturn)
	return c.chunk, nil
}

func (c *Compiler) constant(v value.Value) int {
	return c.chunk.AddConstant(v)
}

// --- ExprVisitor ---

func (c *Compiler) VisitLiteral(e *parser.Literal) interface{} {
	var v value.Value
	switch e.Tag {
	case parser.TagBool:
		v = value.Bool(e.Raw == "true")
	case parser.TagString:
		v = value.String(e.Raw)
	case parser.TagAtom, parser.TagEmpty:
		panic(unsupported{e})
	default:
		v = parseScalarNumber(e.Raw)
	}
	idx := c.constant(v)
	c.chunk.WriteOp(bytecode.OpConstant)
	c.chunk.WriteByte(byte(idx))
	return nil
}

func (c *Compiler) VisitVariable(e *parser.Variable) interface{} {
	idx := c.constant(value.String(e.Name))
	c.chunk.WriteOp(bytecode.OpGetGlobal)
	c.chunk.WriteByte(byte(idx))
	return nil
}

func (c *Compiler) VisitBinary(e *parser.Binary) interface{} {
	e.Left.Accept(c)
	e.Right.Accept(c)
	switch e.Operator {
	case "+":
		c.chunk.WriteOp(bytecode.OpAdd)
	case "-":
		c.chunk.WriteOp(bytecode.OpSub)
	case "*":
		c.chunk.WriteOp(bytecode.OpMul)
	case "/":
		c.chunk.WriteOp(bytecode.OpDiv)
	case "==":
		c.chunk.WriteOp(bytecode.OpEqual)
	case "!=":
		c.chunk.WriteOp(bytecode.OpNotEqual)
	case ">":
		c.chunk.WriteOp(bytecode.OpGreater)
	case "<":
		c.chunk.WriteOp(bytecode.OpLess)
	case ">=":
		c.chunk.WriteOp(bytecode.OpGreaterEqual)
	case "<=":
		c.chunk.WriteOp(bytecode.OpLessEqual)
	default:
		panic(unsupported{e})
	}
	return nil
}

func (c *Compiler) VisitUnary(e *parser.Unary) interface{} {
	if e.Operator != "-" || e.Postfix {
		panic(unsupported{e})
	}
	e.Operand.Accept(c)
	c.chunk.WriteOp(bytecode.OpNegate)
	return nil
}

func (c *Compiler) VisitMatrixLit(e *parser.MatrixLit) interface{}         { panic(unsupported{e}) }
func (c *Compiler) VisitTableLit(e *parser.TableLit) interface{}          { panic(unsupported{e}) }
func (c *Compiler) VisitTupleLit(e *parser.TupleLit) interface{}          { panic(unsupported{e}) }
func (c *Compiler) VisitRecordLit(e *parser.RecordLit) interface{}        { panic(unsupported{e}) }
func (c *Compiler) VisitSetLit(e *parser.SetLit) interface{}              { panic(unsupported{e}) }
func (c *Compiler) VisitMapLit(e *parser.MapLit) interface{}              { panic(unsupported{e}) }
func (c *Compiler) VisitRangeExpr(e *parser.RangeExpr) interface{}        { panic(unsupported{e}) }
func (c *Compiler) VisitIndexExpr(e *parser.IndexExpr) interface{}        { panic(unsupported{e}) }
func (c *Compiler) VisitDotIndex(e *parser.DotIndex) interface{}          { panic(unsupported{e}) }
func (c *Compiler) VisitCallExpr(e *parser.CallExpr) interface{}          { panic(unsupported{e}) }
func (c *Compiler) VisitKindAnnotation(e *parser.KindAnnotation) interface{} {
	panic(unsupported{e})
}

// --- StmtVisitor ---

// VisitDefineStmt compiles `name = expr` to a define-then-reload
// sequence so OpDefineGlobal (which consumes the stack value) still
// leaves a value behind for the pop/keep accounting in CompileProgram.
func (c *Compiler) VisitDefineStmt(s *parser.DefineStmt) interface{} {
	s.Value.Accept(c)
	idx := c.constant(value.String(s.Name))
	c.chunk.WriteOp(bytecode.OpDefineGlobal)
	c.chunk.WriteByte(byte(idx))
	c.chunk.WriteOp(bytecode.OpGetGlobal)
	c.chunk.WriteByte(byte(idx))
	return nil
}

func (c *Compiler) VisitAssignStmt(s *parser.AssignStmt) interface{} {
	s.Value.Accept(c)
	idx := c.constant(value.String(s.Name))
	c.chunk.WriteOp(bytecode.OpSetGlobal)
	c.chunk.WriteByte(byte(idx))
	c.chunk.WriteOp(bytecode.OpGetGlobal)
	c.chunk.WriteByte(byte(idx))
	return nil
}

func (c *Compiler) VisitExprStmt(s *parser.ExprStmt) interface{} {
	s.Value.Accept(c)
	return nil
}

func (c *Compiler) VisitIndexAssignStmt(s *parser.IndexAssignStmt) interface{} {
	panic(unsupported{s})
}
func (c *Compiler) VisitAddRowStmt(s *parser.AddRowStmt) interface{} { panic(unsupported{s}) }
func (c *Compiler) VisitSplitStmt(s *parser.SplitStmt) interface{}   { panic(unsupported{s}) }
func (c *Compiler) VisitFlattenStmt(s *parser.FlattenStmt) interface{} {
	panic(unsupported{s})
}
func (c *Compiler) VisitWheneverStmt(s *parser.WheneverStmt) interface{} { panic(unsupported{s}) }
func (c *Compiler) VisitWaitStmt(s *parser.WaitStmt) interface{}         { panic(unsupported{s}) }
func (c *Compiler) VisitUntilStmt(s *parser.UntilStmt) interface{}       { panic(unsupported{s}) }
func (c *Compiler) VisitBlockStmt(s *parser.BlockStmt) interface{}       { panic(unsupported{s}) }
func (c *Compiler) VisitFunctionDefStmt(s *parser.FunctionDefStmt) interface{} {
	panic(unsupported{s})
}
