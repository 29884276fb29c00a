package parser

import (
	"testing"

	"github.com/kr/pretty"
)

// parseOK parses input and fails the test if any parse error was logged.
func parseOK(t *testing.T, input, description string) *Program {
	t.Helper()
	p := New(input, "test.mec")
	prog, errs := p.Parse()
	if len(errs) > 0 {
		t.Errorf("%s: unexpected parse errors: %s", description, pretty.Sprint(errs))
	}
	return prog
}

func firstStmt(t *testing.T, prog *Program) Stmt {
	t.Helper()
	for _, section := range prog.Sections {
		if len(section) > 0 {
			return section[0]
		}
	}
	t.Fatal("program had no statements")
	return nil
}

func TestDefineStmt(t *testing.T) {
	prog := parseOK(t, "x = 2 + 2\n", "simple define")
	def, ok := firstStmt(t, prog).(*DefineStmt)
	if !ok {
		t.Fatalf("expected *DefineStmt, got %T", firstStmt(t, prog))
	}
	if def.Name != "x" {
		t.Errorf("got name %q, want x", def.Name)
	}
	bin, ok := def.Value.(*Binary)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected a '+' Binary value, got %#v", def.Value)
	}
}

func TestMutableDefine(t *testing.T) {
	prog := parseOK(t, "~counter = 0\n", "mutable define")
	def, ok := firstStmt(t, prog).(*DefineStmt)
	if !ok {
		t.Fatalf("expected *DefineStmt, got %T", firstStmt(t, prog))
	}
	if !def.Mutable {
		t.Errorf("expected Mutable=true for ~counter")
	}
}

func TestKindAnnotation(t *testing.T) {
	prog := parseOK(t, "x = 1<u8>\n", "kind-annotated literal")
	def := firstStmt(t, prog).(*DefineStmt)
	ann, ok := def.Value.(*KindAnnotation)
	if !ok {
		t.Fatalf("expected *KindAnnotation, got %#v", def.Value)
	}
	if ann.Kind.String() != "u8" {
		t.Errorf("got kind %q, want u8", ann.Kind.String())
	}
}

func TestMatrixLiteral(t *testing.T) {
	prog := parseOK(t, "m = [1 2 3]\n", "row vector literal")
	def := firstStmt(t, prog).(*DefineStmt)
	mat, ok := def.Value.(*MatrixLit)
	if !ok {
		t.Fatalf("expected *MatrixLit, got %#v", def.Value)
	}
	if len(mat.Rows) != 1 || len(mat.Rows[0]) != 3 {
		t.Errorf("got rows %v, want one row of 3 elements", mat.Rows)
	}
}

func TestMatrixLiteralMultiRow(t *testing.T) {
	prog := parseOK(t, "m = [1 2; 3 4]\n", "2x2 matrix literal")
	def := firstStmt(t, prog).(*DefineStmt)
	mat := def.Value.(*MatrixLit)
	if len(mat.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(mat.Rows))
	}
}

func TestIndexExpr(t *testing.T) {
	prog := parseOK(t, "y = m[1, 2]\n", "two-axis index")
	def := firstStmt(t, prog).(*DefineStmt)
	idx, ok := def.Value.(*IndexExpr)
	if !ok {
		t.Fatalf("expected *IndexExpr, got %#v", def.Value)
	}
	if len(idx.Axes) != 2 {
		t.Fatalf("got %d axes, want 2", len(idx.Axes))
	}
}

func TestIndexAssignStmt(t *testing.T) {
	prog := parseOK(t, "m[1] = 5\n", "linear index assignment")
	stmt, ok := firstStmt(t, prog).(*IndexAssignStmt)
	if !ok {
		t.Fatalf("expected *IndexAssignStmt, got %T", firstStmt(t, prog))
	}
	if len(stmt.Axes) != 1 || stmt.Axes[0].All {
		t.Errorf("expected a single scalar axis, got %#v", stmt.Axes)
	}
}

func TestRangeExpr(t *testing.T) {
	prog := parseOK(t, "r = 1:10\n", "exclusive range")
	def := firstStmt(t, prog).(*DefineStmt)
	rng, ok := def.Value.(*RangeExpr)
	if !ok {
		t.Fatalf("expected *RangeExpr, got %#v", def.Value)
	}
	if rng.Inclusive {
		t.Errorf("expected exclusive range for ':'")
	}
}

func TestTupleLiteral(t *testing.T) {
	prog := parseOK(t, "t = (1, 2, 3)\n", "tuple literal")
	def := firstStmt(t, prog).(*DefineStmt)
	if _, ok := def.Value.(*TupleLit); !ok {
		t.Fatalf("expected *TupleLit, got %#v", def.Value)
	}
}

func TestCallExpr(t *testing.T) {
	prog := parseOK(t, "y = sin(x)\n", "function call")
	def := firstStmt(t, prog).(*DefineStmt)
	call, ok := def.Value.(*CallExpr)
	if !ok {
		t.Fatalf("expected *CallExpr, got %#v", def.Value)
	}
	if call.Callee != "sin" || len(call.Args) != 1 {
		t.Errorf("got callee %q with %d args, want sin/1", call.Callee, len(call.Args))
	}
}

func TestDotIndexSwizzle(t *testing.T) {
	prog := parseOK(t, "z = p.x.y\n", "chained dot-index swizzle")
	def := firstStmt(t, prog).(*DefineStmt)
	outer, ok := def.Value.(*DotIndex)
	if !ok {
		t.Fatalf("expected *DotIndex, got %#v", def.Value)
	}
	if outer.Field != "y" {
		t.Errorf("got outer field %q, want y", outer.Field)
	}
	inner, ok := outer.Object.(*DotIndex)
	if !ok || inner.Field != "x" {
		t.Fatalf("expected inner *DotIndex for field x, got %#v", outer.Object)
	}
}

func TestTransposePostfix(t *testing.T) {
	prog := parseOK(t, "y = m'\n", "transpose postfix")
	def := firstStmt(t, prog).(*DefineStmt)
	u, ok := def.Value.(*Unary)
	if !ok || u.Operator != "'" || !u.Postfix {
		t.Fatalf("expected postfix transpose Unary, got %#v", def.Value)
	}
}

func TestWheneverBlock(t *testing.T) {
	prog := parseOK(t, "whenever x > 0 { y = x }\n", "whenever reactive block")
	stmt, ok := firstStmt(t, prog).(*WheneverStmt)
	if !ok {
		t.Fatalf("expected *WheneverStmt, got %T", firstStmt(t, prog))
	}
	if len(stmt.Body) != 1 {
		t.Errorf("got %d body statements, want 1", len(stmt.Body))
	}
}

func TestFunctionDef(t *testing.T) {
	prog := parseOK(t, "function double(x) { x * 2 }\n", "function declaration")
	fn, ok := firstStmt(t, prog).(*FunctionDefStmt)
	if !ok {
		t.Fatalf("expected *FunctionDefStmt, got %T", firstStmt(t, prog))
	}
	if fn.Name != "double" || len(fn.Params) != 1 || fn.Params[0] != "x" {
		t.Errorf("got fn %+v", fn)
	}
	if fn.Output == nil {
		t.Errorf("expected the trailing bare expression to become the function's output")
	}
}

func TestRecoversFromMalformedStatement(t *testing.T) {
	p := New("x = 2 +\ny = 3\n", "test.mec")
	prog, errs := p.Parse()
	if len(errs) == 0 {
		t.Fatalf("expected the malformed first statement to log a parse error")
	}
	found := false
	for _, section := range prog.Sections {
		for _, s := range section {
			if d, ok := s.(*DefineStmt); ok && d.Name == "y" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected parsing to recover and still produce the 'y = 3' statement")
	}
}
