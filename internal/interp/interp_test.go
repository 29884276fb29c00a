package interp

import (
	"testing"

	"github.com/kr/pretty"

	"mech/internal/parser"
	"mech/internal/value"
)

// run parses and interprets src with a fixed seed, failing the test on
// any parse or interpret error.
func run(t *testing.T, src string) value.Value {
	t.Helper()
	p := parser.New(src, "test.mec")
	prog, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %s", pretty.Sprint(errs))
	}
	out, err := New(1, "test.mec").Interpret(prog)
	if err != nil {
		t.Fatalf("unexpected interpret error: %s", pretty.Sprint(err))
	}
	return out
}

// TestArithmeticSeed is spec.md §8's canonical seed scenario: "2 + 2"
// evaluates to the float64 4.0.
func TestArithmeticSeed(t *testing.T) {
	out := run(t, "2 + 2\n")
	f, ok := out.(value.F64)
	if !ok {
		t.Fatalf("expected F64, got %T (%v)", out, out)
	}
	if float64(f) != 4.0 {
		t.Errorf("got %v, want 4.0", f)
	}
}

func TestDefineAndReference(t *testing.T) {
	out := run(t, "x = 3\ny = x + 1\ny\n")
	f, ok := out.(value.F64)
	if !ok {
		t.Fatalf("expected F64, got %T (%v)", out, out)
	}
	if float64(f) != 4.0 {
		t.Errorf("got %v, want 4.0", f)
	}
}

func TestMutableReferenceReassign(t *testing.T) {
	out := run(t, "~x = 1\nx = x + 1\nx = x + 1\nx\n")
	f, ok := out.(value.F64)
	if !ok {
		t.Fatalf("expected F64, got %T (%v)", out, out)
	}
	if float64(f) != 3.0 {
		t.Errorf("got %v, want 3.0 after two reassignments", f)
	}
}

func TestMatrixLiteralAndIndex(t *testing.T) {
	out := run(t, "m = [1 2 3; 4 5 6]\nm[2, 3]\n")
	f, ok := out.(value.F64)
	if !ok {
		t.Fatalf("expected F64, got %T (%v)", out, out)
	}
	if float64(f) != 6.0 {
		t.Errorf("got %v, want 6.0", f)
	}
}

func TestRangeMaterializesAsRowVector(t *testing.T) {
	out := run(t, "1:4\n")
	m, ok := out.(value.AnyMatrix)
	if !ok {
		t.Fatalf("expected AnyMatrix, got %T (%v)", out, out)
	}
	s := m.ShapeOf()
	if s.Rows != 1 || s.Cols != 3 {
		t.Errorf("got shape %v, want a 1x3 row vector", s)
	}
}

func TestFunctionCall(t *testing.T) {
	out := run(t, "function double(n) { n * 2 }\ndouble(5)\n")
	f, ok := out.(value.F64)
	if !ok {
		t.Fatalf("expected F64, got %T (%v)", out, out)
	}
	if float64(f) != 10.0 {
		t.Errorf("got %v, want 10.0", f)
	}
}

// TestErrorStopsStatementNotRun exercises spec.md §7: a failing
// statement stops that statement but bindings from earlier statements
// in the same run remain visible afterward.
func TestErrorStopsStatementNotRun(t *testing.T) {
	p := parser.New("x = 5\ny = x[99]\n", "test.mec")
	prog, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %s", pretty.Sprint(errs))
	}
	interp := New(1, "test.mec")
	_, err := interp.Interpret(prog)
	if err == nil {
		t.Fatal("expected an out-of-bounds index error")
	}
	if v, _, ok := interp.global.lookup("x"); !ok {
		t.Error("expected x to remain bound after the later statement failed")
	} else if f, ok := v.(value.F64); !ok || float64(f) != 5.0 {
		t.Errorf("expected x to still be 5.0, got %v", v)
	}
}
