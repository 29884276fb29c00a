package formatter

import (
	"strings"
	"testing"

	"mech/internal/parser"
)

func mustParse(t *testing.T, src string) *parser.Program {
	t.Helper()
	p := parser.New(src, "test.mec")
	prog, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return prog
}

func TestFormatDefineStmt(t *testing.T) {
	prog := mustParse(t, "x = 2 + 2\n")
	out := NewFormatter().Format(prog)
	if !strings.Contains(out, "x = 2 + 2") {
		t.Errorf("got %q, want it to contain %q", out, "x = 2 + 2")
	}
}

func TestFormatFunctionDef(t *testing.T) {
	prog := mustParse(t, "function double(n) { n * 2 }\n")
	out := NewFormatter().Format(prog)
	if !strings.Contains(out, "function double(n) {") {
		t.Errorf("got %q, want a function header", out)
	}
	if !strings.Contains(out, "n * 2") {
		t.Errorf("got %q, want the body to round-trip", out)
	}
}

func TestFormatMatrixLit(t *testing.T) {
	prog := mustParse(t, "m = [1 2 3; 4 5 6]\n")
	out := NewFormatter().Format(prog)
	if !strings.Contains(out, "[1 2 3; 4 5 6]") {
		t.Errorf("got %q, want the matrix literal to round-trip", out)
	}
}
