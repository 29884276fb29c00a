package vm

import (
	"testing"

	"mech/internal/compiler"
	"mech/internal/parser"
	"mech/internal/value"
)

func runSrc(t *testing.T, src string) value.Value {
	t.Helper()
	p := parser.New(src, "test.mec")
	prog, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	chunk, err := compiler.NewCompiler().CompileProgram(prog)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	out, err := New(chunk).Run()
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	return out
}

func TestArithmeticSeed(t *testing.T) {
	got := runSrc(t, "2 + 2\n")
	want := value.F64(4.0)
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDefineAndReference(t *testing.T) {
	got := runSrc(t, "x = 3\ny = x + 1\ny\n")
	want := value.F64(4.0)
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReassignExistingGlobal(t *testing.T) {
	got := runSrc(t, "x = 1\nx = x + 1\nx\n")
	want := value.F64(2.0)
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
