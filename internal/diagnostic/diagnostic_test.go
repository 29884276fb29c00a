package diagnostic

import (
	"strings"
	"testing"

	"mech/internal/parser"
)

// TestMalformedStatementProducesOneDiagnostic: a single malformed
// statement followed by a valid one produces exactly one diagnostic,
// whose cause location lands on the offending statement's line.
func TestMalformedStatementProducesOneDiagnostic(t *testing.T) {
	p := parser.New("x = @@@\ny = 1\n", "test.mec")
	_, errs := p.Parse()
	if len(errs) == 0 {
		t.Fatal("expected at least one parse error for a malformed statement")
	}
	diags := FromLog(p.ErrorLog())
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic from the grapheme error log, got %d", len(diags))
	}
	out := RenderColor("x = @@@\ny = 1\n", diags, false)
	if !strings.Contains(out, "syntax error #1") {
		t.Errorf("expected a numbered heading, got:\n%s", out)
	}
	if !strings.Contains(out, "@location:1:") {
		t.Errorf("expected the cause to be located on line 1, got:\n%s", out)
	}
}

func TestOverflowTrailerAfterTenErrors(t *testing.T) {
	diags := make([]Diagnostic, 15)
	for i := range diags {
		diags[i] = Diagnostic{CauseStart: 0, CauseEnd: 1, Message: "bad"}
	}
	out := RenderColor("x\n", diags, false)
	if !strings.Contains(out, "5 more error(s)") {
		t.Errorf("expected an overflow trailer reporting 5 more errors, got:\n%s", out)
	}
}

func TestNoColorLeavesPlainText(t *testing.T) {
	diags := []Diagnostic{{CauseStart: 0, CauseEnd: 1, Message: "bad"}}
	out := RenderColor("x\n", diags, false)
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no ANSI escapes when color is false, got:\n%s", out)
	}
}
