// internal/repl/repl.go
package repl

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"mech/internal/diagnostic"
	"mech/internal/interp"
	"mech/internal/parser"
)

// Start runs Mech's read-eval-print loop, grounded on the teacher's
// scanner-driven Start() loop shape but against internal/parser +
// internal/interp instead of the bytecode VM: each line is parsed and
// interpreted against one persistent Interpreter, so bindings made on
// one line are visible on the next (spec.md §8's seed scenarios are
// all single expressions evaluated this way).
func Start() {
	fmt.Println("Mech REPL | type 'exit' to quit")
	scanner := bufio.NewScanner(os.Stdin)
	prompt := ">>> "
	if isatty.IsTerminal(os.Stdout.Fd()) {
		prompt = "\x1b[1m>>> \x1b[0m"
	}

	it := interp.New(1, "<repl>")
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "exit" || line == "quit" {
			break
		}
		if line == "" {
			continue
		}
		evalLine(it, line)
	}
}

func evalLine(it *interp.Interpreter, line string) {
	p := parser.New(line, "<repl>")
	prog, errs := p.Parse()
	if len(errs) > 0 {
		fmt.Print(diagnostic.Render(line, diagnostic.FromLog(p.ErrorLog())))
		return
	}
	out, err := it.Interpret(prog)
	if err != nil {
		fmt.Println(err)
		return
	}
	if out != nil {
		fmt.Println(out.String())
	}
}
