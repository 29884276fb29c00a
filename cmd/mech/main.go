// cmd/mech/main.go
package main

import (
	"fmt"
	"os"

	"mech/internal/commands"
	"mech/internal/compiler"
	"mech/internal/diagnostic"
	"mech/internal/interp"
	"mech/internal/parser"
	"mech/internal/repl"
	"mech/internal/vm"
)

const version = "0.1.0"

// commandAliases mirrors the teacher's cmd/sentra short-form aliases,
// trimmed to Mech's much smaller command surface (spec.md §1: the CLI
// itself is "thin glue", an external collaborator around the core).
var commandAliases = map[string]string{
	"r": "run",
	"i": "repl",
	"f": "fmt",
	"p": "parse",
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is main's body factored out so cmd/mech's own tests can drive it
// in-process via testscript.RunMain instead of spawning a subprocess.
func run(args []string) int {
	if len(args) == 0 {
		showUsage()
		return 0
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		if len(args) > 1 {
			showCommandHelp(args[1])
		} else {
			showUsage()
		}
		return 0
	}
	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		fmt.Printf("mech %s\n", version)
		return 0
	}

	switch cmd {
	case "init":
		if err := commands.InitCommand(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	case "repl":
		repl.Start()
	case "run":
		if !requireFile(args, "run") {
			return 1
		}
		if len(args) > 2 && (args[2] == "--vm" || args[2] == "--bytecode") {
			return runFileBytecode(args[1])
		}
		return runFile(args[1])
	case "parse":
		if !requireFile(args, "parse") {
			return 1
		}
		return parseFile(args[1])
	case "fmt":
		if !requireFile(args, "fmt") {
			return 1
		}
		if err := commands.FmtCommand(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		showUsage()
		return 1
	}
	return 0
}

func requireFile(args []string, cmd string) bool {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: mech %s <file.mec>\n", cmd)
		return false
	}
	return true
}

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	p := parser.New(string(src), path)
	prog, errs := p.Parse()
	if len(errs) > 0 {
		fmt.Print(diagnostic.Render(string(src), diagnostic.FromLog(p.ErrorLog())))
		return 1
	}
	out, err := interp.New(1, path).Interpret(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if out != nil {
		fmt.Println(out.String())
	}
	return 0
}

// runFileBytecode runs a program through the secondary bytecode
// backend (internal/compiler + internal/vm) instead of the primary
// tree-walking interpreter; only the scalar literal/arithmetic/
// variable subset is supported (`mech run <file> --vm`).
func runFileBytecode(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	p := parser.New(string(src), path)
	prog, errs := p.Parse()
	if len(errs) > 0 {
		fmt.Print(diagnostic.Render(string(src), diagnostic.FromLog(p.ErrorLog())))
		return 1
	}
	chunk, err := compiler.NewCompiler().CompileProgram(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	out, err := vm.New(chunk).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if out != nil {
		fmt.Println(out.String())
	}
	return 0
}

func parseFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	p := parser.New(string(src), path)
	_, errs := p.Parse()
	if len(errs) > 0 {
		fmt.Print(diagnostic.Render(string(src), diagnostic.FromLog(p.ErrorLog())))
		return 1
	}
	fmt.Println("parsed OK")
	return 0
}

func showUsage() {
	fmt.Println("Mech - a reactive array/table language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mech run <file.mec>     Run a Mech program               (alias: r)")
	fmt.Println("                          --vm runs the scalar-only secondary bytecode backend")
	fmt.Println("  mech parse <file.mec>   Parse a program, report errors   (alias: p)")
	fmt.Println("  mech fmt <file.mec>     Format a program                 (alias: f)")
	fmt.Println("  mech repl               Start the interactive REPL       (alias: i)")
	fmt.Println("  mech init [name]        Initialize a new Mech project")
	fmt.Println()
	fmt.Println("  mech help [command]     Show help, optionally for one command")
	fmt.Println("  mech version            Show the version")
}

func showCommandHelp(command string) {
	if alias, ok := commandAliases[command]; ok {
		command = alias
	}
	help := map[string]string{
		"run":   "mech run <file.mec> - parse and interpret a program, printing its final value.",
		"parse": "mech parse <file.mec> - parse a program and report syntax diagnostics without running it.",
		"fmt":   "mech fmt <file.mec> - pretty-print a program back to canonical source.",
		"repl":  "mech repl - start an interactive read-eval-print loop.",
		"init":  "mech init [name] - scaffold a new Mech project directory.",
	}
	if text, ok := help[command]; ok {
		fmt.Println(text)
		return
	}
	fmt.Printf("No help available for %q\n", command)
	showUsage()
}
