// Package commands implements cmd/mech's project-scaffolding and
// formatting subcommands, grounded on the teacher's internal/commands
// (InitCommand's MkdirAll+WriteFile shape) rewritten for Mech's own
// project template and `.mec` source files rather than Sentra's.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"mech/internal/formatter"
	"mech/internal/parser"
)

// InitCommand scaffolds a new Mech project directory containing one
// starter program, mirroring the teacher's InitCommand shape but
// writing Mech source instead of a Sentra "Hello from Sentra!" script.
func InitCommand(args []string) error {
	projectName := "mech-project"
	if len(args) > 0 {
		projectName = args[0]
	}
	if err := os.MkdirAll(projectName, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	mainFile := filepath.Join(projectName, "main.mec")
	content := "x = 2 + 2\nx\n"
	if err := os.WriteFile(mainFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create main.mec: %w", err)
	}
	fmt.Printf("Initialized new Mech project: %s\n", projectName)
	return nil
}

// FmtCommand parses the named file and prints its canonical formatting
// to stdout. Parse errors are reported and leave the file untouched.
func FmtCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: mech fmt <file.mec>")
	}
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	p := parser.New(string(src), path)
	prog, errs := p.Parse()
	if len(errs) > 0 {
		return fmt.Errorf("%s has %d syntax error(s); not formatting", path, len(errs))
	}
	fmt.Print(formatter.NewFormatter().Format(prog))
	return nil
}
