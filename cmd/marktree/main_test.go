package main

import (
	"testing"

	"github.com/alecthomas/kong"
)

func TestCLIParsing(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
	}{
		{"parse", []string{"parse", "note.md", "-f", "json"}, "parse <file>"},
		{"fmt write", []string{"fmt", "-w", "note.md"}, "fmt <file>"},
		{"diff plain", []string{"diff", "--plain", "note.md"}, "diff <file>"},
		{"config show", []string{"--config", "/tmp/c.yaml", "config", "show"}, "config show"},
		{"config init", []string{"config", "init", "--force"}, "config init"},
		{"export", []string{"export", "note.md"}, "export <file>"},
		{"check", []string{"check", "--force", "."}, "check <dir>"},
		{"status", []string{"status"}, "status"},
		{"version", []string{"version"}, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := kong.New(&CLI, kong.Name("marktree"))
			if err != nil {
				t.Fatalf("Failed to build CLI: %v", err)
			}
			ctx, err := parser.Parse(tt.args)
			if err != nil {
				t.Fatalf("Parse(%v) failed: %v", tt.args, err)
			}
			if ctx.Command() != tt.command {
				t.Errorf("Command() = %q, want %q", ctx.Command(), tt.command)
			}
		})
	}
}

func TestCLIFlags(t *testing.T) {
	parser, err := kong.New(&CLI, kong.Name("marktree"))
	if err != nil {
		t.Fatalf("Failed to build CLI: %v", err)
	}
	if _, err := parser.Parse([]string{"-v", "parse", "a.md", "--format", "pp"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !CLI.Verbose {
		t.Error("Expected verbose flag to be set")
	}
	if CLI.Parse.File != "a.md" || CLI.Parse.Format != "pp" {
		t.Errorf("Unexpected parse args: %+v", CLI.Parse)
	}
}

func TestCLIRejectsUnknownCommand(t *testing.T) {
	parser, err := kong.New(&CLI, kong.Name("marktree"))
	if err != nil {
		t.Fatalf("Failed to build CLI: %v", err)
	}
	if _, err := parser.Parse([]string{"convert", "a.md"}); err == nil {
		t.Error("Expected error for unknown command")
	}
}
