package main

import (
	"strings"
	"testing"
)

func TestCompletion_Bash(t *testing.T) {
	if !strings.Contains(bashCompletion, "_promptlab_completions") {
		t.Fatal("bash completion missing _promptlab_completions function")
	}
	for _, cmd := range []string{"serve", "mcp", "generate", "models", "tui"} {
		if !strings.Contains(bashCompletion, cmd) {
			t.Fatalf("bash completion missing %q command", cmd)
		}
	}
}

func TestCompletion_Zsh(t *testing.T) {
	if !strings.Contains(zshCompletion, "#compdef promptlab") {
		t.Fatal("zsh completion missing compdef header")
	}
}

func TestCompletion_Fish(t *testing.T) {
	if !strings.Contains(fishCompletion, "complete -c promptlab") {
		t.Fatal("fish completion missing complete directives")
	}
}

func TestRunCompletion_NoArgs(t *testing.T) {
	if code := runCompletion(nil); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestRunCompletion_UnsupportedShell(t *testing.T) {
	if code := runCompletion([]string{"tcsh"}); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestRunCompletion_Supported(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		if code := runCompletion([]string{shell}); code != 0 {
			t.Fatalf("%s: expected exit code 0, got %d", shell, code)
		}
	}
}
