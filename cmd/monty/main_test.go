package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/monty/manifest"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// writeScript writes a script into dir and returns its path.
func writeScript(t *testing.T, dir, name, source string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(source), 0644); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
	return p
}

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut strings.Builder
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

// ---------------------------------------------------------------------------
// Argument handling
// ---------------------------------------------------------------------------

func TestUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"a.m", "b.m"}} {
		code, out, errOut := runCLI(args...)
		if code != 1 {
			t.Errorf("run(%v) = %d, want 1", args, code)
		}
		if out != "" {
			t.Errorf("run(%v) stdout = %q, want empty", args, out)
		}
		if errOut != "USAGE: monty file\n" {
			t.Errorf("run(%v) stderr = %q", args, errOut)
		}
	}
}

func TestCannotOpen(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.m")
	code, _, errOut := runCLI(missing)
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if want := "Error: Can't open file " + missing + "\n"; errOut != want {
		t.Errorf("stderr = %q, want %q", errOut, want)
	}

	dir := t.TempDir()
	code, _, errOut = runCLI(dir)
	if code != 1 || errOut != "Error: Can't open file "+dir+"\n" {
		t.Errorf("directory: exit %d, stderr %q", code, errOut)
	}
}

// ---------------------------------------------------------------------------
// Script execution
// ---------------------------------------------------------------------------

func TestRunScripts(t *testing.T) {
	tests := []struct {
		name   string
		script string
		code   int
		out    string
		errOut string
	}{
		{"stack order", "push 1\npush 2\npall\n", 0, "2\n1\n", ""},
		{"pint empty", "pint\n", 1, "", "L1: can't pint, stack empty\n"},
		{"mod", "push 10\npush 3\nmod\npint\n", 0, "1\n", ""},
		{"bad push", "push abc\n", 1, "", "L1: usage: push integer\n"},
		{"queue order", "queue\npush 1\npush 2\npall\n", 0, "1\n2\n", ""},
		{"division by zero", "push 1\npush 0\ndiv\n", 1, "", "L3: division by zero\n"},
		{"unknown", "push 1\npint\nfoo 3\n", 1, "1\n", "L3: unknown instruction foo\n"},
		{"hello", "push 10\npush 111\npush 108\npush 108\npush 101\npush 72\npstr\n", 0, "Hello\n\n", ""},
		{"hello stops at zero", "push 0\npush 10\npush 111\npush 108\npush 108\npush 101\npush 72\npstr\n", 0, "Hello\n\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScript(t, t.TempDir(), "script.m", tt.script)
			code, out, errOut := runCLI(path)
			if code != tt.code {
				t.Errorf("exit = %d, want %d", code, tt.code)
			}
			if out != tt.out {
				t.Errorf("stdout = %q, want %q", out, tt.out)
			}
			if errOut != tt.errOut {
				t.Errorf("stderr = %q, want %q", errOut, tt.errOut)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

func TestManifestMaxDepth(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "monty.toml", "[interpreter]\nmax-depth = 1\n")
	path := writeScript(t, dir, "script.m", "push 1\npint\npush 2\n")

	code, out, errOut := runCLI(path)
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if out != "1\n" {
		t.Errorf("stdout = %q, want %q", out, "1\n")
	}
	if errOut != "Error: malloc failed\n" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestManifestFoundInParent(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "monty.toml", "[interpreter]\nmax-depth = 1\n")
	sub := filepath.Join(root, "scripts")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	path := writeScript(t, sub, "script.m", "push 1\npush 2\n")

	if code, _, errOut := runCLI(path); code != 1 || errOut != "Error: malloc failed\n" {
		t.Errorf("exit %d, stderr %q; want manifest limit applied", code, errOut)
	}
}

func TestMalformedManifestWarns(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "monty.toml", "[interpreter\n")
	path := writeScript(t, dir, "script.m", "push 5\npint\n")

	code, out, errOut := runCLI(path)
	if code != 0 {
		t.Errorf("exit = %d, want 0", code)
	}
	if out != "5\n" {
		t.Errorf("stdout = %q", out)
	}
	if !strings.HasPrefix(errOut, "Warning: error loading monty.toml") {
		t.Errorf("stderr = %q, want a warning", errOut)
	}
}

func TestTraceKeepsStreamsClean(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "monty.toml", "[interpreter]\ntrace = true\n\n[log]\nverbosity = 2\nfile = \"trace.log\"\n")
	path := writeScript(t, dir, "script.m", "push 2\npint\n")
	defer configureLogging(manifest.Default())

	code, out, errOut := runCLI(path)
	if code != 0 || out != "2\n" || errOut != "" {
		t.Errorf("exit %d, stdout %q, stderr %q", code, out, errOut)
	}
}
