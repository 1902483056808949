// Monty CLI - runs a Monty bytecode script
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/chazu/monty/manifest"
	"github.com/chazu/monty/pkg/bytecode"

	_ "github.com/tliron/commonlog/simple"
)

// quietVerbosity maps to commonlog's None level.
const quietVerbosity = -5

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "USAGE: monty file")
		return 1
	}
	path := args[0]

	f, err := openScript(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: Can't open file %s\n", path)
		return 1
	}
	defer f.Close()

	m, err := manifest.FindAndLoad(filepath.Dir(path))
	if err != nil {
		fmt.Fprintf(stderr, "Warning: error loading %s: %v\n", manifest.FileName, err)
		m = manifest.Default()
	}
	configureLogging(m)

	vmInst := bytecode.NewVM(stdout)
	vmInst.Trace = m.Interpreter.Trace
	vmInst.MaxDepth = m.Interpreter.MaxDepth

	if err := vmInst.RunReader(f); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// openScript opens path for reading, rejecting directories.
func openScript(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return f, nil
}

// configureLogging points commonlog at the configured destination. With
// verbosity 0 logging is off, so stderr carries only script diagnostics.
func configureLogging(m *manifest.Manifest) {
	if m.Log.Verbosity == 0 {
		commonlog.Configure(quietVerbosity, nil)
		return
	}
	commonlog.Configure(m.Log.Verbosity, m.LogPath())
}
