// monty-lsp - language server for Monty scripts over stdio
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/monty/server"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity (0 = off)")
	logFile := flag.String("log", "", "Log file (default stderr; stdout carries the protocol)")
	flag.Parse()

	switch {
	case *verbosity <= 0:
		commonlog.Configure(-5, nil)
	case *logFile != "":
		commonlog.Configure(*verbosity, logFile)
	default:
		commonlog.Configure(*verbosity, nil)
	}

	if err := server.NewLSP().Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
