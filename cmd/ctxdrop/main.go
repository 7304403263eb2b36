package main

import (
	"fmt"
	"os"

	"github.com/temirov/ctxdrop/internal/cli"
)

// main is the entry point for the ctxdrop command.
func main() {
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		fmt.Fprintln(os.Stderr, applicationExecutionError)
		os.Exit(1)
	}
}
