package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/glpikit/cli/internal/app"
	"github.com/glpikit/cli/internal/cmd"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}

	var exit app.ExitResult
	if errors.As(err, &exit) {
		if exit.Message != "" {
			out := os.Stdout
			if exit.UseStderr() {
				out = os.Stderr
			}
			fmt.Fprintln(out, exit.Message)
		}
		os.Exit(exit.ExitCode())
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
