// Command apiquery builds, renders and tests JSON:API-style query strings.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/apiquery/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Commands that already reported their failure return an ExitError.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
