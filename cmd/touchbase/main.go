// Command touchbase plays touchbase games against a local SQLite database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/touchbase/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
