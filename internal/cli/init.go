package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/folio-md/folio/internal/scaffold"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Scaffold a new folio project in the given directory (default: current)",
		ArgsUsage: "[dir]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			dir := cmd.Args().Get(0)
			if dir == "" {
				dir = "."
			}
			if err := scaffold.Init(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "Initialized folio project in %s\n", dir)
			fmt.Fprintln(cmd.Writer, "Next: folio new adr \"My first decision\"")
			return nil
		},
	}
}
