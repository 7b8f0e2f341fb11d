package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Regenerate the machine-managed index region for one type, or all types",
		ArgsUsage: "[type]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			proj, svc, err := newService(cmd)
			if err != nil {
				return err
			}

			if name := cmd.Args().Get(0); name != "" {
				t, err := proj.Type(name)
				if err != nil {
					return err
				}
				if err := svc.SyncIndex(ctx, t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.Writer, "Synchronized %s\n", t.IndexPath())
				return nil
			}

			if err := svc.SyncAllIndexes(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.Writer, "Synchronized all indexes")
			return nil
		},
	}
}
