package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Set the status field of an existing document and re-sync its index",
		ArgsUsage: "<type> <file> <status>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			typeName := cmd.Args().Get(0)
			file := cmd.Args().Get(1)
			status := cmd.Args().Get(2)
			if typeName == "" || file == "" || status == "" {
				return fmt.Errorf("usage: folio status <type> <file> <status>")
			}

			_, svc, err := newService(cmd)
			if err != nil {
				return err
			}
			if err := svc.SetStatus(ctx, typeName, file, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "Set %s status to %s\n", file, status)
			return nil
		},
	}
}

func deprecateCommand() *cli.Command {
	return &cli.Command{
		Name:      "deprecate",
		Usage:     "Mark a document deprecated and re-sync its index",
		ArgsUsage: "<type> <file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			typeName := cmd.Args().Get(0)
			file := cmd.Args().Get(1)
			if typeName == "" || file == "" {
				return fmt.Errorf("usage: folio deprecate <type> <file>")
			}

			_, svc, err := newService(cmd)
			if err != nil {
				return err
			}
			if err := svc.Deprecate(ctx, typeName, file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "Deprecated %s\n", file)
			return nil
		},
	}
}
