package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/folio-md/folio/internal/prompt"
)

func promptCommand() *cli.Command {
	return &cli.Command{
		Name:      "prompt",
		Usage:     "Print an agent context prompt for a document type",
		ArgsUsage: "<type>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			typeName := cmd.Args().Get(0)
			if typeName == "" {
				return fmt.Errorf("usage: folio prompt <type>")
			}

			proj, svc, err := newService(cmd)
			if err != nil {
				return err
			}
			t, err := proj.Type(typeName)
			if err != nil {
				return err
			}
			docs, err := svc.Load(ctx, t)
			if err != nil {
				return err
			}
			rep, err := svc.Validate(ctx, t)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.Writer, prompt.Build(t, docs, rep))
			return nil
		},
	}
}
