package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a new document of a type from its template",
		ArgsUsage: "<type> <title>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "field",
				Aliases: []string{"f"},
				Usage:   "Set a front matter field, key=value (repeatable)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			typeName := cmd.Args().Get(0)
			title := cmd.Args().Get(1)
			if typeName == "" || title == "" {
				return fmt.Errorf("usage: folio new <type> <title>")
			}

			fields := make(map[string]string)
			for _, kv := range cmd.StringSlice("field") {
				key, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --field %q, expected key=value", kv)
				}
				fields[key] = value
			}

			_, svc, err := newService(cmd)
			if err != nil {
				return err
			}
			path, err := svc.Create(ctx, typeName, title, fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "Created %s\n", path)
			return nil
		},
	}
}
