package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/folio-md/folio/internal/validate"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate documents against their schema; exits non-zero when any document is invalid",
		ArgsUsage: "[type]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit the report as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			proj, svc, err := newService(cmd)
			if err != nil {
				return err
			}

			names := proj.TypeNames()
			if arg := cmd.Args().Get(0); arg != "" {
				names = []string{arg}
			}

			reports := make(map[string]*validate.Report, len(names))
			allValid := true
			for _, name := range names {
				t, err := proj.Type(name)
				if err != nil {
					return err
				}
				rep, err := svc.Validate(ctx, t)
				if err != nil {
					return err
				}
				reports[name] = rep
				if !rep.OK() {
					allValid = false
				}
			}

			if cmd.Bool("json") {
				enc := json.NewEncoder(cmd.Writer)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				for _, name := range names {
					printReport(cmd.Writer, name, reports[name])
				}
			}

			if !allValid {
				return cli.Exit("validation failed", 1)
			}
			return nil
		},
	}
}

func printReport(w io.Writer, typeName string, rep *validate.Report) {
	fmt.Fprintf(w, "%s: %d total, %d valid, %d invalid\n", typeName, rep.Total, rep.Valid, rep.Invalid)
	for _, dr := range rep.Documents {
		if dr.Valid {
			continue
		}
		fmt.Fprintf(w, "  %s\n", dr.File)
		for _, e := range dr.Errors {
			fmt.Fprintf(w, "    - %s\n", e.String())
		}
	}
}
