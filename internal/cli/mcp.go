package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/folio-md/folio/internal/api"
	"github.com/folio-md/folio/internal/mcpserver"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve folio tools to agents over MCP stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			proj, err := openProject(cmd)
			if err != nil {
				return err
			}

			// stdout belongs to the MCP transport; log to stderr only.
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: proj.Config.LogLevel,
			}))

			svc := api.NewService(proj, logger)
			if err := svc.Reload(ctx); err != nil {
				return fmt.Errorf("initial load: %w", err)
			}

			return mcpserver.New(svc).ServeStdio()
		},
	}
}
