// Package cli wires the folio commands: scaffolding, document creation,
// validation, index synchronization, and the agent-facing servers.
package cli

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/folio-md/folio/internal/docservice"
	"github.com/folio-md/folio/internal/project"
)

// NewApp builds the root command tree.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:  "folio",
		Usage: "Schema-validated Markdown documents (ADRs, tickets, epics, sprints) with machine-managed indexes and an agent read API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the project config file",
				Value:   project.DefaultConfigFile,
				Sources: cli.EnvVars("FOLIO_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			initCommand(),
			newCommand(),
			validateCommand(),
			indexCommand(),
			statusCommand(),
			deprecateCommand(),
			promptCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}
}

// openProject loads the project named by the --config flag.
func openProject(cmd *cli.Command) (*project.Project, error) {
	return project.Open(cmd.String("config"))
}

// newLogger returns a text logger on stderr for one-shot commands, leaving
// stdout free for command output.
func newLogger(p *project.Project) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: p.Config.LogLevel,
	}))
}

// newService opens the project and builds the document service for one-shot
// commands.
func newService(cmd *cli.Command) (*project.Project, *docservice.Service, error) {
	p, err := openProject(cmd)
	if err != nil {
		return nil, nil, err
	}
	return p, docservice.NewService(p, newLogger(p)), nil
}
