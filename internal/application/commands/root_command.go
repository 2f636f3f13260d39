package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/gitdeck/internal/config"
	"github.com/bravo68web/gitdeck/internal/injectable"
	"github.com/bravo68web/gitdeck/pkg/logger"
)

type CommandRegistry struct {
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{}
}

func (*CommandRegistry) RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:                  "gitdeck",
		Usage:                 "Catalog and history core for local Git repositories",
		Suggest:               true,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file",
			},
		},
		Action: RootCommand(),
		Commands: []*cli.Command{
			RepoCommands(),
			LogCommand(),
		},
	}
}

func RootCommand() cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cmd.Writer.Write([]byte("gitdeck - local repository catalog and commit history\n"))
		cmd.Writer.Write([]byte("Use 'gitdeck --help' to see available commands.\n"))
		return nil
	}
}

// withDependencies loads configuration, initializes logging, and wires the
// services before running the wrapped action
func withDependencies(action func(ctx context.Context, cmd *cli.Command, deps *injectable.Dependencies) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(cmd.String("config"))
		if err != nil {
			return err
		}

		if err := logger.Init(&logger.Config{
			Level:     cfg.Logging.Level,
			Output:    logger.OutputType(outputOrDefault(cfg.Logging.Output)),
			Format:    cfg.Logging.Format,
			FilePath:  cfg.Logging.OutputPath,
			AddCaller: true,
		}); err != nil {
			return err
		}
		defer logger.SyncGlobal()

		deps, closeDB, err := injectable.LoadDependencies(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		return action(ctx, cmd, deps)
	}
}

func outputOrDefault(output string) string {
	if output == "" {
		return string(logger.OutputConsole)
	}
	return output
}
