package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/gitdeck/internal/application/service"
	"github.com/bravo68web/gitdeck/internal/injectable"
	apperrors "github.com/bravo68web/gitdeck/pkg/errors"
)

func LogCommand() *cli.Command {
	return &cli.Command{
		Name:      "log",
		Usage:     "Show commit history for a repository",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Show only commits not pushed to the upstream",
			},
			&cli.StringFlag{
				Name:    "branch",
				Aliases: []string{"b"},
				Usage:   "Branch for --local (defaults to the current branch)",
			},
			&cli.IntFlag{
				Name:  "batches",
				Usage: "Number of history batches to load",
				Value: 1,
			},
		},
		Action: withDependencies(func(ctx context.Context, cmd *cli.Command, deps *injectable.Dependencies) error {
			path := cmd.Args().First()
			if path == "" {
				return apperrors.BadRequest("repository path is required", apperrors.ErrInvalidInput)
			}
			path, err := filepath.Abs(path)
			if err != nil {
				return err
			}

			history := deps.HistoryFactory(path)

			var loadErr error
			unsubscribe := history.OnDidError(func(err error) {
				loadErr = err
			})
			defer unsubscribe()

			if cmd.Bool("local") {
				branch, ok := history.CurrentBranch(ctx)
				if !ok {
					return loadErr
				}
				if name := cmd.String("branch"); name != "" {
					branches, ok := history.Branches(ctx)
					if !ok {
						return loadErr
					}
					branch = nil
					for _, b := range branches {
						if b.Name == name {
							branch = b
							break
						}
					}
					if branch == nil {
						return apperrors.NotFound(fmt.Sprintf("branch %q", name), apperrors.ErrBranchNotFound)
					}
				}

				history.LoadLocalCommits(ctx, branch)
				if loadErr != nil {
					return loadErr
				}
				return printCommits(cmd, history.LocalCommitSHAs(), history)
			}

			history.LoadHistory(ctx)
			if loadErr != nil {
				return loadErr
			}
			for i := 1; i < cmd.Int("batches"); i++ {
				history.LoadNextHistoryBatch(ctx)
				if loadErr != nil {
					return loadErr
				}
			}

			return printCommits(cmd, history.History(), history)
		}),
	}
}

// printCommits renders one line per SHA in sequence order
func printCommits(cmd *cli.Command, shas []string, history *service.HistoryService) error {
	if len(shas) == 0 {
		fmt.Fprintln(cmd.Writer, "No commits.")
		return nil
	}

	for _, sha := range shas {
		commit, ok := history.CommitBySHA(sha)
		if !ok {
			continue
		}
		fmt.Fprintf(cmd.Writer, "%s  %s  %s <%s>  %s\n",
			commit.ShortSHA(),
			commit.Author.Date.Format("2006-01-02"),
			commit.Author.Name,
			commit.Author.Email,
			commit.Summary,
		)
	}
	return nil
}
