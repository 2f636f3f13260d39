package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/gitdeck/internal/domain/models"
	"github.com/bravo68web/gitdeck/internal/injectable"
	apperrors "github.com/bravo68web/gitdeck/pkg/errors"
)

func RepoCommands() *cli.Command {
	return &cli.Command{
		Name:  "repo",
		Usage: "Manage the repository catalog",
		Commands: []*cli.Command{
			Add(),
			List(),
			Link(),
		},
	}
}

func Add() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a local repository to the catalog",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "github",
				Aliases: []string{"g"},
				Usage:   "Link GitHub metadata, in owner/name form",
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

			var gh *models.GitHubRepository
			if slug := cmd.String("github"); slug != "" {
				owner, name, err := splitSlug(slug)
				if err != nil {
					return err
				}
				gh, err = deps.GitHub.GetRepository(ctx, owner, name)
				if err != nil {
					return err
				}
			}

			repo, err := deps.Catalog.AddRepository(ctx, path, gh)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.Writer, "Added %s (id %d)\n", repo.Path, repo.ID)
			if repo.HasGitHubRepository() {
				fmt.Fprintf(cmd.Writer, "Linked to %s\n", repo.GitHubRepository.FullName())
			}
			return nil
		}),
	}
}

func List() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List cataloged repositories",
		Action: withDependencies(func(ctx context.Context, cmd *cli.Command, deps *injectable.Dependencies) error {
			repos, err := deps.Catalog.ListRepositories(ctx)
			if err != nil {
				return err
			}

			if len(repos) == 0 {
				fmt.Fprintln(cmd.Writer, "No repositories added yet.")
				return nil
			}

			for _, repo := range repos {
				if repo.HasGitHubRepository() {
					fmt.Fprintf(cmd.Writer, "%4d  %s  (%s)\n", repo.ID, repo.Path, repo.GitHubRepository.FullName())
				} else {
					fmt.Fprintf(cmd.Writer, "%4d  %s\n", repo.ID, repo.Path)
				}
			}
			return nil
		}),
	}
}

func Link() *cli.Command {
	return &cli.Command{
		Name:      "link",
		Usage:     "Link or refresh GitHub metadata for a cataloged repository",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "github",
				Aliases:  []string{"g"},
				Usage:    "GitHub repository, in owner/name form",
				Required: true,
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

			repos, err := deps.Catalog.ListRepositories(ctx)
			if err != nil {
				return err
			}

			var target *models.LocalRepository
			for _, repo := range repos {
				if repo.Path == path {
					target = repo
					break
				}
			}
			if target == nil {
				return apperrors.NotFound("repository", apperrors.ErrNotFound)
			}

			owner, name, err := splitSlug(cmd.String("github"))
			if err != nil {
				return err
			}

			gh, err := deps.GitHub.GetRepository(ctx, owner, name)
			if err != nil {
				return err
			}

			target.GitHubRepository = gh
			if err := deps.Catalog.UpdateGitHubRepository(ctx, target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.Writer, "Linked %s to %s/%s\n", target.Path, owner, name)
			return nil
		}),
	}
}

// splitSlug parses "owner/name" into its parts
func splitSlug(slug string) (owner, name string, err error) {
	owner, name, found := strings.Cut(slug, "/")
	if !found || owner == "" || name == "" {
		return "", "", apperrors.BadRequest(
			fmt.Sprintf("invalid GitHub repository %q, expected owner/name", slug),
			apperrors.ErrInvalidInput,
		)
	}
	return owner, name, nil
}
