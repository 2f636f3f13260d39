package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/bravo68web/gitdeck/internal/domain/models"
	"github.com/bravo68web/gitdeck/internal/domain/service"
)

// Field and record separators for the log pretty format. NUL separates
// fields so commit messages can contain anything printable; \x1e separates
// records.
const (
	logFieldSep  = "\x00"
	logRecordSep = "\x1e"
)

var logPrettyFormat = strings.Join([]string{"%H", "%an", "%ae", "%aI", "%P", "%B"}, "%x00") + "%x1e"

// GitOperations implements the GitService interface using the git binary
// for log traversal and go-git for ref inspection and mutation
type GitOperations struct {
	binary string
}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations(binary string) *GitOperations {
	if binary == "" {
		binary = "git"
	}
	return &GitOperations{binary: binary}
}

// Commits returns up to limit commits reachable from the given revisions,
// newest first, by invoking git log with a machine-readable format
func (g *GitOperations) Commits(ctx context.Context, repoPath string, limit int, revisions ...string) ([]*models.Commit, error) {
	args := []string{
		"log",
		"--max-count=" + strconv.Itoa(limit),
		"--pretty=format:" + logPrettyFormat,
	}
	args = append(args, revisions...)
	args = append(args, "--")

	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = repoPath

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("git log failed: %s: %w", strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return nil, fmt.Errorf("git log failed: %w", err)
	}

	return parseLogOutput(string(out))
}

// parseLogOutput splits raw git log output into commit records
func parseLogOutput(out string) ([]*models.Commit, error) {
	commits := []*models.Commit{}

	for _, record := range strings.Split(out, logRecordSep) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}

		fields := strings.Split(record, logFieldSep)
		if len(fields) != 6 {
			return nil, fmt.Errorf("malformed log record: expected 6 fields, got %d", len(fields))
		}

		date, err := time.Parse(time.RFC3339, fields[3])
		if err != nil {
			return nil, fmt.Errorf("malformed author date %q: %w", fields[3], err)
		}

		var parents []string
		if fields[4] != "" {
			parents = strings.Fields(fields[4])
		}

		commits = append(commits, models.NewCommit(
			fields[0],
			fields[5],
			models.CommitIdentity{Name: fields[1], Email: fields[2], Date: date},
			parents,
		))
	}

	return commits, nil
}

// Branches returns all local and remote-tracking branches
func (g *GitOperations) Branches(ctx context.Context, repoPath string) ([]*models.Branch, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	head, _ := repo.Head()
	headName := ""
	if head != nil && head.Name().IsBranch() {
		headName = head.Name().Short()
	}

	cfg, err := repo.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to read repository config: %w", err)
	}

	branches := []*models.Branch{}

	refIter, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	err = refIter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		branches = append(branches, &models.Branch{
			Name:     name,
			Upstream: upstreamFor(cfg.Branches, name),
			Tip:      ref.Hash().String(),
			Type:     models.BranchTypeLocal,
			IsHead:   name == headName,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsRemote() || ref.Type() != plumbing.HashReference {
			return nil
		}
		branches = append(branches, &models.Branch{
			Name: ref.Name().Short(),
			Tip:  ref.Hash().String(),
			Type: models.BranchTypeRemote,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	return branches, nil
}

// CurrentBranch returns the branch HEAD resolves to, or nil when HEAD is
// detached or the repository has no commits yet
func (g *GitOperations) CurrentBranch(ctx context.Context, repoPath string) (*models.Branch, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return nil, nil
	}

	cfg, err := repo.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to read repository config: %w", err)
	}

	name := head.Name().Short()
	return &models.Branch{
		Name:     name,
		Upstream: upstreamFor(cfg.Branches, name),
		Tip:      head.Hash().String(),
		Type:     models.BranchTypeLocal,
		IsHead:   true,
	}, nil
}

// Reset moves the current branch to the given ref with the given mode
func (g *GitOperations) Reset(ctx context.Context, repoPath string, mode service.ResetMode, ref string) error {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", ref, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.Reset(&gogit.ResetOptions{
		Commit: *hash,
		Mode:   resetMode(mode),
	})
	if err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}

	return nil
}

// DeleteBranch removes a local branch ref, refusing the checked-out branch
func (g *GitOperations) DeleteBranch(ctx context.Context, repoPath, name string) error {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	head, err := repo.Head()
	if err == nil && head.Name().Short() == name {
		return fmt.Errorf("cannot delete the current HEAD branch")
	}

	refName := plumbing.NewBranchReferenceName(name)
	if _, err := repo.Reference(refName, false); err != nil {
		return fmt.Errorf("branch %q not found: %w", name, err)
	}

	if err := repo.Storer.RemoveReference(refName); err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}

	return nil
}

// upstreamFor resolves a branch's remote-tracking branch from repository
// config, in "remote/branch" form
func upstreamFor(branches map[string]*gitconfig.Branch, name string) string {
	b, ok := branches[name]
	if !ok || b.Remote == "" || b.Merge == "" {
		return ""
	}
	return b.Remote + "/" + b.Merge.Short()
}

func resetMode(mode service.ResetMode) gogit.ResetMode {
	switch mode {
	case service.ResetSoft:
		return gogit.SoftReset
	case service.ResetMixed:
		return gogit.MixedReset
	default:
		return gogit.HardReset
	}
}

// Verify interface compliance at compile time
var _ service.GitService = (*GitOperations)(nil)
