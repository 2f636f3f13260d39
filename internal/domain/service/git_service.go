package service

import (
	"context"

	"github.com/bravo68web/gitdeck/internal/domain/models"
)

// ResetMode selects how a reset affects the index and working tree
type ResetMode int

const (
	ResetHard ResetMode = iota
	ResetMixed
	ResetSoft
)

// GitService defines the external git collaborator. Implementations read
// the object database and refs of a repository on disk; any failure is
// returned as a plain error and handled at the caller's boundary.
type GitService interface {
	// Commits returns up to limit commits, newest first, reachable from the
	// given revisions. Revisions are passed through to the underlying log
	// traversal, so exclusions such as "--not --remotes" are valid.
	Commits(ctx context.Context, repoPath string, limit int, revisions ...string) ([]*models.Commit, error)

	// Branches returns all local and remote-tracking branches
	Branches(ctx context.Context, repoPath string) ([]*models.Branch, error)

	// CurrentBranch returns the branch HEAD resolves to, or nil when HEAD
	// is detached or unborn
	CurrentBranch(ctx context.Context, repoPath string) (*models.Branch, error)

	// Reset moves HEAD's branch to the given ref using the given mode
	Reset(ctx context.Context, repoPath string, mode ResetMode, ref string) error

	// DeleteBranch removes a local branch ref. Deleting the currently
	// checked-out branch is refused.
	DeleteBranch(ctx context.Context, repoPath, name string) error
}
