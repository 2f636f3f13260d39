package repository

import (
	"context"

	"github.com/bravo68web/gitdeck/internal/domain/models"
)

// CatalogRepository defines the interface for catalog data access. The
// backing datastore must support multi-table atomic transactions; each
// method maps to at most one transaction.
type CatalogRepository interface {
	// List returns every local repository, fully inflated with its linked
	// GitHub repository and owner when present. The datastore is re-read on
	// every call.
	List(ctx context.Context) ([]*models.LocalRepository, error)

	// Insert adds a new local repository row for the given path and returns
	// the row carrying its newly assigned identifier.
	Insert(ctx context.Context, path string) (*models.LocalRepository, error)

	// FindByID finds a local repository by its identifier
	FindByID(ctx context.Context, id int64) (*models.LocalRepository, error)

	// UpsertGitHubRepository writes GitHub metadata for an already-inserted
	// local repository in one transaction spanning the three tables. When
	// the local row already references a GitHub repository row, that row's
	// identity and owner are reused regardless of the incoming payload;
	// otherwise the owner is resolved or created by case-insensitive login
	// and a new GitHub repository row is inserted and linked.
	UpsertGitHubRepository(ctx context.Context, localID int64, payload *models.GitHubRepository) error
}
