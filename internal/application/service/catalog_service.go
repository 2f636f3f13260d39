package service

import (
	"context"

	"github.com/bravo68web/gitdeck/internal/domain/models"
	"github.com/bravo68web/gitdeck/internal/domain/repository"
	apperrors "github.com/bravo68web/gitdeck/pkg/errors"
	"github.com/bravo68web/gitdeck/pkg/logger"
)

// CatalogService manages the durable set of repositories the user has
// added, with their optional linked GitHub metadata
type CatalogService struct {
	catalog repository.CatalogRepository
	log     *logger.Logger
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		log:     logger.Get().WithFields(logger.Component("catalog")),
	}
}

// ListRepositories returns every added repository, fully inflated. Failures
// of the underlying datastore surface to the caller; they are never
// swallowed here.
func (s *CatalogService) ListRepositories(ctx context.Context) ([]*models.LocalRepository, error) {
	return s.catalog.List(ctx)
}

// AddRepository inserts a new local repository for the given path and
// returns it carrying its assigned identifier. Any identifier on a previous
// value for the same path is irrelevant: the catalog does not deduplicate
// paths. When GitHub metadata is supplied the upsert runs as a second,
// independent transaction; a crash between the two leaves a local
// repository without a linked remote, which is recoverable by re-running
// the upsert.
func (s *CatalogService) AddRepository(ctx context.Context, path string, gh *models.GitHubRepository) (*models.LocalRepository, error) {
	if path == "" {
		return nil, apperrors.BadRequest("repository path is required", apperrors.ErrInvalidInput)
	}

	repo, err := s.catalog.Insert(ctx, path)
	if err != nil {
		return nil, err
	}

	s.log.Info("Repository added",
		logger.RepositoryID(repo.ID),
		logger.Repository(repo.Path),
	)

	if gh == nil {
		return repo, nil
	}

	repo.GitHubRepository = gh
	if err := s.UpdateGitHubRepository(ctx, repo); err != nil {
		return nil, err
	}

	return s.catalog.FindByID(ctx, repo.ID)
}

// UpdateGitHubRepository upserts GitHub metadata for an already-added
// repository. A zero identifier or a missing GitHub payload is a contract
// violation by the caller, reported distinctly from recoverable failures.
// After a successful return, ListRepositories reflects the new metadata
// under the same local identifier.
func (s *CatalogService) UpdateGitHubRepository(ctx context.Context, repo *models.LocalRepository) error {
	if repo == nil || repo.ID == 0 {
		err := apperrors.ContractError("cannot update GitHub repository for a repository that hasn't been added")
		s.log.Error("Catalog contract violation", logger.Error(err))
		return err
	}
	if repo.GitHubRepository == nil {
		err := apperrors.ContractError("cannot update GitHub repository without GitHub repository metadata")
		s.log.Error("Catalog contract violation",
			logger.Error(err),
			logger.RepositoryID(repo.ID),
		)
		return err
	}

	if err := s.catalog.UpsertGitHubRepository(ctx, repo.ID, repo.GitHubRepository); err != nil {
		return err
	}

	s.log.Info("GitHub metadata updated",
		logger.RepositoryID(repo.ID),
		logger.Owner(repo.GitHubRepository.Owner.Login),
		logger.String("name", repo.GitHubRepository.Name),
	)

	return nil
}
