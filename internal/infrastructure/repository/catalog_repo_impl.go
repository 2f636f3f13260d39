package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bravo68web/gitdeck/internal/domain/models"
	"github.com/bravo68web/gitdeck/internal/domain/repository"
	apperror "github.com/bravo68web/gitdeck/pkg/errors"
)

// CatalogRepoImpl implements the CatalogRepository interface using GORM
type CatalogRepoImpl struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new instance of CatalogRepoImpl
func NewCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &CatalogRepoImpl{db: db}
}

// List returns all local repositories with their GitHub metadata inflated.
// Every call re-reads the datastore; the catalog is deliberately uncached.
func (r *CatalogRepoImpl) List(ctx context.Context) ([]*models.LocalRepository, error) {
	var repos []*models.LocalRepository
	err := r.db.WithContext(ctx).
		Preload("GitHubRepository").
		Preload("GitHubRepository.Owner").
		Order("id ASC").
		Find(&repos).Error
	if err != nil {
		return nil, apperror.StorageError("list", err)
	}
	return repos, nil
}

// Insert adds a local repository row and returns it with its assigned id
func (r *CatalogRepoImpl) Insert(ctx context.Context, path string) (*models.LocalRepository, error) {
	repo := &models.LocalRepository{Path: path}
	if err := r.db.WithContext(ctx).Create(repo).Error; err != nil {
		return nil, apperror.StorageError("insert", err)
	}
	return repo, nil
}

// FindByID retrieves a local repository by its identifier
func (r *CatalogRepoImpl) FindByID(ctx context.Context, id int64) (*models.LocalRepository, error) {
	var repo models.LocalRepository
	err := r.db.WithContext(ctx).
		Preload("GitHubRepository").
		Preload("GitHubRepository.Owner").
		First(&repo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("repository", apperror.ErrNotFound)
		}
		return nil, apperror.StorageError("find", err)
	}
	return &repo, nil
}

// UpsertGitHubRepository writes GitHub metadata for the given local
// repository inside one transaction spanning all three tables. An existing
// linked GitHub repository keeps its identity and owner; otherwise the
// owner is resolved or created by case-insensitive login. The login lookup
// is intentionally not scoped by endpoint, matching the documented owner
// matching rule.
func (r *CatalogRepoImpl) UpsertGitHubRepository(ctx context.Context, localID int64, payload *models.GitHubRepository) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var local models.LocalRepository
		if err := tx.First(&local, localID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("repository", apperror.ErrNotFound)
			}
			return err
		}

		var ghID, ownerID int64

		if local.GitHubRepositoryID != nil {
			// The existing linkage wins: reuse the row's identity and its
			// owner even if the incoming payload names a different one.
			var existing models.GitHubRepository
			if err := tx.First(&existing, *local.GitHubRepositoryID).Error; err != nil {
				return err
			}
			ghID = existing.ID
			ownerID = existing.OwnerID
		} else {
			owner, err := r.findOrCreateOwner(tx, payload.Owner.Login, payload.Owner.Endpoint)
			if err != nil {
				return err
			}
			ownerID = owner.ID
		}

		if ghID == 0 {
			row := models.GitHubRepository{
				Name:    payload.Name,
				OwnerID: ownerID,
				Private: payload.Private,
				Fork:    payload.Fork,
				HTMLURL: payload.HTMLURL,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			ghID = row.ID
		} else {
			updates := map[string]any{
				"name":     payload.Name,
				"owner_id": ownerID,
				"private":  payload.Private,
				"fork":     payload.Fork,
				"html_url": payload.HTMLURL,
			}
			err := tx.Model(&models.GitHubRepository{}).
				Where("id = ?", ghID).
				Updates(updates).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&local).Update("github_repository_id", ghID).Error
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperror.StorageError("upsert", err)
	}
	return nil
}

// findOrCreateOwner resolves an owner row by case-insensitive login,
// creating one lazily on first sight
func (r *CatalogRepoImpl) findOrCreateOwner(tx *gorm.DB, login, endpoint string) (*models.Owner, error) {
	var owner models.Owner
	err := tx.Where("LOWER(login) = ?", strings.ToLower(login)).First(&owner).Error
	if err == nil {
		return &owner, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	owner = models.Owner{Login: login, Endpoint: endpoint}
	if err := tx.Create(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}
