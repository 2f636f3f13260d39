package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bravo68web/gitdeck/internal/domain/models"
	"github.com/bravo68web/gitdeck/internal/infrastructure/repository"
	apperrors "github.com/bravo68web/gitdeck/pkg/errors"
)

func newTestCatalog(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Owner{},
		&models.GitHubRepository{},
		&models.LocalRepository{},
	))

	return NewCatalogService(repository.NewCatalogRepository(db)), db
}

func githubPayload(owner, name string) *models.GitHubRepository {
	return &models.GitHubRepository{
		Name:    name,
		Owner:   models.Owner{Login: owner, Endpoint: "https://api.github.com"},
		Private: false,
		Fork:    false,
		HTMLURL: "https://github.com/" + owner + "/" + name,
	}
}

func TestAddRepositoryAssignsIdentifier(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	repo, err := catalog.AddRepository(ctx, "/some/cool/path", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), repo.ID)
	assert.Equal(t, "/some/cool/path", repo.Path)
	assert.Nil(t, repo.GitHubRepository)

	repos, err := catalog.ListRepositories(ctx)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, repo.ID, repos[0].ID)
	assert.Equal(t, "/some/cool/path", repos[0].Path)
}

func TestAddRepositoryRoundTripsGitHubMetadata(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	payload := githubPayload("octocat", "hello-world")
	payload.Private = true
	payload.Fork = true

	repo, err := catalog.AddRepository(ctx, "/repos/hello-world", payload)
	require.NoError(t, err)

	repos, err := catalog.ListRepositories(ctx)
	require.NoError(t, err)
	require.Len(t, repos, 1)

	got := repos[0]
	assert.Equal(t, repo.ID, got.ID)
	require.NotNil(t, got.GitHubRepository)
	assert.Equal(t, "hello-world", got.GitHubRepository.Name)
	assert.Equal(t, "octocat", got.GitHubRepository.Owner.Login)
	assert.True(t, got.GitHubRepository.Private)
	assert.True(t, got.GitHubRepository.Fork)
	assert.Equal(t, "https://github.com/octocat/hello-world", got.GitHubRepository.HTMLURL)
}

func TestUpdateGitHubRepositoryKeepsIdentifiersStable(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	repo, err := catalog.AddRepository(ctx, "/repos/stable", githubPayload("octocat", "first"))
	require.NoError(t, err)
	require.NotNil(t, repo.GitHubRepository)

	localID := repo.ID
	ghID := repo.GitHubRepository.ID
	ownerID := repo.GitHubRepository.OwnerID

	for _, payload := range []*models.GitHubRepository{
		githubPayload("octocat", "renamed"),
		githubPayload("somebody-else", "renamed-again"),
	} {
		repo.GitHubRepository = payload
		require.NoError(t, catalog.UpdateGitHubRepository(ctx, repo))

		repos, err := catalog.ListRepositories(ctx)
		require.NoError(t, err)
		require.Len(t, repos, 1)

		got := repos[0]
		assert.Equal(t, localID, got.ID)
		require.NotNil(t, got.GitHubRepository)
		assert.Equal(t, ghID, got.GitHubRepository.ID)
		// The existing linkage wins: the owner is never re-resolved, even
		// when the payload names a different login.
		assert.Equal(t, ownerID, got.GitHubRepository.OwnerID)
		assert.Equal(t, payload.Name, got.GitHubRepository.Name)

		repo = got
	}
}

func TestOwnersAreReusedCaseInsensitively(t *testing.T) {
	catalog, db := newTestCatalog(t)
	ctx := context.Background()

	first, err := catalog.AddRepository(ctx, "/repos/one", githubPayload("Octocat", "one"))
	require.NoError(t, err)

	second, err := catalog.AddRepository(ctx, "/repos/two", githubPayload("octocat", "two"))
	require.NoError(t, err)

	require.NotNil(t, first.GitHubRepository)
	require.NotNil(t, second.GitHubRepository)
	assert.Equal(t, first.GitHubRepository.OwnerID, second.GitHubRepository.OwnerID)

	var count int64
	require.NoError(t, db.Model(&models.Owner{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateGitHubRepositoryContractViolations(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	err := catalog.UpdateGitHubRepository(ctx, &models.LocalRepository{
		Path:             "/never/added",
		GitHubRepository: githubPayload("octocat", "x"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsContractViolation(err))

	repo, err := catalog.AddRepository(ctx, "/repos/no-metadata", nil)
	require.NoError(t, err)

	err = catalog.UpdateGitHubRepository(ctx, repo)
	require.Error(t, err)
	assert.True(t, apperrors.IsContractViolation(err))
}

func TestCatalogDoesNotDeduplicatePaths(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	first, err := catalog.AddRepository(ctx, "/repos/same", nil)
	require.NoError(t, err)
	second, err := catalog.AddRepository(ctx, "/repos/same", nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	repos, err := catalog.ListRepositories(ctx)
	require.NoError(t, err)
	assert.Len(t, repos, 2)
}
