package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bravo68web/gitdeck/internal/domain/models"
	"github.com/bravo68web/gitdeck/internal/domain/repository"
	apperror "github.com/bravo68web/gitdeck/pkg/errors"
)

func newTestRepo(t *testing.T) repository.CatalogRepository {
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

	return NewCatalogRepository(db)
}

func TestInsertAssignsSequentialIdentifiers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Insert(ctx, "/a")
	require.NoError(t, err)
	second, err := repo.Insert(ctx, "/b")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestListEmptyCatalog(t *testing.T) {
	repo := newTestRepo(t)

	repos, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpsertGitHubRepositoryMissingLocalRow(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.UpsertGitHubRepository(context.Background(), 42, &models.GitHubRepository{
		Name:  "ghost",
		Owner: models.Owner{Login: "nobody", Endpoint: "https://api.github.com"},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpsertGitHubRepositoryLinksAndInflates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	local, err := repo.Insert(ctx, "/repos/linked")
	require.NoError(t, err)

	err = repo.UpsertGitHubRepository(ctx, local.ID, &models.GitHubRepository{
		Name:    "linked",
		Owner:   models.Owner{Login: "octocat", Endpoint: "https://api.github.com"},
		Private: true,
		HTMLURL: "https://github.com/octocat/linked",
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, local.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GitHubRepository)
	assert.Equal(t, "linked", got.GitHubRepository.Name)
	assert.Equal(t, "octocat", got.GitHubRepository.Owner.Login)
	assert.True(t, got.GitHubRepository.Private)
}

func TestUpsertGitHubRepositoryUpdatesInPlace(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	local, err := repo.Insert(ctx, "/repos/updated")
	require.NoError(t, err)

	payload := &models.GitHubRepository{
		Name:  "before",
		Owner: models.Owner{Login: "octocat", Endpoint: "https://api.github.com"},
	}
	require.NoError(t, repo.UpsertGitHubRepository(ctx, local.ID, payload))

	first, err := repo.FindByID(ctx, local.ID)
	require.NoError(t, err)

	payload.Name = "after"
	payload.Private = true
	require.NoError(t, repo.UpsertGitHubRepository(ctx, local.ID, payload))

	second, err := repo.FindByID(ctx, local.ID)
	require.NoError(t, err)

	assert.Equal(t, first.GitHubRepository.ID, second.GitHubRepository.ID)
	assert.Equal(t, "after", second.GitHubRepository.Name)
	assert.True(t, second.GitHubRepository.Private)
}
