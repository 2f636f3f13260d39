package injectable

import (
	"github.com/bravo68web/gitdeck/internal/application/service"
	"github.com/bravo68web/gitdeck/internal/config"
	domainservice "github.com/bravo68web/gitdeck/internal/domain/service"
	"github.com/bravo68web/gitdeck/internal/infrastructure/database"
	"github.com/bravo68web/gitdeck/internal/infrastructure/git"
	"github.com/bravo68web/gitdeck/internal/infrastructure/github"
	"github.com/bravo68web/gitdeck/internal/infrastructure/repository"
)

// Dependencies holds everything the CLI commands need
type Dependencies struct {
	Config         *config.Config
	Catalog        *service.CatalogService
	GitService     domainservice.GitService
	GitHub         *github.Client
	HistoryFactory func(repoPath string) *service.HistoryService
}

// LoadDependencies opens the catalog datastore, migrates its schema, and
// wires the services together
func LoadDependencies(cfg *config.Config) (*Dependencies, func() error, error) {
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	catalogRepo := repository.NewCatalogRepository(db.DB())
	catalogService := service.NewCatalogService(catalogRepo)
	gitService := git.NewGitOperations(cfg.Git.Binary)
	githubClient := github.NewClient(&cfg.GitHub)

	deps := &Dependencies{
		Config:     cfg,
		Catalog:    catalogService,
		GitService: gitService,
		GitHub:     githubClient,
		HistoryFactory: func(repoPath string) *service.HistoryService {
			return service.NewHistoryService(repoPath, gitService)
		},
	}

	return deps, db.Close, nil
}
