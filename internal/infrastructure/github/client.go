package github

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bravo68web/gitdeck/internal/application/dto"
	"github.com/bravo68web/gitdeck/internal/config"
	"github.com/bravo68web/gitdeck/internal/domain/models"
	apperror "github.com/bravo68web/gitdeck/pkg/errors"
	"github.com/bravo68web/gitdeck/pkg/logger"
)

// Client fetches repository metadata from the GitHub REST API. The endpoint
// is configurable so GitHub Enterprise installations work unchanged.
type Client struct {
	endpoint string
	client   *resty.Client
	log      *logger.Logger
}

// NewClient creates a new GitHub API client
func NewClient(cfg *config.GitHubConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/vnd.github+json")

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Client{
		endpoint: cfg.Endpoint,
		client:   client,
		log:      logger.Get().WithFields(logger.Component("github")),
	}
}

// GetRepository fetches metadata for owner/name and maps it to the domain
// model consumed by the catalog upsert
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*models.GitHubRepository, error) {
	c.log.Debug("Fetching repository metadata",
		logger.Owner(owner),
		logger.String("name", name),
		logger.Endpoint(c.endpoint),
	)

	var payload dto.GitHubRepositoryResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&payload).
		SetPathParams(map[string]string{"owner": owner, "name": name}).
		Get("/repos/{owner}/{name}")
	if err != nil {
		return nil, apperror.Wrap(err, "github request failed")
	}

	if resp.StatusCode() == 404 {
		return nil, apperror.NotFound(fmt.Sprintf("repository %s/%s", owner, name), apperror.ErrNotFound)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("github request failed: %s", resp.Status())
	}

	return payload.ToModel(c.endpoint), nil
}
