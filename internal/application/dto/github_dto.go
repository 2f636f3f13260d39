package dto

import "github.com/bravo68web/gitdeck/internal/domain/models"

// GitHubOwnerResponse is the owner fragment of a GitHub API repository payload
type GitHubOwnerResponse struct {
	Login string `json:"login"`
}

// GitHubRepositoryResponse is the subset of the GitHub API repository
// payload the catalog stores
type GitHubRepositoryResponse struct {
	Name    string              `json:"name"`
	Owner   GitHubOwnerResponse `json:"owner"`
	Private bool                `json:"private"`
	Fork    bool                `json:"fork"`
	HTMLURL string              `json:"html_url"`
}

// ToModel maps the API payload onto the domain model, tagging the owner
// with the endpoint the payload was fetched from
func (r *GitHubRepositoryResponse) ToModel(endpoint string) *models.GitHubRepository {
	return &models.GitHubRepository{
		Name: r.Name,
		Owner: models.Owner{
			Login:    r.Owner.Login,
			Endpoint: endpoint,
		},
		Private: r.Private,
		Fork:    r.Fork,
		HTMLURL: r.HTMLURL,
	}
}
