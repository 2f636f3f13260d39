package models

import "time"

// Owner represents the account that owns a GitHub repository. The
// (login, endpoint) pair is the natural key; login lookups are
// case-insensitive. Rows are created lazily and never updated or deleted.
type Owner struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Login     string    `json:"login" gorm:"index;not null"`
	Endpoint  string    `json:"endpoint" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Owner
func (Owner) TableName() string {
	return "owners"
}

// GitHubRepository represents remote metadata linked to a local repository.
// The authoritative edge is LocalRepository -> GitHubRepository; rows are
// only ever reached through that reference.
type GitHubRepository struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null"`
	OwnerID   int64     `json:"owner_id" gorm:"not null"`
	Owner     Owner     `json:"owner,omitzero" gorm:"foreignKey:OwnerID"`
	Private   bool      `json:"private" gorm:"default:false"`
	Fork      bool      `json:"fork" gorm:"default:false"`
	HTMLURL   string    `json:"html_url" gorm:"column:html_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GitHubRepository
func (GitHubRepository) TableName() string {
	return "github_repositories"
}

// FullName returns the repository name in owner/name form
func (r *GitHubRepository) FullName() string {
	if r.Owner.Login != "" {
		return r.Owner.Login + "/" + r.Name
	}
	return r.Name
}

// LocalRepository represents a repository the user has added to the catalog,
// with optional linked GitHub metadata. An ID of zero means the row has not
// been inserted yet; the identifier is immutable once assigned.
type LocalRepository struct {
	ID                 int64             `json:"id" gorm:"primaryKey;autoIncrement"`
	Path               string            `json:"path" gorm:"not null"`
	GitHubRepositoryID *int64            `json:"github_repository_id,omitempty" gorm:"column:github_repository_id"`
	GitHubRepository   *GitHubRepository `json:"github_repository,omitempty" gorm:"foreignKey:GitHubRepositoryID"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// TableName specifies the table name for LocalRepository
func (LocalRepository) TableName() string {
	return "local_repositories"
}

// HasGitHubRepository returns true if remote metadata is linked
func (r *LocalRepository) HasGitHubRepository() bool {
	return r.GitHubRepository != nil
}
