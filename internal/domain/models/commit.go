package models

import (
	"strings"
	"time"
)

// CommitIdentity represents the author identity recorded on a commit
type CommitIdentity struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// Commit represents a single commit as produced by the git log collaborator.
// Commits are content-addressed: the same SHA never carries different
// content, so values are treated as immutable once loaded.
type Commit struct {
	SHA        string         `json:"sha"`
	Summary    string         `json:"summary"`
	Body       string         `json:"body"`
	Author     CommitIdentity `json:"author"`
	ParentSHAs []string       `json:"parent_shas"`
}

// NewCommit creates a commit, splitting the raw message into summary and body
func NewCommit(sha, message string, author CommitIdentity, parentSHAs []string) *Commit {
	summary, body := SplitMessage(message)
	return &Commit{
		SHA:        sha,
		Summary:    summary,
		Body:       body,
		Author:     author,
		ParentSHAs: parentSHAs,
	}
}

// ShortSHA returns the abbreviated commit hash
func (c *Commit) ShortSHA() string {
	if len(c.SHA) < 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// IsMerge returns true if the commit has more than one parent
func (c *Commit) IsMerge() bool {
	return len(c.ParentSHAs) > 1
}

// SplitMessage splits a raw commit message into its summary line and body
func SplitMessage(message string) (summary, body string) {
	message = strings.TrimRight(message, "\n")
	summary, body, found := strings.Cut(message, "\n")
	if !found {
		return strings.TrimSpace(summary), ""
	}
	return strings.TrimSpace(summary), strings.TrimSpace(body)
}
