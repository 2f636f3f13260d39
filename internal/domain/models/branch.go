package models

// BranchType distinguishes local branches from remote-tracking branches
type BranchType int

const (
	BranchTypeLocal BranchType = iota
	BranchTypeRemote
)

// Branch represents a branch ref in a repository
type Branch struct {
	// Name is the short ref name, e.g. "main" or "origin/main"
	Name string `json:"name"`

	// Upstream is the remote-tracking branch this branch pushes to, in
	// "remote/branch" form, or empty if none is configured
	Upstream string `json:"upstream,omitempty"`

	// Tip is the SHA the branch currently points at
	Tip string `json:"tip"`

	Type BranchType `json:"type"`

	// IsHead is true for the branch HEAD currently resolves to
	IsHead bool `json:"is_head"`
}

// HasUpstream returns true if a remote-tracking branch is configured
func (b *Branch) HasUpstream() bool {
	return b.Upstream != ""
}
