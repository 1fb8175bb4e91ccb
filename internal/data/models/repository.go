package models

// FallbackDefaultBranch is used when the API reports no default branch.
const FallbackDefaultBranch = "main"

// Repository is an immutable snapshot of a repository listed for the audited account.
type Repository struct {
	ID            int64    `json:"id" yaml:"id"`
	Owner         string   `json:"owner" yaml:"owner"`
	Name          string   `json:"name" yaml:"name"`
	FullName      string   `json:"full_name" yaml:"full_name"`
	DefaultBranch string   `json:"default_branch" yaml:"default_branch"`
	Archived      bool     `json:"archived,omitempty" yaml:"archived,omitempty"`
	Fork          bool     `json:"fork,omitempty" yaml:"fork,omitempty"`
	Private       bool     `json:"private,omitempty" yaml:"private,omitempty"`
	Visibility    string   `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Topics        []string `json:"topics,omitempty" yaml:"topics,omitempty"`
}

// Branch returns the default branch, or FallbackDefaultBranch when unset.
func (r Repository) Branch() string {
	if r.DefaultBranch == "" {
		return FallbackDefaultBranch
	}
	return r.DefaultBranch
}

// Slug returns OWNER/NAME, preferring FullName when present.
func (r Repository) Slug() string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.Owner + "/" + r.Name
}
