// Package report holds the audit result handed to renderers.
package report

import (
	"encoding/json"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/rules"
)

// Operations an AccessError can be recorded for.
const (
	OperationReviewerFile     = "reviewer-file"
	OperationBranchProtection = "branch-protection"
)

// AccessError marks a repository that could not be evaluated. It replaces the
// repository's findings; it never accompanies them.
type AccessError struct {
	Operation  string `json:"operation" yaml:"operation"`
	Resource   string `json:"resource,omitempty" yaml:"resource,omitempty"`
	StatusCode int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Message    string `json:"message" yaml:"message"`
}

// RepositoryEntry is the per-repository outcome of an audit.
type RepositoryEntry struct {
	Repository  models.Repository         `json:"repository" yaml:"repository"`
	Reviewers   models.ReviewerFileStatus `json:"reviewers" yaml:"reviewers"`
	Findings    []rules.Finding           `json:"findings,omitempty" yaml:"findings,omitempty"`
	AccessError *AccessError              `json:"access_error,omitempty" yaml:"access_error,omitempty"`
}

func (e RepositoryEntry) Accessible() bool {
	return e.AccessError == nil
}

type Summary struct {
	TotalRepositories  int `json:"total_repositories" yaml:"total_repositories"`
	TotalMembers       int `json:"total_members" yaml:"total_members"`
	TotalCodeOwners    int `json:"total_code_owners" yaml:"total_code_owners"`
	AccessErrors       int `json:"access_errors" yaml:"access_errors"`
	Correct            int `json:"correct" yaml:"correct"`
	Incorrect          int `json:"incorrect" yaml:"incorrect"`
	Missing            int `json:"missing" yaml:"missing"`
	ValidReviewerFiles int `json:"valid_reviewer_files" yaml:"valid_reviewer_files"`
}

// NonCompliant counts findings that are Incorrect or Missing.
func (s Summary) NonCompliant() int {
	return s.Incorrect + s.Missing
}

// Snapshot is the serializable form of an AuditReport.
type Snapshot struct {
	Organization string             `json:"organization" yaml:"organization"`
	AccountType  models.AccountType `json:"account_type" yaml:"account_type"`
	Members      []models.Member    `json:"members" yaml:"members"`
	CodeOwners   []string           `json:"code_owners" yaml:"code_owners"`
	Repositories []RepositoryEntry  `json:"repositories" yaml:"repositories"`
	Findings     []rules.Finding    `json:"findings" yaml:"findings"`
	Summary      Summary            `json:"summary" yaml:"summary"`
}

// AuditReport is the immutable result of one run. Every accessor returns a
// copy, so renderers cannot change what another renderer sees.
type AuditReport struct {
	s Snapshot
}

func (r *AuditReport) Organization() string            { return r.s.Organization }
func (r *AuditReport) AccountType() models.AccountType { return r.s.AccountType }
func (r *AuditReport) Summary() Summary                { return r.s.Summary }

func (r *AuditReport) Members() []models.Member {
	return copySlice(r.s.Members)
}

func (r *AuditReport) CodeOwners() []string {
	return copySlice(r.s.CodeOwners)
}

func (r *AuditReport) Repositories() []RepositoryEntry {
	out := make([]RepositoryEntry, len(r.s.Repositories))
	for i, e := range r.s.Repositories {
		out[i] = cloneEntry(e)
	}
	return out
}

func (r *AuditReport) Findings() []rules.Finding {
	return copySlice(r.s.Findings)
}

// Snapshot returns a deep copy of the report.
func (r *AuditReport) Snapshot() Snapshot {
	return Snapshot{
		Organization: r.s.Organization,
		AccountType:  r.s.AccountType,
		Members:      r.Members(),
		CodeOwners:   r.CodeOwners(),
		Repositories: r.Repositories(),
		Findings:     r.Findings(),
		Summary:      r.s.Summary,
	}
}

func (r *AuditReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Snapshot())
}

func (r *AuditReport) MarshalYAML() (any, error) {
	return r.Snapshot(), nil
}

// copySlice copies s, keeping a non-nil empty slice non-nil so it still
// serializes as [].
func copySlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneEntry(e RepositoryEntry) RepositoryEntry {
	out := e
	if e.Repository.Topics != nil {
		out.Repository.Topics = append([]string(nil), e.Repository.Topics...)
	}
	if e.Reviewers.Entries != nil {
		out.Reviewers.Entries = make([]models.OwnershipEntry, len(e.Reviewers.Entries))
		for i, oe := range e.Reviewers.Entries {
			oe.Owners = append([]string(nil), oe.Owners...)
			out.Reviewers.Entries[i] = oe
		}
	}
	if e.Findings != nil {
		out.Findings = append([]rules.Finding(nil), e.Findings...)
	}
	if e.AccessError != nil {
		ae := *e.AccessError
		out.AccessError = &ae
	}
	return out
}
