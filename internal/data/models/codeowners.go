package models

// CodeownersLocation identifies where a CODEOWNERS file was resolved.
type CodeownersLocation string

const (
	LocationGitHub CodeownersLocation = ".github/"
	LocationRoot   CodeownersLocation = "root"
	LocationDocs   CodeownersLocation = "docs/"
	LocationNone   CodeownersLocation = "none"
)

// Path returns the repository path probed for this location.
func (l CodeownersLocation) Path() string {
	switch l {
	case LocationGitHub:
		return ".github/CODEOWNERS"
	case LocationRoot:
		return "CODEOWNERS"
	case LocationDocs:
		return "docs/CODEOWNERS"
	default:
		return ""
	}
}

// CodeownersLocations lists probe locations in priority order.
var CodeownersLocations = []CodeownersLocation{LocationGitHub, LocationRoot, LocationDocs}

// OwnershipEntry is one parsed CODEOWNERS rule.
//
// Owners keeps the raw tokens (@user, @org/team, email) as written.
type OwnershipEntry struct {
	Line    int      `json:"line" yaml:"line"`
	Pattern string   `json:"pattern" yaml:"pattern"`
	Owners  []string `json:"owners,omitempty" yaml:"owners,omitempty"`
}

// ReviewerFileStatus is the per-repository result of CODEOWNERS resolution.
//
// Found reports whether any candidate location returned a file. Valid reports
// whether that file held at least one ownership entry. BranchUsed is empty when
// nothing was found.
type ReviewerFileStatus struct {
	Found      bool               `json:"found" yaml:"found"`
	Location   CodeownersLocation `json:"location" yaml:"location"`
	BranchUsed string             `json:"branch_used,omitempty" yaml:"branch_used,omitempty"`
	Valid      bool               `json:"valid" yaml:"valid"`
	Path       string             `json:"path,omitempty" yaml:"path,omitempty"`
	Entries    []OwnershipEntry   `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// NotFoundReviewerFile is the status when no candidate location held a file.
func NotFoundReviewerFile() ReviewerFileStatus {
	return ReviewerFileStatus{Location: LocationNone}
}

// Describe renders the status the way the audit report displays it.
func (s ReviewerFileStatus) Describe() string {
	switch {
	case !s.Found:
		return "Not Set (File Missing)"
	case !s.Valid:
		return "Set but Invalid (Empty)"
	default:
		return "Set and Valid"
	}
}
