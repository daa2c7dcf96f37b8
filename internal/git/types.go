package git

// StatusCode represents a single-character Git status indicator.
type StatusCode byte

// Git status codes as single-byte indicators.
const (
	StatusUnmodified  StatusCode = ' '
	StatusModified    StatusCode = 'M'
	StatusTypeChanged StatusCode = 'T'
	StatusAdded       StatusCode = 'A'
	StatusDeleted     StatusCode = 'D'
	StatusRenamed     StatusCode = 'R'
	StatusCopied      StatusCode = 'C'
	StatusUnmerged    StatusCode = 'U'
	StatusUntracked   StatusCode = '?'
	StatusIgnored     StatusCode = '!'
)

// String returns the single-character representation.
func (s StatusCode) String() string { return string(s) }

// Label returns a human-readable description of the status.
func (s StatusCode) Label() string {
	switch s {
	case StatusModified:
		return "Modified"
	case StatusTypeChanged:
		return "Type Changed"
	case StatusAdded:
		return "Added"
	case StatusDeleted:
		return "Deleted"
	case StatusRenamed:
		return "Renamed"
	case StatusCopied:
		return "Copied"
	case StatusUnmerged:
		return "Unmerged"
	case StatusUntracked:
		return "Untracked"
	case StatusIgnored:
		return "Ignored"
	default:
		return ""
	}
}

// FileStatus represents the status of a single file in the working tree or index.
type FileStatus struct {
	Staging  StatusCode
	Worktree StatusCode
	Path     string
	OrigPath string // Only set for renames/copies.
}

// StatusResult holds the categorised status of the entire repository.
// A file that is dirty in both the index and the worktree appears in
// Staged and Unstaged at the same time.
type StatusResult struct {
	Staged    []FileStatus
	Unstaged  []FileStatus
	Untracked []FileStatus
	Conflicts []FileStatus
}

// TotalCount returns the total number of files across all categories.
func (sr *StatusResult) TotalCount() int {
	return len(sr.Staged) + len(sr.Unstaged) + len(sr.Untracked) + len(sr.Conflicts)
}

// StashEntry represents a single stash entry.
type StashEntry struct {
	Index   int
	Message string
	Branch  string
}
