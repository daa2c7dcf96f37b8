// Package scm holds the source-control panel core: classification of raw
// file changes into ordered resource groups, the group store the panel
// renders from, the selection cursor, and keyboard-driven navigation.
// All collaborators (git, editors, icons) are injected interfaces so the
// core stays testable without a repository.
package scm

import (
	"context"
	"path"
)

// ChangeStatus describes what happened to a file.
type ChangeStatus int

// File change statuses.
const (
	Added ChangeStatus = iota
	Modified
	Deleted
	Renamed
	Copied
	TypeChanged
	Untracked
	Ignored
	Conflicted
)

// String returns a human-readable name for the status.
func (s ChangeStatus) String() string {
	switch s {
	case Added:
		return "Added"
	case Modified:
		return "Modified"
	case Deleted:
		return "Deleted"
	case Renamed:
		return "Renamed"
	case Copied:
		return "Copied"
	case TypeChanged:
		return "Type Changed"
	case Untracked:
		return "Untracked"
	case Ignored:
		return "Ignored"
	case Conflicted:
		return "Conflicted"
	default:
		return ""
	}
}

// FileChange is one raw change record from the status provider.
// Immutable snapshot; lifetime is a single status query.
type FileChange struct {
	URI    string
	Status ChangeStatus
	Staged bool
}

// GroupID identifies one of the fixed resource buckets.
type GroupID int

// Resource buckets, in display order.
const (
	GroupStaged GroupID = iota
	GroupUnstaged
	GroupMerge
)

// Label returns the display label for the group.
func (g GroupID) Label() string {
	switch g {
	case GroupStaged:
		return "Staged changes"
	case GroupUnstaged:
		return "Changes"
	case GroupMerge:
		return "Merged Changes"
	default:
		return ""
	}
}

// ResourceGroup is a labeled, ordered bucket of resources. Groups are
// created fresh on every reconciliation and never mutated in place, so
// readers always see a whole replacement.
type ResourceGroup struct {
	ID        GroupID
	Label     string
	Resources []*Resource
}

// Resource is one file-level change entry displayed in the panel.
// Group is a non-owning back-reference; it never outlives a
// reconciliation cycle because resources are rebuilt wholesale.
type Resource struct {
	URI        string
	Group      GroupID
	Change     FileChange
	Decoration Decoration
}

// Name returns the display name for the resource (base name of the path).
func (r *Resource) Name() string { return DisplayName(r.URI) }

// DisplayName maps a resource URI to the name shown in lists.
func DisplayName(uri string) string { return path.Base(uri) }

// Flatten concatenates all groups' resources in group-then-within-group
// order. Recomputed fresh wherever positional movement is needed; indices
// must never be cached across refreshes.
func Flatten(groups []*ResourceGroup) []*Resource {
	n := 0
	for _, g := range groups {
		n += len(g.Resources)
	}
	flat := make([]*Resource, 0, n)
	for _, g := range groups {
		flat = append(flat, g.Resources...)
	}
	return flat
}

// RepoStatus is one status-provider snapshot.
type RepoStatus struct {
	Branch   string
	Head     string
	Upstream string
	Ahead    int
	Behind   int
	Changes  []FileChange
}

// StatusProvider queries the version-control collaborator for the current
// repository state. May fail (process or network error); the core reports
// the failure and never retries on its own.
type StatusProvider interface {
	Status(ctx context.Context) (*RepoStatus, error)
}
