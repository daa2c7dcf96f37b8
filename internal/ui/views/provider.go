package views

import (
	"github.com/scmview/scmview/internal/git"
	"github.com/scmview/scmview/internal/scm"
)

// changesFromStatus flattens a git status result into the raw change
// records the classifier consumes. A file dirty in both the index and
// the worktree yields two records, one per side.
func changesFromStatus(res *git.StatusResult) []scm.FileChange {
	changes := make([]scm.FileChange, 0, res.TotalCount())
	for _, f := range res.Staged {
		changes = append(changes, scm.FileChange{
			URI:    f.Path,
			Status: statusFromCode(f.Staging),
			Staged: true,
		})
	}
	for _, f := range res.Unstaged {
		changes = append(changes, scm.FileChange{
			URI:    f.Path,
			Status: statusFromCode(f.Worktree),
		})
	}
	for _, f := range res.Untracked {
		changes = append(changes, scm.FileChange{
			URI:    f.Path,
			Status: scm.Untracked,
		})
	}
	for _, f := range res.Conflicts {
		changes = append(changes, scm.FileChange{
			URI:    f.Path,
			Status: scm.Conflicted,
		})
	}
	return changes
}

func statusFromCode(code git.StatusCode) scm.ChangeStatus {
	switch code {
	case git.StatusAdded:
		return scm.Added
	case git.StatusDeleted:
		return scm.Deleted
	case git.StatusRenamed:
		return scm.Renamed
	case git.StatusCopied:
		return scm.Copied
	case git.StatusTypeChanged:
		return scm.TypeChanged
	case git.StatusUntracked:
		return scm.Untracked
	case git.StatusIgnored:
		return scm.Ignored
	case git.StatusUnmerged:
		return scm.Conflicted
	default:
		return scm.Modified
	}
}

// readRepoState gathers the repository-level facts command predicates
// and the status bar need. Individual query failures degrade to zero
// values instead of failing the refresh.
func readRepoState(svc git.Service) scm.RepoState {
	st := scm.RepoState{Upstream: svc.Upstream()}
	st.Branch, _ = svc.Branch()
	st.Ahead, st.Behind, _ = svc.AheadBehind()
	st.Clean, _ = svc.IsClean()
	st.Merging = svc.IsMerging()
	st.Rebasing = svc.IsRebasing()
	return st
}
