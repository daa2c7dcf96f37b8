package git

import (
	"fmt"
	"strings"
)

// ── Status parsing ──────────────────────────────────────────────────────────

// ParseStatusOutput parses `git status --porcelain=v1 -z`.
// NUL-delimited scanning avoids allocating a massive []string for repos
// with thousands of changed files.
func ParseStatusOutput(out string) *StatusResult {
	result := &StatusResult{}
	if len(out) == 0 {
		return result
	}

	// Pre-allocate with reasonable defaults for monorepos.
	result.Staged = make([]FileStatus, 0, 32)
	result.Unstaged = make([]FileStatus, 0, 32)
	result.Untracked = make([]FileStatus, 0, 16)

	// Scan NUL-separated entries without strings.Split.
	for len(out) > 0 {
		nul := strings.IndexByte(out, '\x00')
		var entry string
		if nul < 0 {
			entry = out
			out = ""
		} else {
			entry = out[:nul]
			out = out[nul+1:]
		}
		if len(entry) < 4 {
			continue
		}

		staging := StatusCode(entry[0])
		worktree := StatusCode(entry[1])
		path := entry[3:]

		fs := FileStatus{Staging: staging, Worktree: worktree, Path: path}

		// Renames/copies have an extra NUL-separated entry for the original path.
		if staging == StatusRenamed || staging == StatusCopied ||
			worktree == StatusRenamed || worktree == StatusCopied {
			nul2 := strings.IndexByte(out, '\x00')
			if nul2 < 0 {
				fs.OrigPath = out
				out = ""
			} else {
				fs.OrigPath = out[:nul2]
				out = out[nul2+1:]
			}
		}

		if staging == StatusUntracked && worktree == StatusUntracked {
			result.Untracked = append(result.Untracked, fs)
			continue
		}

		// Unmerged pairs: U on either side, or both-added / both-deleted.
		if staging == StatusUnmerged || worktree == StatusUnmerged ||
			(staging == StatusAdded && worktree == StatusAdded) ||
			(staging == StatusDeleted && worktree == StatusDeleted) {
			result.Conflicts = append(result.Conflicts, fs)
			continue
		}

		if staging != StatusUnmodified && staging != StatusUntracked {
			result.Staged = append(result.Staged, fs)
		}
		if worktree != StatusUnmodified && worktree != StatusUntracked {
			result.Unstaged = append(result.Unstaged, fs)
		}
	}
	return result
}

// ── Stash parsing ───────────────────────────────────────────────────────────

// ParseStashList parses `git stash list`.
func ParseStashList(out string) []StashEntry {
	if len(out) == 0 {
		return nil
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	entries := make([]StashEntry, 0, len(lines))
	for _, line := range lines {
		var idx int
		if _, err := fmt.Sscanf(line, "stash@{%d}", &idx); err != nil {
			continue
		}
		msg := line
		if colonIdx := strings.Index(line, ": "); colonIdx != -1 {
			rest := line[colonIdx+2:]
			if secondColon := strings.Index(rest, ": "); secondColon != -1 {
				msg = rest[secondColon+2:]
			} else {
				msg = rest
			}
		}
		branch := ""
		if strings.Contains(line, "On ") {
			parts := strings.SplitN(line, "On ", 2)
			if len(parts) == 2 {
				if colonIdx := strings.Index(parts[1], ":"); colonIdx != -1 {
					branch = parts[1][:colonIdx]
				}
			}
		}
		entries = append(entries, StashEntry{Index: idx, Message: msg, Branch: branch})
	}
	return entries
}
