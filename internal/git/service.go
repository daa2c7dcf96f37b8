package git

// Service defines the contract for all Git operations the panel needs.
// Every consumer depends on this interface, never on exec.Command directly.
// This makes the application testable via mock implementations.
type Service interface {
	// ── Repository info ──────────────────────────────────────────────
	RepoRoot() string
	GitDir() string
	Head() (string, error)
	Branch() (string, error)
	IsClean() (bool, error)
	IsMerging() bool
	IsRebasing() bool
	AheadBehind() (ahead, behind int, err error)
	Upstream() string

	// ── Status & staging ─────────────────────────────────────────────
	Status() (*StatusResult, error)
	Stage(paths ...string) error
	StageAll() error
	Unstage(paths ...string) error
	UnstageAll() error
	Discard(paths ...string) error
	CleanUntracked(paths ...string) error
	MarkResolved(path string) error

	// ── Commits ──────────────────────────────────────────────────────
	Commit(message string) error
	CommitAmend(message string) error
	LastMessage() (string, error)

	// ── Content ──────────────────────────────────────────────────────
	Diff(staged bool, path string) (string, error)
	FileContents(path string) (string, error)

	// ── Sync ─────────────────────────────────────────────────────────
	Push(force bool) error
	Pull() error
	Fetch() error

	// ── Stash ────────────────────────────────────────────────────────
	StashList() ([]StashEntry, error)
	StashPush(message string) error
	StashPop(index int) error
	StashApply(index int) error
	StashDrop(index int) error
	StashShow(index int) (string, error)
}
