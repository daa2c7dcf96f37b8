package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/scmview/scmview/internal/log"
)

// ErrNotARepo is returned when the path is not inside a Git repository.
var ErrNotARepo = errors.New("not a git repository")

// cmdTimeout is the maximum duration any single git command may run.
// Prevents hangs on huge repos or network operations.
const cmdTimeout = 30 * time.Second

// CLIService implements Service by shelling out to the git CLI.
// Optimised for large monorepos:
//   - GIT_OPTIONAL_LOCKS=0 on all read commands (no lock contention)
//   - --no-optional-locks on all read commands
//   - Context-based timeouts prevent hangs
//   - Stdout/Stderr separated — stderr noise doesn't corrupt output
type CLIService struct {
	root        string // Absolute path to the repo root.
	gitDir      string // Path to the .git directory.
	diffContext int    // Context lines for diffs; 0 uses git's default.
}

// Compile-time check that CLIService implements Service.
var _ Service = (*CLIService)(nil)

// NewCLIService opens a Git repository at the given path.
func NewCLIService(path string) (*CLIService, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	topLevel, err := runGit(abs, nil, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ErrNotARepo
	}
	gitDir, err := runGit(abs, nil, "rev-parse", "--git-dir")
	if err != nil {
		return nil, fmt.Errorf("finding .git directory: %w", err)
	}
	gd := strings.TrimSpace(gitDir)
	if !filepath.IsAbs(gd) {
		gd = filepath.Join(strings.TrimSpace(topLevel), gd)
	}
	return &CLIService{
		root:   strings.TrimSpace(topLevel),
		gitDir: gd,
	}, nil
}

// GitDir returns the path to the .git directory.
func (s *CLIService) GitDir() string { return s.gitDir }

// SetDiffContext sets the number of context lines diffs are produced
// with. Call before the service is shared across goroutines.
func (s *CLIService) SetDiffContext(lines int) { s.diffContext = lines }

// ── helpers ─────────────────────────────────────────────────────────────────

// readEnv is the environment set on all read-only git commands.
// GIT_OPTIONAL_LOCKS=0 prevents git from acquiring optional locks,
// which is critical in large repos where lock contention stalls readers.
var readEnv = []string{"GIT_OPTIONAL_LOCKS=0"}

// run executes a git command at the repo root with read-optimised env.
func (s *CLIService) run(args ...string) (string, error) {
	return runGit(s.root, readEnv, args...)
}

// runWrite executes a write git command (no optional-locks override).
func (s *CLIService) runWrite(args ...string) (string, error) {
	return runGit(s.root, nil, args...)
}

// runGit executes a git command with a context timeout.
// Stdout and stderr are separated so stderr noise doesn't corrupt output.
func runGit(dir string, extraEnv []string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	// Inherit environment, add extras.
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.Printf("git %s: err=%v (%s)", strings.Join(args, " "), err, time.Since(start).Round(time.Millisecond))
	if err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), errMsg, err)
	}
	return stdout.String(), nil
}

// ── Repository info ─────────────────────────────────────────────────────────

// RepoRoot returns the repository root path.
func (s *CLIService) RepoRoot() string { return s.root }

// Head returns the short hash of the current HEAD commit.
func (s *CLIService) Head() (string, error) {
	hash, err := s.run("rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	return strings.TrimSpace(hash), nil
}

// Branch returns the current branch name, or "" when HEAD is detached.
func (s *CLIService) Branch() (string, error) {
	ref, err := s.run("symbolic-ref", "--short", "HEAD")
	if err != nil {
		// Detached HEAD has no symbolic ref; that is not an error here.
		return "", nil
	}
	return strings.TrimSpace(ref), nil
}

// IsClean reports whether the worktree is clean.
func (s *CLIService) IsClean() (bool, error) {
	// Skip untracked files — we only need to know if anything tracked is
	// dirty, not the full list. On 100k-file repos this is 10x faster.
	out, err := s.run("status", "--porcelain", "--untracked-files=no", "--no-optional-locks")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

// IsMerging reports whether a merge is in progress.
func (s *CLIService) IsMerging() bool {
	// Fast path: check file existence directly — avoids spawning a subprocess.
	_, err := os.Stat(filepath.Join(s.gitDir, "MERGE_HEAD"))
	return err == nil
}

// IsRebasing reports whether a rebase is in progress.
func (s *CLIService) IsRebasing() bool {
	// Fast path: check directory existence directly — avoids spawning subprocesses.
	for _, sub := range []string{"rebase-merge", "rebase-apply"} {
		if info, err := os.Stat(filepath.Join(s.gitDir, sub)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// AheadBehind returns how many commits ahead/behind the upstream.
func (s *CLIService) AheadBehind() (int, int, error) {
	out, err := s.run("rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return 0, 0, nil //nolint:nilerr // no upstream is not an error
	}
	parts := strings.Fields(strings.TrimSpace(out))
	if len(parts) != 2 {
		return 0, 0, nil
	}
	var ahead, behind int
	_, _ = fmt.Sscan(parts[0], &ahead)
	_, _ = fmt.Sscan(parts[1], &behind)
	return ahead, behind, nil
}

// Upstream returns the upstream tracking branch name.
func (s *CLIService) Upstream() string {
	out, err := s.run("rev-parse", "--abbrev-ref", "@{upstream}")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ── Status & staging ────────────────────────────────────────────────────────

// Status returns the current working tree status.
func (s *CLIService) Status() (*StatusResult, error) {
	// --no-optional-locks: don't acquire index.lock for reads.
	// --porcelain=v1 -z: machine-parseable, NUL-delimited.
	// -unormal scans only one level deep for untracked files in large repos.
	out, err := s.run("status", "--porcelain=v1", "-z",
		"--no-optional-locks", "--untracked-files=normal")
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}
	return ParseStatusOutput(out), nil
}

// Stage stages the given paths.
func (s *CLIService) Stage(paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	_, err := s.runWrite(args...)
	return err
}

// StageAll stages all changes.
func (s *CLIService) StageAll() error { _, err := s.runWrite("add", "-A"); return err }

// Unstage unstages the given paths.
func (s *CLIService) Unstage(paths ...string) error {
	args := append([]string{"reset", "HEAD", "--"}, paths...)
	_, err := s.runWrite(args...)
	return err
}

// UnstageAll unstages all changes.
func (s *CLIService) UnstageAll() error { _, err := s.runWrite("reset", "HEAD"); return err }

// Discard discards worktree changes for the given paths.
func (s *CLIService) Discard(paths ...string) error {
	args := append([]string{"checkout", "--"}, paths...)
	_, err := s.runWrite(args...)
	return err
}

// CleanUntracked deletes untracked files. Discarding an untracked file
// means removing it; checkout has nothing to restore.
func (s *CLIService) CleanUntracked(paths ...string) error {
	args := append([]string{"clean", "-f", "--"}, paths...)
	_, err := s.runWrite(args...)
	return err
}

// MarkResolved marks a conflicted path as resolved by staging it.
func (s *CLIService) MarkResolved(path string) error {
	_, err := s.runWrite("add", "--", path)
	return err
}

// ── Commits ─────────────────────────────────────────────────────────────────

// Commit creates a new commit with the given message.
func (s *CLIService) Commit(message string) error {
	_, err := s.runWrite("commit", "-m", message)
	return err
}

// CommitAmend amends the last commit with the given message.
func (s *CLIService) CommitAmend(message string) error {
	_, err := s.runWrite("commit", "--amend", "-m", message)
	return err
}

// LastMessage returns the full message of the HEAD commit.
func (s *CLIService) LastMessage() (string, error) {
	out, err := s.run("log", "-1", "--pretty=%B")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ── Content ─────────────────────────────────────────────────────────────────

// Diff returns the diff for a path (index side when staged is true).
func (s *CLIService) Diff(staged bool, path string) (string, error) {
	args := []string{"diff", "--color=never", "--no-optional-locks", "--no-ext-diff"}
	if s.diffContext > 0 {
		args = append(args, fmt.Sprintf("-U%d", s.diffContext))
	}
	if staged {
		args = append(args, "--cached")
	}
	if path != "" {
		args = append(args, "--", path)
	}
	out, err := s.run(args...)
	if err != nil {
		return "", err
	}
	return out, nil
}

// FileContents reads a worktree file relative to the repository root.
// Used for paths git has no diff for (untracked files).
func (s *CLIService) FileContents(path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.root, path))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// ── Sync ────────────────────────────────────────────────────────────────────

// Push pushes the current branch to its upstream.
func (s *CLIService) Push(force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "--force-with-lease")
	}
	_, err := s.runWrite(args...)
	return err
}

// Pull pulls the current branch from its upstream.
func (s *CLIService) Pull() error { _, err := s.runWrite("pull"); return err }

// Fetch fetches from the default remote.
func (s *CLIService) Fetch() error { _, err := s.runWrite("fetch"); return err }

// ── Stash ───────────────────────────────────────────────────────────────────

// StashList returns stash entries.
func (s *CLIService) StashList() ([]StashEntry, error) {
	out, err := s.run("stash", "list")
	if err != nil {
		return nil, err
	}
	return ParseStashList(out), nil
}

// StashPush saves a new stash entry.
func (s *CLIService) StashPush(message string) error {
	args := []string{"stash", "push"}
	if message != "" {
		args = append(args, "-m", message)
	}
	_, err := s.runWrite(args...)
	return err
}

// StashPop pops the stash at the given index.
func (s *CLIService) StashPop(index int) error {
	_, err := s.runWrite("stash", "pop", fmt.Sprintf("stash@{%d}", index))
	return err
}

// StashApply applies the stash at the given index.
func (s *CLIService) StashApply(index int) error {
	_, err := s.runWrite("stash", "apply", fmt.Sprintf("stash@{%d}", index))
	return err
}

// StashDrop drops the stash at the given index.
func (s *CLIService) StashDrop(index int) error {
	_, err := s.runWrite("stash", "drop", fmt.Sprintf("stash@{%d}", index))
	return err
}

// StashShow shows the diff for a stash entry.
func (s *CLIService) StashShow(index int) (string, error) {
	return s.run("stash", "show", "-p", fmt.Sprintf("stash@{%d}", index))
}
