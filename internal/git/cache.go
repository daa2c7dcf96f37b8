package git

import (
	"sync"
	"time"
)

// CachedService wraps a Service implementation with a TTL-based cache for
// expensive read operations. Write operations (Stage, Commit, etc.)
// automatically invalidate the cache so the next read is fresh.
//
// This is critical for monorepo performance: the panel and the status
// bar both request overlapping data (Status, Head, AheadBehind, etc.)
// within the same refresh cycle. Without caching, a single refresh event
// could spawn a dozen git subprocesses. With caching, it spawns a few.
//
// The cache is bounded by maxCacheEntries to prevent unbounded memory
// growth across long-running sessions.
type CachedService struct {
	inner Service
	ttl   time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// maxCacheEntries caps the number of entries in the cache. When exceeded,
// the entire cache is flushed (simple but effective — the TTL is short
// so this only happens if something is wrong).
const maxCacheEntries = 64

type cacheEntry struct {
	val    interface{}
	err    error
	expiry time.Time
}

// Compile-time check.
var _ Service = (*CachedService)(nil)

// NewCachedService wraps an existing Service with a TTL cache.
// Recommended TTL: 1-2 seconds. This ensures that within a single
// refresh cycle (which triggers multiple git queries), each query
// only hits git once.
func NewCachedService(inner Service, ttl time.Duration) *CachedService {
	return &CachedService{
		inner: inner,
		ttl:   ttl,
		cache: make(map[string]cacheEntry, 16),
	}
}

// Invalidate clears all cached entries. Called after any write operation.
func (c *CachedService) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry, 16)
	c.mu.Unlock()
}

func (c *CachedService) get(key string) (val interface{}, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.cache[key]
	if !found || time.Now().After(e.expiry) {
		return nil, false, nil
	}
	return e.val, true, e.err
}

func (c *CachedService) set(key string, val interface{}, err error) {
	c.mu.Lock()
	// Evict expired entries if the cache is getting large.
	if len(c.cache) >= maxCacheEntries {
		now := time.Now()
		for k, e := range c.cache {
			if now.After(e.expiry) {
				delete(c.cache, k)
			}
		}
		// If still over limit after eviction, flush entirely.
		if len(c.cache) >= maxCacheEntries {
			c.cache = make(map[string]cacheEntry, 16)
		}
	}
	c.cache[key] = cacheEntry{val: val, err: err, expiry: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// invalidateAndReturn is a helper for write methods.
func (c *CachedService) invalidateAndReturn(err error) error {
	if err == nil {
		c.Invalidate()
	}
	return err
}

// ── Repository info (cached reads) ──────────────────────────────────────────

// RepoRoot delegates to the inner service.
func (c *CachedService) RepoRoot() string { return c.inner.RepoRoot() }

// GitDir delegates to the inner service.
func (c *CachedService) GitDir() string { return c.inner.GitDir() }

// Head returns the current HEAD commit (cached).
func (c *CachedService) Head() (string, error) {
	if v, ok, err := c.get("head"); ok {
		return v.(string), err
	}
	v, err := c.inner.Head()
	c.set("head", v, err)
	return v, err
}

// Branch returns the current branch name (cached).
func (c *CachedService) Branch() (string, error) {
	if v, ok, err := c.get("branch"); ok {
		return v.(string), err
	}
	v, err := c.inner.Branch()
	c.set("branch", v, err)
	return v, err
}

// IsClean reports whether the worktree is clean (cached).
func (c *CachedService) IsClean() (bool, error) {
	if v, ok, err := c.get("isclean"); ok {
		return v.(bool), err
	}
	v, err := c.inner.IsClean()
	c.set("isclean", v, err)
	return v, err
}

// IsMerging delegates to the inner service (cached).
func (c *CachedService) IsMerging() bool {
	if v, ok, _ := c.get("ismerging"); ok {
		return v.(bool)
	}
	v := c.inner.IsMerging()
	c.set("ismerging", v, nil)
	return v
}

// IsRebasing delegates to the inner service (cached).
func (c *CachedService) IsRebasing() bool {
	if v, ok, _ := c.get("isrebasing"); ok {
		return v.(bool)
	}
	v := c.inner.IsRebasing()
	c.set("isrebasing", v, nil)
	return v
}

// AheadBehind delegates to the inner service (cached).
func (c *CachedService) AheadBehind() (int, int, error) {
	type ab struct{ a, b int }
	if v, ok, err := c.get("aheadbehind"); ok {
		r := v.(ab)
		return r.a, r.b, err
	}
	a, b, err := c.inner.AheadBehind()
	c.set("aheadbehind", ab{a, b}, err)
	return a, b, err
}

// Upstream delegates to the inner service (cached).
func (c *CachedService) Upstream() string {
	if v, ok, _ := c.get("upstream"); ok {
		return v.(string)
	}
	v := c.inner.Upstream()
	c.set("upstream", v, nil)
	return v
}

// ── Status (cached) ─────────────────────────────────────────────────────────

// Status delegates to the inner service (cached).
func (c *CachedService) Status() (*StatusResult, error) {
	if v, ok, err := c.get("status"); ok {
		return v.(*StatusResult), err
	}
	v, err := c.inner.Status()
	c.set("status", v, err)
	return v, err
}

// ── Write operations (invalidate cache) ─────────────────────────────────────

// Stage stages paths and invalidates the cache.
func (c *CachedService) Stage(paths ...string) error {
	return c.invalidateAndReturn(c.inner.Stage(paths...))
}

// StageAll stages all changes and invalidates the cache.
func (c *CachedService) StageAll() error {
	return c.invalidateAndReturn(c.inner.StageAll())
}

// Unstage unstages paths and invalidates the cache.
func (c *CachedService) Unstage(paths ...string) error {
	return c.invalidateAndReturn(c.inner.Unstage(paths...))
}

// UnstageAll unstages all paths and invalidates the cache.
func (c *CachedService) UnstageAll() error {
	return c.invalidateAndReturn(c.inner.UnstageAll())
}

// Discard discards changes in paths and invalidates the cache.
func (c *CachedService) Discard(paths ...string) error {
	return c.invalidateAndReturn(c.inner.Discard(paths...))
}

// CleanUntracked deletes untracked files and invalidates the cache.
func (c *CachedService) CleanUntracked(paths ...string) error {
	return c.invalidateAndReturn(c.inner.CleanUntracked(paths...))
}

// MarkResolved marks a conflict as resolved and invalidates the cache.
func (c *CachedService) MarkResolved(path string) error {
	return c.invalidateAndReturn(c.inner.MarkResolved(path))
}

// Commit creates a commit and invalidates the cache.
func (c *CachedService) Commit(message string) error {
	return c.invalidateAndReturn(c.inner.Commit(message))
}

// CommitAmend amends the last commit and invalidates the cache.
func (c *CachedService) CommitAmend(message string) error {
	return c.invalidateAndReturn(c.inner.CommitAmend(message))
}

// LastMessage returns the HEAD commit message (cached).
func (c *CachedService) LastMessage() (string, error) {
	if v, ok, err := c.get("lastmsg"); ok {
		return v.(string), err
	}
	v, err := c.inner.LastMessage()
	c.set("lastmsg", v, err)
	return v, err
}

// ── Content (not cached — large and per-file) ───────────────────────────────

// Diff delegates to the inner service (not cached).
func (c *CachedService) Diff(staged bool, path string) (string, error) {
	return c.inner.Diff(staged, path)
}

// FileContents delegates to the inner service (not cached).
func (c *CachedService) FileContents(path string) (string, error) {
	return c.inner.FileContents(path)
}

// ── Sync (invalidate cache) ─────────────────────────────────────────────────

// Push pushes to the upstream and invalidates the cache.
func (c *CachedService) Push(force bool) error {
	return c.invalidateAndReturn(c.inner.Push(force))
}

// Pull pulls from the upstream and invalidates the cache.
func (c *CachedService) Pull() error {
	return c.invalidateAndReturn(c.inner.Pull())
}

// Fetch fetches from the default remote and invalidates the cache.
func (c *CachedService) Fetch() error {
	return c.invalidateAndReturn(c.inner.Fetch())
}

// ── Stash (cached list, invalidate on mutation) ─────────────────────────────

// StashList delegates to the inner service (cached).
func (c *CachedService) StashList() ([]StashEntry, error) {
	if v, ok, err := c.get("stashlist"); ok {
		return v.([]StashEntry), err
	}
	v, err := c.inner.StashList()
	c.set("stashlist", v, err)
	return v, err
}

// StashPush saves to stash and invalidates the cache.
func (c *CachedService) StashPush(message string) error {
	return c.invalidateAndReturn(c.inner.StashPush(message))
}

// StashPop pops a stash entry and invalidates the cache.
func (c *CachedService) StashPop(index int) error {
	return c.invalidateAndReturn(c.inner.StashPop(index))
}

// StashApply applies a stash entry and invalidates the cache.
func (c *CachedService) StashApply(index int) error {
	return c.invalidateAndReturn(c.inner.StashApply(index))
}

// StashDrop drops a stash entry and invalidates the cache.
func (c *CachedService) StashDrop(index int) error {
	return c.invalidateAndReturn(c.inner.StashDrop(index))
}

// StashShow delegates to the inner service (not cached).
func (c *CachedService) StashShow(index int) (string, error) {
	return c.inner.StashShow(index)
}
