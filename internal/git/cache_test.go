package git

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingService implements only the methods the cache tests exercise;
// anything else panics through the embedded nil interface.
type countingService struct {
	Service
	statusCalls int
	headCalls   int
	stageCalls  int
}

func (s *countingService) Status() (*StatusResult, error) {
	s.statusCalls++
	return &StatusResult{Unstaged: []FileStatus{{Worktree: StatusModified, Path: "a.txt"}}}, nil
}

func (s *countingService) Head() (string, error) {
	s.headCalls++
	return "abc1234", nil
}

func (s *countingService) Stage(paths ...string) error {
	s.stageCalls++
	return nil
}

func TestCachedService_ReadsAreCached(t *testing.T) {
	t.Parallel()

	inner := &countingService{}
	cached := NewCachedService(inner, time.Minute)

	for range 3 {
		result, err := cached.Status()
		require.NoError(t, err)
		require.Len(t, result.Unstaged, 1)
	}
	assert.Equal(t, 1, inner.statusCalls)

	for range 3 {
		head, err := cached.Head()
		require.NoError(t, err)
		assert.Equal(t, "abc1234", head)
	}
	assert.Equal(t, 1, inner.headCalls)
}

func TestCachedService_WriteInvalidates(t *testing.T) {
	t.Parallel()

	inner := &countingService{}
	cached := NewCachedService(inner, time.Minute)

	_, err := cached.Status()
	require.NoError(t, err)
	require.NoError(t, cached.Stage("a.txt"))
	_, err = cached.Status()
	require.NoError(t, err)

	assert.Equal(t, 1, inner.stageCalls)
	assert.Equal(t, 2, inner.statusCalls, "stage must flush the status cache")
}

func TestCachedService_TTLExpiry(t *testing.T) {
	t.Parallel()

	inner := &countingService{}
	cached := NewCachedService(inner, 10*time.Millisecond)

	_, err := cached.Status()
	require.NoError(t, err)
	time.Sleep(25 * time.Millisecond)
	_, err = cached.Status()
	require.NoError(t, err)

	assert.Equal(t, 2, inner.statusCalls)
}
