package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/gitdeck/internal/domain/models"
	domainservice "github.com/bravo68web/gitdeck/internal/domain/service"
	apperrors "github.com/bravo68web/gitdeck/pkg/errors"
)

// fakeGitService scripts the Commits collaborator. When block is non-nil a
// call waits on it after signalling started, which lets tests hold one load
// in flight while issuing another.
type fakeGitService struct {
	mu        sync.Mutex
	calls     int
	lastLimit int
	lastRevs  []string
	result    []*models.Commit
	err       error
	block     chan struct{}
	started   chan struct{}
}

func (f *fakeGitService) Commits(ctx context.Context, repoPath string, limit int, revisions ...string) ([]*models.Commit, error) {
	f.mu.Lock()
	f.calls++
	f.lastLimit = limit
	f.lastRevs = revisions
	result, err, block, started := f.result, f.err, f.block, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return result, err
}

func (f *fakeGitService) Branches(ctx context.Context, repoPath string) ([]*models.Branch, error) {
	return nil, errors.New("not scripted")
}

func (f *fakeGitService) CurrentBranch(ctx context.Context, repoPath string) (*models.Branch, error) {
	return nil, errors.New("not scripted")
}

func (f *fakeGitService) Reset(ctx context.Context, repoPath string, mode domainservice.ResetMode, ref string) error {
	return errors.New("not scripted")
}

func (f *fakeGitService) DeleteBranch(ctx context.Context, repoPath, name string) error {
	return errors.New("not scripted")
}

func (f *fakeGitService) setResult(commits []*models.Commit, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = commits
	f.err = err
}

func (f *fakeGitService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeGitService) lastCall() (int, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastLimit, f.lastRevs
}

func makeCommits(names ...string) []*models.Commit {
	commits := make([]*models.Commit, len(names))
	for i, name := range names {
		// Padded stand-in SHAs; only uniqueness matters to the cache.
		commits[i] = models.NewCommit(
			name+strings.Repeat("0", 40-len(name)),
			"commit "+name,
			models.CommitIdentity{Name: "Test", Email: "test@example.com", Date: time.Unix(1700000000, 0)},
			nil,
		)
	}
	return commits
}

func shasOf(commits []*models.Commit) []string {
	shas := make([]string, len(commits))
	for i, c := range commits {
		shas[i] = c.SHA
	}
	return shas
}

func TestLoadHistoryInitial(t *testing.T) {
	fake := &fakeGitService{}
	svc := NewHistoryService("/repo", fake)

	batch := makeCommits("c0", "c1", "c2")
	fake.setResult(batch, nil)

	var gotNew []*models.Commit
	var updates int
	svc.OnDidLoadNewCommits(func(commits []*models.Commit) { gotNew = commits })
	svc.OnDidUpdate(func() { updates++ })

	svc.LoadHistory(context.Background())

	assert.Equal(t, shasOf(batch), svc.History())
	assert.Equal(t, 3, svc.CommitCount())
	assert.Equal(t, batch, gotNew)
	assert.Equal(t, 1, updates)

	limit, revs := fake.lastCall()
	assert.Equal(t, 100, limit)
	assert.Equal(t, []string{"HEAD"}, revs)
}

func TestLoadHistorySplicesNewPrefix(t *testing.T) {
	fake := &fakeGitService{}
	svc := NewHistoryService("/repo", fake)

	old := makeCommits("c0", "c1", "c2")
	fake.setResult(old, nil)
	svc.LoadHistory(context.Background())

	// n0 and n1 are new; c0 reappears at index 2 so the earlier history is
	// trusted from there on.
	fresh := makeCommits("n0", "n1", "c0", "c1", "c2")
	fake.setResult(fresh, nil)
	svc.LoadHistory(context.Background())

	assert.Equal(t, shasOf(fresh), svc.History())
	assert.Equal(t, 5, svc.CommitCount())
}

func TestLoadHistoryDiscardsDivergedHistory(t *testing.T) {
	fake := &fakeGitService{}
	svc := NewHistoryService("/repo", fake)

	fake.setResult(makeCommits("c0", "c1", "c2"), nil)
	svc.LoadHistory(context.Background())

	rewritten := makeCommits("x0", "x1")
	fake.setResult(rewritten, nil)
	svc.LoadHistory(context.Background())

	assert.Equal(t, shasOf(rewritten), svc.History())
}

func TestLoadHistoryDeduplicatesConcurrentLoads(t *testing.T) {
	fake := &fakeGitService{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	svc := NewHistoryService("/repo", fake)
	fake.setResult(makeCommits("c0"), nil)

	var newBatches, updates atomic.Int32
	svc.OnDidLoadNewCommits(func([]*models.Commit) { newBatches.Add(1) })
	svc.OnDidUpdate(func() { updates.Add(1) })

	done := make(chan struct{})
	go func() {
		svc.LoadHistory(context.Background())
		close(done)
	}()

	// Wait until the first load is inside the collaborator, then issue a
	// second load, which must back off without touching the collaborator.
	<-fake.started
	svc.LoadHistory(context.Background())
	close(fake.block)
	<-done

	assert.Equal(t, 1, fake.callCount())
	assert.Equal(t, int32(1), newBatches.Load())
	assert.Equal(t, int32(1), updates.Load())
}

func TestLoadNextHistoryBatchAppendsOlderCommits(t *testing.T) {
	fake := &fakeGitService{}
	svc := NewHistoryService("/repo", fake)

	head := makeCommits("c0", "c1", "c2")
	fake.setResult(head, nil)
	svc.LoadHistory(context.Background())

	// The continuation starts at the last known SHA; the leading duplicate
	// is dropped before appending.
	older := makeCommits("c2", "c3", "c4")
	fake.setResult(older, nil)
	svc.LoadNextHistoryBatch(context.Background())

	assert.Equal(t, shasOf(makeCommits("c0", "c1", "c2", "c3", "c4")), svc.History())
	assert.Equal(t, 5, svc.CommitCount())

	limit, revs := fake.lastCall()
	assert.Equal(t, 101, limit)
	assert.Equal(t, []string{head[2].SHA}, revs)
}

func TestLoadNextHistoryBatchNoOpOnEmptyHistory(t *testing.T) {
	fake := &fakeGitService{}
	svc := NewHistoryService("/repo", fake)

	svc.LoadNextHistoryBatch(context.Background())

	assert.Equal(t, 0, fake.callCount())
	assert.Empty(t, svc.History())
}

func TestLoadNextHistoryBatchFailureLeavesStateUntouched(t *testing.T) {
	fake := &fakeGitService{}
	svc := NewHistoryService("/repo", fake)

	fake.setResult(makeCommits("c0", "c1"), nil)
	svc.LoadHistory(context.Background())

	before := svc.History()
	beforeCount := svc.CommitCount()

	var errCount int
	var lastErr error
	svc.OnDidError(func(err error) {
		errCount++
		lastErr = err
	})

	fake.setResult(nil, errors.New("exit status 128"))
	svc.LoadNextHistoryBatch(context.Background())

	assert.Equal(t, before, svc.History())
	assert.Equal(t, beforeCount, svc.CommitCount())
	assert.Equal(t, 1, errCount)
	assert.True(t, apperrors.IsGit(lastErr))
}

func TestLoadLocalCommitsWithUpstream(t *testing.T) {
	fake := &fakeGitService{}
	svc := NewHistoryService("/repo", fake)

	local := makeCommits("l0", "l1")
	fake.setResult(local, nil)

	svc.LoadLocalCommits(context.Background(), &models.Branch{
		Name:     "main",
		Upstream: "origin/main",
	})

	_, revs := fake.lastCall()
	assert.Equal(t, []string{"origin/main..main"}, revs)
	assert.Equal(t, shasOf(local), svc.LocalCommitSHAs())
	assert.Empty(t, svc.History())
}

func TestLoadLocalCommitsWithoutUpstream(t *testing.T) {
	fake := &fakeGitService{}
	svc := NewHistoryService("/repo", fake)

	fake.setResult(makeCommits("l0"), nil)
	svc.LoadLocalCommits(context.Background(), &models.Branch{Name: "topic"})

	_, revs := fake.lastCall()
	assert.Equal(t, []string{"HEAD", "--not", "--remotes"}, revs)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	fake := &fakeGitService{}
	svc := NewHistoryService("/repo", fake)
	fake.setResult(makeCommits("c0"), nil)

	var updates int
	unsubscribe := svc.OnDidUpdate(func() { updates++ })

	svc.LoadHistory(context.Background())
	require.Equal(t, 1, updates)

	unsubscribe()
	svc.LoadHistory(context.Background())
	assert.Equal(t, 1, updates)
}

func TestNotificationOrderNewCommitsBeforeUpdate(t *testing.T) {
	fake := &fakeGitService{}
	svc := NewHistoryService("/repo", fake)
	fake.setResult(makeCommits("c0"), nil)

	var order []string
	svc.OnDidLoadNewCommits(func([]*models.Commit) { order = append(order, "commits") })
	svc.OnDidUpdate(func() { order = append(order, "update") })

	svc.LoadHistory(context.Background())

	assert.Equal(t, []string{"commits", "update"}, order)
}
