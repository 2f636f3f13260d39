package service

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/bravo68web/gitdeck/internal/domain/models"
	domainservice "github.com/bravo68web/gitdeck/internal/domain/service"
	apperrors "github.com/bravo68web/gitdeck/pkg/errors"
	"github.com/bravo68web/gitdeck/pkg/logger"
)

const (
	// historyBatchSize is the number of commits fetched per load
	historyBatchSize = 100

	// historyRequestKey guards whole-history loads from HEAD
	historyRequestKey = "history"
)

// batchRequestKey guards the continuation load past a specific SHA,
// independently of a concurrent whole-history load
func batchRequestKey(sha string) string {
	return historyRequestKey + "/" + sha
}

// HistoryService maintains the in-memory commit cache for one open
// repository: a SHA-keyed commit map and the ordered traversal from HEAD,
// loaded incrementally from the git collaborator.
//
// Failures of the collaborator never propagate to callers: every load is
// wrapped by a guarded call that downgrades the failure to an error
// notification and leaves all cached state untouched.
type HistoryService struct {
	repoPath string
	git      domainservice.GitService
	log      *logger.Logger

	mu              sync.Mutex
	commits         map[string]*models.Commit
	history         []string
	localCommitSHAs []string
	inFlight        map[string]struct{}

	updateListeners     map[uuid.UUID]func()
	newCommitsListeners map[uuid.UUID]func([]*models.Commit)
	errorListeners      map[uuid.UUID]func(error)
}

// NewHistoryService creates the commit cache for one repository path
func NewHistoryService(repoPath string, git domainservice.GitService) *HistoryService {
	return &HistoryService{
		repoPath: repoPath,
		git:      git,
		log: logger.Get().WithFields(
			logger.Component("history"),
			logger.Repository(repoPath),
		),
		commits:             make(map[string]*models.Commit),
		inFlight:            make(map[string]struct{}),
		updateListeners:     make(map[uuid.UUID]func()),
		newCommitsListeners: make(map[uuid.UUID]func([]*models.Commit)),
		errorListeners:      make(map[uuid.UUID]func(error)),
	}
}

// LoadHistory (re)loads one batch of history from the current HEAD.
//
// If a whole-history load is already in flight the call is a no-op, so
// rapid refresh events collapse into a single traversal. When non-empty
// history already exists, the old tip is searched for in the new batch: if
// found, the batch up to that point is spliced in front of the existing
// sequence unchanged; if not, history has diverged beyond one batch and the
// old sequence is discarded. A divergence deeper than one batch is
// indistinguishable from a full rewrite and treated as one.
func (s *HistoryService) LoadHistory(ctx context.Context) {
	if !s.beginRequest(historyRequestKey) {
		return
	}
	defer s.endRequest(historyRequestKey)

	commits, ok := performFailableOperation(s, "load history", func() ([]*models.Commit, error) {
		return s.git.Commits(ctx, s.repoPath, historyBatchSize, "HEAD")
	})
	if !ok {
		return
	}

	newSHAs := make([]string, len(commits))
	for i, c := range commits {
		newSHAs[i] = c.SHA
	}

	s.mu.Lock()
	if len(s.history) > 0 {
		tip := s.history[0]
		if i := slices.Index(newSHAs, tip); i >= 0 {
			// The old history is trusted beyond the intersection point.
			s.history = append(newSHAs[:i:i], s.history...)
		} else {
			s.history = newSHAs
		}
	} else {
		s.history = newSHAs
	}
	s.mergeCommitsLocked(commits)
	s.mu.Unlock()

	s.log.Debug("History loaded",
		logger.BatchSize(len(commits)),
	)

	s.emitNewCommits(commits)
	s.emitUpdate()
}

// LoadNextHistoryBatch appends the next older batch past the current last
// known SHA. It is a no-op when history is empty, when a whole-history load
// is in flight, or when the continuation for this exact SHA is already
// running.
func (s *HistoryService) LoadNextHistoryBatch(ctx context.Context) {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return
	}
	if _, busy := s.inFlight[historyRequestKey]; busy {
		s.mu.Unlock()
		return
	}
	last := s.history[len(s.history)-1]
	key := batchRequestKey(last)
	if _, busy := s.inFlight[key]; busy {
		s.mu.Unlock()
		return
	}
	s.inFlight[key] = struct{}{}
	s.mu.Unlock()
	defer s.endRequest(key)

	// The traversal starts at the last known SHA so a root commit ends the
	// walk cleanly; the leading duplicate is dropped below.
	commits, ok := performFailableOperation(s, "load next history batch", func() ([]*models.Commit, error) {
		return s.git.Commits(ctx, s.repoPath, historyBatchSize+1, last)
	})
	if !ok {
		return
	}

	if len(commits) > 0 && commits[0].SHA == last {
		commits = commits[1:]
	}

	s.mu.Lock()
	for _, c := range commits {
		s.history = append(s.history, c.SHA)
	}
	s.mergeCommitsLocked(commits)
	s.mu.Unlock()

	s.emitNewCommits(commits)
	s.emitUpdate()
}

// LoadLocalCommits loads the commits on a branch that have not been pushed
// to its upstream, or, without an upstream, the commits on HEAD not
// reachable from any remote branch. The result is a derived view kept apart
// from the main history sequence.
func (s *HistoryService) LoadLocalCommits(ctx context.Context, branch *models.Branch) {
	var revisions []string
	if branch != nil && branch.HasUpstream() {
		revisions = []string{branch.Upstream + ".." + branch.Name}
	} else {
		revisions = []string{"HEAD", "--not", "--remotes"}
	}

	commits, ok := performFailableOperation(s, "load local commits", func() ([]*models.Commit, error) {
		return s.git.Commits(ctx, s.repoPath, historyBatchSize, revisions...)
	})
	if !ok {
		return
	}

	shas := make([]string, len(commits))
	for i, c := range commits {
		shas[i] = c.SHA
	}

	s.mu.Lock()
	s.localCommitSHAs = shas
	s.mergeCommitsLocked(commits)
	s.mu.Unlock()

	s.emitUpdate()
}

// Branches returns all branches of the repository through the guarded-call
// boundary; an absent result means the collaborator failed and the error
// notification fired.
func (s *HistoryService) Branches(ctx context.Context) ([]*models.Branch, bool) {
	return performFailableOperation(s, "list branches", func() ([]*models.Branch, error) {
		return s.git.Branches(ctx, s.repoPath)
	})
}

// CurrentBranch returns the branch HEAD resolves to, or nil for a detached
// or unborn HEAD
func (s *HistoryService) CurrentBranch(ctx context.Context) (*models.Branch, bool) {
	return performFailableOperation(s, "resolve current branch", func() (*models.Branch, error) {
		return s.git.CurrentBranch(ctx, s.repoPath)
	})
}

// Reset moves the current branch to the given ref and reloads history on
// success
func (s *HistoryService) Reset(ctx context.Context, mode domainservice.ResetMode, ref string) bool {
	_, ok := performFailableOperation(s, "reset", func() (struct{}, error) {
		return struct{}{}, s.git.Reset(ctx, s.repoPath, mode, ref)
	})
	if !ok {
		return false
	}

	s.LoadHistory(ctx)
	return true
}

// DeleteBranch removes a local branch ref
func (s *HistoryService) DeleteBranch(ctx context.Context, name string) bool {
	_, ok := performFailableOperation(s, "delete branch", func() (struct{}, error) {
		return struct{}{}, s.git.DeleteBranch(ctx, s.repoPath, name)
	})
	if !ok {
		return false
	}

	s.emitUpdate()
	return true
}

// History returns a copy of the current traversal order from HEAD
func (s *HistoryService) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// LocalCommitSHAs returns a copy of the unpushed-commit view
func (s *HistoryService) LocalCommitSHAs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.localCommitSHAs)
}

// CommitBySHA returns a cached commit, if present
func (s *HistoryService) CommitBySHA(sha string) (*models.Commit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commits[sha]
	return c, ok
}

// CommitCount returns the number of cached commits
func (s *HistoryService) CommitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commits)
}

// OnDidUpdate registers a listener for the general update notification and
// returns its unsubscribe function
func (s *HistoryService) OnDidUpdate(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.updateListeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.updateListeners, id)
	}
}

// OnDidLoadNewCommits registers a listener for newly fetched commit batches
// and returns its unsubscribe function
func (s *HistoryService) OnDidLoadNewCommits(fn func([]*models.Commit)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.newCommitsListeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.newCommitsListeners, id)
	}
}

// OnDidError registers a listener for absorbed collaborator failures and
// returns its unsubscribe function
func (s *HistoryService) OnDidError(fn func(error)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.errorListeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.errorListeners, id)
	}
}

// performFailableOperation is the uniform error-isolation boundary: the
// operation runs, and on failure the error is reported through the error
// notification channel and an absent result returned. No collaborator
// failure propagates to a caller as a fault.
func performFailableOperation[T any](s *HistoryService, operation string, fn func() (T, error)) (T, bool) {
	result, err := fn()
	if err != nil {
		s.log.Warn("Git operation failed",
			logger.Operation(operation),
			logger.Error(err),
		)
		s.emitError(apperrors.GitError(operation, err))
		var zero T
		return zero, false
	}
	return result, true
}

// beginRequest marks a request key in flight; a false return means the same
// request is already running and the caller must back off
func (s *HistoryService) beginRequest(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *HistoryService) endRequest(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// mergeCommitsLocked upserts a batch into the commit map. Content for a
// given SHA is immutable, so later-wins is safe.
func (s *HistoryService) mergeCommitsLocked(commits []*models.Commit) {
	for _, c := range commits {
		s.commits[c.SHA] = c
	}
}

func (s *HistoryService) emitUpdate() {
	for _, fn := range s.snapshotUpdateListeners() {
		fn()
	}
}

func (s *HistoryService) emitNewCommits(commits []*models.Commit) {
	for _, fn := range s.snapshotNewCommitsListeners() {
		fn(commits)
	}
}

func (s *HistoryService) emitError(err error) {
	for _, fn := range s.snapshotErrorListeners() {
		fn(err)
	}
}

func (s *HistoryService) snapshotUpdateListeners() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func(), 0, len(s.updateListeners))
	for _, fn := range s.updateListeners {
		out = append(out, fn)
	}
	return out
}

func (s *HistoryService) snapshotNewCommitsListeners() []func([]*models.Commit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func([]*models.Commit), 0, len(s.newCommitsListeners))
	for _, fn := range s.newCommitsListeners {
		out = append(out, fn)
	}
	return out
}

func (s *HistoryService) snapshotErrorListeners() []func(error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func(error), 0, len(s.errorListeners))
	for _, fn := range s.errorListeners {
		out = append(out, fn)
	}
	return out
}
