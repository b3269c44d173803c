package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
	"ngosocial/internal/store"
	"ngosocial/internal/testutil"
	"ngosocial/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingVoteStore holds every ToggleVote until release is closed.
type blockingVoteStore struct {
	calls    atomic.Int32
	inflight atomic.Int32
	maxSeen  atomic.Int32
	entered  chan struct{}
	release  chan struct{}
	once     sync.Once
}

func newBlockingVoteStore() *blockingVoteStore {
	return &blockingVoteStore{entered: make(chan struct{}), release: make(chan struct{})}
}

func (s *blockingVoteStore) ToggleVote(ctx context.Context, target store.Target, voter engagement.Principal, want engagement.VoteType) (store.VoteResult, error) {
	s.calls.Add(1)
	n := s.inflight.Add(1)
	defer s.inflight.Add(-1)
	for {
		m := s.maxSeen.Load()
		if n <= m || s.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return store.VoteResult{
		State:  engagement.StateOf(want),
		Action: engagement.VoteCreate,
		Root:   target,
	}, nil
}

type recordingScheduler struct {
	mu    sync.Mutex
	roots []store.Target
}

func (r *recordingScheduler) ScheduleUpdate(root store.Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots = append(r.roots, root)
}

func TestDuplicateTogglesAreCoalesced(t *testing.T) {
	fake := newBlockingVoteStore()
	v := NewVoter(fake, nil, nil, zap.NewNop())
	target := store.Target{Type: models.TargetPost, ID: "p1"}
	ctx := context.Background()

	results := make([]store.VoteResult, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = v.Toggle(ctx, target, engagement.User("u1"), engagement.Upvote)
	}()
	<-fake.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = v.Toggle(ctx, target, engagement.User("u1"), engagement.Upvote)
	}()
	// let the second request join the in-flight call
	time.Sleep(100 * time.Millisecond)
	close(fake.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), fake.calls.Load())
	assert.Equal(t, results[0], results[1])
}

func TestDifferentTogglesAreSerialized(t *testing.T) {
	fake := newBlockingVoteStore()
	v := NewVoter(fake, nil, nil, zap.NewNop())
	target := store.Target{Type: models.TargetIssue, ID: "i1"}
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, want := range []engagement.VoteType{engagement.Upvote, engagement.Downvote} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := v.Toggle(ctx, target, engagement.Ngo("n1"), want)
			assert.NoError(t, err)
		}()
	}
	<-fake.entered
	time.Sleep(50 * time.Millisecond)
	close(fake.release)
	wg.Wait()

	assert.Equal(t, int32(2), fake.calls.Load())
	assert.Equal(t, int32(1), fake.maxSeen.Load(), "toggles of one principal on one target must not overlap")
}

func TestToggleReturnsWhenCallerGivesUp(t *testing.T) {
	fake := newBlockingVoteStore()
	v := NewVoter(fake, nil, nil, zap.NewNop())
	target := store.Target{Type: models.TargetPost, ID: "p1"}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := v.Toggle(ctx, target, engagement.User("u1"), engagement.Upvote)
		done <- err
	}()
	<-fake.entered
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// the write itself still completes
	close(fake.release)
	assert.Eventually(t, func() bool { return fake.inflight.Load() == 0 }, time.Second, 10*time.Millisecond)
}

func TestToggleInvalidatesAndReschedules(t *testing.T) {
	conn := testutil.NewDB(t)
	s := store.New(conn)
	ctx := context.Background()

	post := &models.Post{Title: "t", Description: "d", OwnUserID: strPtr("owner")}
	require.NoError(t, s.CreatePost(ctx, post))

	cache := utils.NewCache(10)
	key := utils.GraphKey(models.TargetPost, post.ID)
	cache.Set(key, "stale", time.Minute)
	sched := &recordingScheduler{}
	v := NewVoter(s, sched, cache, zap.NewNop())

	res, err := v.Toggle(ctx, store.Target{Type: models.TargetPost, ID: post.ID}, engagement.Ngo("n1"), engagement.Upvote)
	require.NoError(t, err)
	assert.Equal(t, engagement.VoteCreate, res.Action)
	assert.Nil(t, cache.Get(key))
	assert.Equal(t, []store.Target{{Type: models.TargetPost, ID: post.ID}}, sched.roots)

	// NoVote -> UPVOTE -> NoVote
	res, err = v.Toggle(ctx, store.Target{Type: models.TargetPost, ID: post.ID}, engagement.Ngo("n1"), engagement.Upvote)
	require.NoError(t, err)
	assert.Equal(t, engagement.VoteDelete, res.Action)
	n, err := s.CountVotes(ctx, store.Target{Type: models.TargetPost, ID: post.ID}, engagement.Upvote)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// gatedVoteStore holds the first ToggleVote on the real store until release is closed.
type gatedVoteStore struct {
	*store.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedVoteStore) ToggleVote(ctx context.Context, target store.Target, voter engagement.Principal, want engagement.VoteType) (store.VoteResult, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.Store.ToggleVote(ctx, target, voter, want)
}

func TestConcurrentUpvotesWriteOneRow(t *testing.T) {
	conn := testutil.NewDB(t)
	s := store.New(conn)
	ctx := context.Background()
	testutil.CreateUser(t, conn, "u1")
	post := &models.Post{Title: "t", Description: "d", OwnUserID: strPtr("u1")}
	require.NoError(t, s.CreatePost(ctx, post))

	gated := &gatedVoteStore{Store: s, entered: make(chan struct{}), release: make(chan struct{})}
	v := NewVoter(gated, nil, nil, zap.NewNop())
	target := store.Target{Type: models.TargetPost, ID: post.ID}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = v.Toggle(ctx, target, engagement.User("u1"), engagement.Upvote)
	}()
	<-gated.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[1] = v.Toggle(ctx, target, engagement.User("u1"), engagement.Upvote)
	}()
	time.Sleep(100 * time.Millisecond)
	close(gated.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	var rows int64
	require.NoError(t, conn.Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ?", models.TargetPost, post.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}
