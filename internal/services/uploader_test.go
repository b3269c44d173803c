package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// fakeObjectStore fails Put for bodies in failOn. A failing Put waits until
// waitFor other puts have succeeded, so the set of written objects is fixed.
type fakeObjectStore struct {
	mu        sync.Mutex
	puts      []string
	deletes   []string
	failOn    map[string]bool
	waitFor   int
	ready     chan struct{}
	deleteErr error
}

func newFakeObjectStore(waitFor int, failOn ...string) *fakeObjectStore {
	f := &fakeObjectStore{failOn: map[string]bool{}, waitFor: waitFor, ready: make(chan struct{})}
	for _, name := range failOn {
		f.failOn[name] = true
	}
	if waitFor == 0 {
		close(f.ready)
	}
	return f
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if f.failOn[string(body)] {
		<-f.ready
		return errors.New("storage unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, key)
	if len(f.puts) == f.waitFor {
		close(f.ready)
	}
	return nil
}

func (f *fakeObjectStore) URLFor(key string) string { return "https://cdn.test/" + key }

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return f.deleteErr
}

func (f *fakeObjectStore) snapshot() (puts, deletes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	puts = append([]string(nil), f.puts...)
	deletes = append([]string(nil), f.deletes...)
	sort.Strings(puts)
	sort.Strings(deletes)
	return puts, deletes
}

func memFile(name string) File {
	body := strings.TrimSuffix(name, ".jpg")
	return File{
		Name:        name,
		ContentType: "image/jpeg",
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestUploadFailureCompensates(t *testing.T) {
	defer goleak.VerifyNone(t)

	objects := newFakeObjectStore(2, "c")
	u := NewUploader(objects, 3, 10, 2, zap.NewNop())

	created := false
	err := u.CreateWithMedia(context.Background(), "posts", engagement.User("u1"),
		[]File{memFile("a.jpg"), memFile("b.jpg"), memFile("c.jpg")},
		func([]models.Media) error {
			created = true
			return nil
		})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrUpstream))
	assert.False(t, created, "entity must not be created when an upload fails")

	puts, deletes := objects.snapshot()
	assert.Len(t, puts, 2)
	assert.Equal(t, puts, deletes, "every written object is deleted")
}

func TestCreateFailureCompensates(t *testing.T) {
	objects := newFakeObjectStore(0)
	u := NewUploader(objects, 2, 10, 2, zap.NewNop())

	createErr := apperr.Validation("bad title")
	err := u.CreateWithMedia(context.Background(), "campaigns", engagement.Ngo("n1"),
		[]File{memFile("a.jpg"), memFile("b.jpg")},
		func(media []models.Media) error {
			assert.Len(t, media, 2)
			return createErr
		})

	assert.ErrorIs(t, err, createErr)
	puts, deletes := objects.snapshot()
	assert.Len(t, puts, 2)
	assert.Equal(t, puts, deletes)
}

func TestUploadKeepsOrderAndKeys(t *testing.T) {
	objects := newFakeObjectStore(0)
	u := NewUploader(objects, 2, 10, 0, zap.NewNop())

	media, err := u.Upload(context.Background(), "issues", engagement.Ngo("n1"),
		[]File{memFile("a.jpg"), memFile("b.PNG")})
	require.NoError(t, err)
	require.Len(t, media, 2)

	assert.True(t, strings.HasPrefix(media[0].Key, "issues/ngo/n1/"))
	assert.True(t, strings.HasSuffix(media[0].Key, ".jpg"))
	assert.True(t, strings.HasSuffix(media[1].Key, ".png"))
	assert.Equal(t, "https://cdn.test/"+media[0].Key, media[0].URL)
	assert.Equal(t, "image", media[0].Type)
	assert.NotEqual(t, media[0].Key, media[1].Key)
}

func TestUploadRejectsTooManyFiles(t *testing.T) {
	objects := newFakeObjectStore(0)
	u := NewUploader(objects, 2, 1, 0, zap.NewNop())

	_, err := u.Upload(context.Background(), "posts", engagement.User("u1"),
		[]File{memFile("a.jpg"), memFile("b.jpg")})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	puts, _ := objects.snapshot()
	assert.Empty(t, puts)
}

func TestCompensateReportsFailedKeys(t *testing.T) {
	objects := newFakeObjectStore(0)
	objects.deleteErr = errors.New("permission denied")
	u := NewUploader(objects, 2, 10, 2, zap.NewNop())

	failed := u.compensate(context.Background(), []string{"k1", "k2"})
	sort.Strings(failed)
	assert.Equal(t, []string{"k1", "k2"}, failed)

	_, deletes := objects.snapshot()
	// one attempt plus two retries per key
	assert.Len(t, deletes, 6)
}

func TestCompensateSurvivesCanceledRequest(t *testing.T) {
	objects := newFakeObjectStore(0)
	u := NewUploader(objects, 2, 10, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	failed := u.compensate(ctx, []string{"k1"})
	assert.Empty(t, failed)
	_, deletes := objects.snapshot()
	assert.Equal(t, []string{"k1"}, deletes)
}
