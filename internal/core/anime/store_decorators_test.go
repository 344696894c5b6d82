package anime_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animes/internal/core/anime"
	"github.com/taibuivan/animes/internal/platform/apperr"
	"github.com/taibuivan/animes/internal/platform/cache"
	"github.com/taibuivan/animes/internal/platform/dberr"
	"github.com/taibuivan/animes/pkg/pointer"
)

func newMemoryCache(t *testing.T) cache.Cache {
	t.Helper()
	memory, err := cache.New(cache.ProviderMemory, cache.ProviderConfig{Size: 16, TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = memory.Close() })
	return memory
}

// # Cached

func TestCachedRepository_Contract(t *testing.T) {
	testRepositoryContract(t, func(t *testing.T) anime.Repository {
		return anime.NewCachedRepository(anime.NewMemoryRepository(), newMemoryCache(t), discardLogger())
	})
}

func TestCachedRepository_ServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	inner := newRecordingRepository()
	repository := anime.NewCachedRepository(inner, newMemoryCache(t), discardLogger())

	saved, err := repository.Save(ctx, &anime.Anime{Name: "Naruto"})
	require.NoError(t, err)
	callsAfterSave := inner.calls

	for range 3 {
		found, err := repository.FindByID(ctx, *saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "Naruto", found.Name)
	}
	assert.Equal(t, callsAfterSave, inner.calls)
}

// blockingRepository holds FindByID until release is closed.
type blockingRepository struct {
	*recordingRepository
	release chan struct{}
	lookups atomic.Int32
}

func (repository *blockingRepository) FindByID(ctx context.Context, id int) (*anime.Anime, error) {
	repository.lookups.Add(1)
	<-repository.release
	return repository.recordingRepository.FindByID(ctx, id)
}

func TestCachedRepository_CollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	inner := &blockingRepository{recordingRepository: newRecordingRepository(), release: make(chan struct{})}
	saved, err := inner.MemoryRepository.Save(ctx, &anime.Anime{Name: "One Piece"})
	require.NoError(t, err)

	repository := anime.NewCachedRepository(inner, newMemoryCache(t), discardLogger())

	const readers = 8
	var group sync.WaitGroup
	results := make([]*anime.Anime, readers)
	for index := range readers {
		group.Add(1)
		go func() {
			defer group.Done()
			found, err := repository.FindByID(ctx, *saved.ID)
			assert.NoError(t, err)
			results[index] = found
		}()
	}

	require.Eventually(t, func() bool { return inner.lookups.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(inner.release)
	group.Wait()

	assert.LessOrEqual(t, inner.lookups.Load(), int32(readers))
	for _, found := range results {
		require.NotNil(t, found)
		assert.Equal(t, "One Piece", found.Name)
	}
	// Every caller owns its value.
	results[0].Name = "mutated"
	assert.Equal(t, "One Piece", results[1].Name)
}

// stallingRepository reads the row first and then holds FindByID until
// release is closed, like a slow replica answering with an old snapshot.
type stallingRepository struct {
	*recordingRepository
	read    chan struct{}
	release chan struct{}
}

func newStallingRepository() *stallingRepository {
	return &stallingRepository{
		recordingRepository: newRecordingRepository(),
		read:                make(chan struct{}, 1),
		release:             make(chan struct{}),
	}
}

func (repository *stallingRepository) FindByID(ctx context.Context, id int) (*anime.Anime, error) {
	found, err := repository.recordingRepository.FindByID(ctx, id)
	select {
	case repository.read <- struct{}{}:
	default:
	}
	<-repository.release
	return found, err
}

func TestCachedRepository_DropsFillRacingDelete(t *testing.T) {
	ctx := context.Background()
	inner := newStallingRepository()
	saved, err := inner.MemoryRepository.Save(ctx, &anime.Anime{Name: "Naruto"})
	require.NoError(t, err)

	memory := newMemoryCache(t)
	repository := anime.NewCachedRepository(inner, memory, discardLogger())

	done := make(chan error, 1)
	go func() {
		_, err := repository.FindByID(ctx, *saved.ID)
		done <- err
	}()

	<-inner.read
	require.NoError(t, repository.Delete(ctx, saved))
	close(inner.release)

	// The in-flight reader saw the row before it was deleted.
	require.NoError(t, <-done)
	assert.False(t, memory.Contains("anime:" + strconv.Itoa(*saved.ID)))

	_, err = repository.FindByID(ctx, *saved.ID)
	assert.ErrorIs(t, err, anime.ErrNotExist)
}

func TestCachedRepository_DropsFillRacingUpdate(t *testing.T) {
	ctx := context.Background()
	inner := newStallingRepository()
	saved, err := inner.MemoryRepository.Save(ctx, &anime.Anime{Name: "Naruto"})
	require.NoError(t, err)

	repository := anime.NewCachedRepository(inner, newMemoryCache(t), discardLogger())

	done := make(chan error, 1)
	go func() {
		_, err := repository.FindByID(ctx, *saved.ID)
		done <- err
	}()

	<-inner.read
	_, err = repository.Save(ctx, &anime.Anime{ID: saved.ID, Name: "Naruto Shippuden"})
	require.NoError(t, err)
	close(inner.release)
	require.NoError(t, <-done)

	found, err := repository.FindByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Naruto Shippuden", found.Name)
}

// deadlineRepository reports whether FindByID received a bounded context.
type deadlineRepository struct {
	*anime.MemoryRepository
	bounded atomic.Bool
}

func (repository *deadlineRepository) FindByID(ctx context.Context, id int) (*anime.Anime, error) {
	_, ok := ctx.Deadline()
	repository.bounded.Store(ok)
	return repository.MemoryRepository.FindByID(ctx, id)
}

func TestCachedRepository_BoundsSharedLookup(t *testing.T) {
	ctx := context.Background()
	inner := &deadlineRepository{MemoryRepository: anime.NewMemoryRepository()}
	saved, err := inner.Save(ctx, &anime.Anime{Name: "Bleach"})
	require.NoError(t, err)

	repository := anime.NewCachedRepository(inner, newMemoryCache(t), discardLogger())
	_, err = repository.FindByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.True(t, inner.bounded.Load())
}

func TestCachedRepository_CallerCancellationLeavesLookupRunning(t *testing.T) {
	inner := &blockingRepository{recordingRepository: newRecordingRepository(), release: make(chan struct{})}
	saved, err := inner.MemoryRepository.Save(context.Background(), &anime.Anime{Name: "Monster"})
	require.NoError(t, err)

	memory := newMemoryCache(t)
	repository := anime.NewCachedRepository(inner, memory, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := repository.FindByID(ctx, *saved.ID)
		done <- err
	}()

	require.Eventually(t, func() bool { return inner.lookups.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(inner.release)
	key := "anime:" + strconv.Itoa(*saved.ID)
	require.Eventually(t, func() bool { return memory.Contains(key) }, time.Second, time.Millisecond)
}

func TestCachedRepository_InvalidatesOnDelete(t *testing.T) {
	ctx := context.Background()
	memory := newMemoryCache(t)
	repository := anime.NewCachedRepository(anime.NewMemoryRepository(), memory, discardLogger())

	saved, err := repository.Save(ctx, &anime.Anime{Name: "Naruto"})
	require.NoError(t, err)
	assert.True(t, memory.Contains("anime:1"))

	require.NoError(t, repository.Delete(ctx, saved))
	assert.False(t, memory.Contains("anime:1"))

	_, err = repository.FindByID(ctx, *saved.ID)
	assert.ErrorIs(t, err, anime.ErrNotExist)
}

func TestCachedRepository_RefreshesOnUpdate(t *testing.T) {
	ctx := context.Background()
	repository := anime.NewCachedRepository(anime.NewMemoryRepository(), newMemoryCache(t), discardLogger())

	saved, err := repository.Save(ctx, &anime.Anime{Name: "Naruto"})
	require.NoError(t, err)
	_, err = repository.FindByID(ctx, *saved.ID)
	require.NoError(t, err)

	_, err = repository.Save(ctx, &anime.Anime{ID: saved.ID, Name: "Naruto 2"})
	require.NoError(t, err)

	found, err := repository.FindByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Naruto 2", found.Name)
}

func TestCachedRepository_DoesNotCacheAbsence(t *testing.T) {
	ctx := context.Background()
	memory := newMemoryCache(t)
	repository := anime.NewCachedRepository(anime.NewMemoryRepository(), memory, discardLogger())

	_, err := repository.FindByID(ctx, 7)
	assert.ErrorIs(t, err, anime.ErrNotExist)
	assert.Equal(t, 0, memory.Len())
}

// # Retry

// transientError mimics a pgconn error raised before anything was sent.
type transientError struct{}

func (transientError) Error() string      { return "dial tcp: connection refused" }
func (transientError) SafeToRetry() bool { return true }

func TestRetryingRepository_RetriesTransientFailures(t *testing.T) {
	inner := newRecordingRepository()
	inner.failWith = dberr.Wrap(transientError{}, "create_anime")
	inner.failOn = 1

	repository := anime.NewRetryingRepository(inner, 3, time.Millisecond, discardLogger())

	saved, err := repository.Save(context.Background(), &anime.Anime{Name: "Naruto"})
	require.NoError(t, err)
	assert.Equal(t, "Naruto", saved.Name)
	assert.Equal(t, 2, inner.calls)
}

func TestRetryingRepository_GivesUpWithLastError(t *testing.T) {
	inner := newRecordingRepository()
	storageErr := dberr.Wrap(transientError{}, "get_anime")
	inner.failWith = storageErr

	repository := anime.NewRetryingRepository(inner, 2, time.Millisecond, discardLogger())

	_, err := repository.FindByID(context.Background(), 1)
	assert.Same(t, storageErr, err)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryingRepository_DoesNotRetryPermanentFailures(t *testing.T) {
	inner := newRecordingRepository()
	storageErr := apperr.Storage(errors.New("syntax error at or near"))
	inner.failWith = storageErr

	repository := anime.NewRetryingRepository(inner, 3, time.Millisecond, discardLogger())

	err := repository.Delete(context.Background(), &anime.Anime{ID: pointer.To(1)})
	assert.Same(t, storageErr, err)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryingRepository_DoesNotRetryAbsence(t *testing.T) {
	inner := newRecordingRepository()
	repository := anime.NewRetryingRepository(inner, 3, time.Millisecond, discardLogger())

	_, err := repository.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, anime.ErrNotExist)
	assert.Equal(t, 1, inner.calls)
}
