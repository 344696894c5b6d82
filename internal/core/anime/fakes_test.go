package anime_test

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"sync"

	"github.com/taibuivan/animes/internal/core/anime"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func collect(t interface{ Helper() }, seq iter.Seq2[*anime.Anime, error]) ([]*anime.Anime, error) {
	t.Helper()

	var items []*anime.Anime
	for item, err := range seq {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

func names(items []*anime.Anime) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

// recordingRepository wraps the memory store, records every call and can inject failures.
type recordingRepository struct {
	*anime.MemoryRepository

	mu      sync.Mutex
	saved   []*anime.Anime
	deleted []*anime.Anime
	calls   int

	failWith error
	// failOn counts calls; the failOn-th call (1-based) fails with failWith. Zero fails every call.
	failOn int
}

func newRecordingRepository() *recordingRepository {
	return &recordingRepository{MemoryRepository: anime.NewMemoryRepository()}
}

func (repository *recordingRepository) shouldFail() bool {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.calls++
	if repository.failWith == nil {
		return false
	}
	return repository.failOn == 0 || repository.failOn == repository.calls
}

func (repository *recordingRepository) FindAll(ctx context.Context) iter.Seq2[*anime.Anime, error] {
	if repository.shouldFail() {
		return func(yield func(*anime.Anime, error) bool) { yield(nil, repository.failWith) }
	}
	return repository.MemoryRepository.FindAll(ctx)
}

func (repository *recordingRepository) FindByID(ctx context.Context, id int) (*anime.Anime, error) {
	if repository.shouldFail() {
		return nil, repository.failWith
	}
	return repository.MemoryRepository.FindByID(ctx, id)
}

func (repository *recordingRepository) Save(ctx context.Context, input *anime.Anime) (*anime.Anime, error) {
	if repository.shouldFail() {
		return nil, repository.failWith
	}

	repository.mu.Lock()
	copied := *input
	repository.saved = append(repository.saved, &copied)
	repository.mu.Unlock()

	return repository.MemoryRepository.Save(ctx, input)
}

func (repository *recordingRepository) SaveAll(ctx context.Context, animes iter.Seq[*anime.Anime]) iter.Seq2[*anime.Anime, error] {
	return func(yield func(*anime.Anime, error) bool) {
		for input := range animes {
			saved, err := repository.Save(ctx, input)
			if !yield(saved, err) || err != nil {
				return
			}
		}
	}
}

func (repository *recordingRepository) Delete(ctx context.Context, input *anime.Anime) error {
	if repository.shouldFail() {
		return repository.failWith
	}

	repository.mu.Lock()
	repository.deleted = append(repository.deleted, input)
	repository.mu.Unlock()

	return repository.MemoryRepository.Delete(ctx, input)
}
