package anime

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/animes/internal/platform/cache"
	"github.com/taibuivan/animes/internal/platform/constants"
)

// CachedRepository serves FindByID from a cache in front of another repository.
// Writes go to the inner repository first and then refresh or drop the entry.
// Absence is never cached. Concurrent misses for one id share a single
// inner lookup.
//
// A lookup that started before a write never fills the cache after it: every
// write marks the lookups pending for its id as stale, and stale results are
// handed to their waiters but not stored.
type CachedRepository struct {
	inner  Repository
	cache  cache.Cache
	loads  singleflight.Group
	logger *slog.Logger

	mu    sync.Mutex
	fills map[int]*fill
}

// fill tracks one inner lookup that may populate the cache.
type fill struct {
	stale bool
}

func NewCachedRepository(inner Repository, cache cache.Cache, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{inner: inner, cache: cache, logger: logger, fills: make(map[int]*fill)}
}

func cacheKey(id int) string {
	return constants.CachePrefixAnime + strconv.Itoa(id)
}

func (repository *CachedRepository) FindAll(ctx context.Context) iter.Seq2[*Anime, error] {
	return repository.inner.FindAll(ctx)
}

func (repository *CachedRepository) FindByID(ctx context.Context, id int) (*Anime, error) {
	if raw, ok := repository.cache.Get(cacheKey(id)); ok {
		var cached Anime
		if err := json.Unmarshal(raw, &cached); err == nil && cached.ID != nil {
			return &cached, nil
		}
		repository.cache.Delete(cacheKey(id))
	}

	results := repository.loads.DoChan(cacheKey(id), func() (any, error) {
		return repository.load(ctx, id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}
		// Waiters get their own copy.
		found := result.Val.(*Anime)
		return found.withID(*found.ID), nil
	}
}

// load runs the shared inner lookup. It outlives the caller that started it
// so other waiters are not failed by one cancellation, but it is still bounded
// by the request timeout.
func (repository *CachedRepository) load(ctx context.Context, id int) (*Anime, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.GlobalRequestTimeout)
	defer cancel()

	pending := &fill{}
	repository.mu.Lock()
	repository.fills[id] = pending
	repository.mu.Unlock()

	found, err := repository.inner.FindByID(ctx, id)

	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.fills[id] == pending {
		delete(repository.fills, id)
	}
	if err != nil {
		return nil, err
	}
	if !pending.stale {
		repository.store(found)
	}
	return found, nil
}

func (repository *CachedRepository) Save(ctx context.Context, anime *Anime) (*Anime, error) {
	saved, err := repository.inner.Save(ctx, anime)
	if err != nil {
		if anime.ID != nil {
			repository.invalidate(*anime.ID, nil)
		}
		return nil, err
	}

	repository.invalidate(*saved.ID, saved)
	return saved, nil
}

func (repository *CachedRepository) SaveAll(ctx context.Context, animes iter.Seq[*Anime]) iter.Seq2[*Anime, error] {
	return func(yield func(*Anime, error) bool) {
		for saved, err := range repository.inner.SaveAll(ctx, animes) {
			if err == nil && saved != nil && saved.ID != nil {
				repository.invalidate(*saved.ID, saved)
			}
			if !yield(saved, err) {
				return
			}
		}
	}
}

func (repository *CachedRepository) Delete(ctx context.Context, anime *Anime) error {
	err := repository.inner.Delete(ctx, anime)
	if anime.ID != nil {
		repository.invalidate(*anime.ID, nil)
	}
	return err
}

// invalidate runs after a write to id. Pending lookups are marked stale and
// detached from new callers, then the entry is replaced by fresh or dropped
// when fresh is nil.
func (repository *CachedRepository) invalidate(id int, fresh *Anime) {
	repository.mu.Lock()
	if pending := repository.fills[id]; pending != nil {
		pending.stale = true
		delete(repository.fills, id)
	}
	if fresh != nil {
		repository.store(fresh)
	} else {
		repository.cache.Delete(cacheKey(id))
	}
	repository.mu.Unlock()

	repository.loads.Forget(cacheKey(id))
}

// store writes anime to the cache. Callers hold mu.
func (repository *CachedRepository) store(anime *Anime) {
	if anime == nil || anime.ID == nil {
		return
	}

	raw, err := json.Marshal(anime)
	if err != nil {
		repository.logger.Warn("anime_cache_encode_failed", slog.Int("anime_id", *anime.ID), slog.Any("error", err))
		repository.cache.Delete(cacheKey(*anime.ID))
		return
	}
	repository.cache.Set(cacheKey(*anime.ID), raw)
}
