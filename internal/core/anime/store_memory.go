package anime

import (
	"context"
	"iter"
	"slices"
	"sync"
)

// MemoryRepository keeps animes in a map. It backs STORE_DRIVER=memory and the tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	items  map[int]string
	lastID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int]string)}
}

// FindAll emits a snapshot taken at call time, ordered by id.
func (repository *MemoryRepository) FindAll(ctx context.Context) iter.Seq2[*Anime, error] {
	return func(yield func(*Anime, error) bool) {
		repository.mu.RLock()
		ids := make([]int, 0, len(repository.items))
		names := make(map[int]string, len(repository.items))
		for id, name := range repository.items {
			ids = append(ids, id)
			names[id] = name
		}
		repository.mu.RUnlock()

		slices.Sort(ids)

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield((&Anime{Name: names[id]}).withID(id), nil) {
				return
			}
		}
	}
}

func (repository *MemoryRepository) FindByID(ctx context.Context, id int) (*Anime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	name, ok := repository.items[id]
	if !ok {
		return nil, ErrNotExist
	}
	return (&Anime{Name: name}).withID(id), nil
}

func (repository *MemoryRepository) Save(ctx context.Context, anime *Anime) (*Anime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if anime.ID == nil {
		repository.lastID++
		repository.items[repository.lastID] = anime.Name
		return anime.withID(repository.lastID), nil
	}

	id := *anime.ID
	if _, ok := repository.items[id]; !ok {
		return nil, ErrNotExist
	}
	repository.items[id] = anime.Name
	return anime.withID(id), nil
}

func (repository *MemoryRepository) SaveAll(ctx context.Context, animes iter.Seq[*Anime]) iter.Seq2[*Anime, error] {
	return saveEach(ctx, repository.Save, animes)
}

// Delete is a no-op for unknown ids.
func (repository *MemoryRepository) Delete(ctx context.Context, anime *Anime) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if anime.ID == nil {
		return nil
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.items, *anime.ID)
	return nil
}

// Len returns the number of stored animes.
func (repository *MemoryRepository) Len() int {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return len(repository.items)
}
