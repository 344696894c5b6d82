package anime

import (
	"context"
	"errors"
	"iter"
)

// ErrNotExist is returned by repositories when no anime has the requested id.
var ErrNotExist = errors.New("anime: does not exist")

// Repository persists animes. Failures other than absence are STORAGE_ERROR app errors.
//
// Sequences are lazy and single use. They stop producing, and release their
// cursor, once the consumer stops ranging or ctx is cancelled.
type Repository interface {
	FindAll(ctx context.Context) iter.Seq2[*Anime, error]
	FindByID(ctx context.Context, id int) (*Anime, error)

	// Save inserts when ID is nil and assigns one, otherwise it overwrites the stored row.
	Save(ctx context.Context, anime *Anime) (*Anime, error)

	// SaveAll saves each input in order and emits the persisted value before pulling the next.
	SaveAll(ctx context.Context, animes iter.Seq[*Anime]) iter.Seq2[*Anime, error]

	Delete(ctx context.Context, anime *Anime) error
}

// saveEach is the SaveAll loop shared by stores that have no bulk insert path.
func saveEach(ctx context.Context, save func(context.Context, *Anime) (*Anime, error), animes iter.Seq[*Anime]) iter.Seq2[*Anime, error] {
	return func(yield func(*Anime, error) bool) {
		for anime := range animes {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			saved, err := save(ctx, anime)
			if err != nil {
				yield(nil, err)
				return
			}

			if !yield(saved, nil) {
				return
			}
		}
	}
}
