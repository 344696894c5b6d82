package anime

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	"github.com/taibuivan/animes/internal/platform/apperr"
	"github.com/taibuivan/animes/pkg/pointer"
)

// Service validates and orchestrates anime operations on top of a Repository.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListAll emits every anime in repository order.
func (service *Service) ListAll(ctx context.Context) iter.Seq2[*Anime, error] {
	return service.repo.FindAll(ctx)
}

// FindByID returns NOT_FOUND "Anime not found" when no anime has the id.
// Update and Delete share this existence check.
func (service *Service) FindByID(ctx context.Context, id int) (*Anime, error) {
	found, err := service.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotExist) {
		return nil, apperr.NotFound("Anime")
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Save validates the name and inserts a new anime. Any id on the input is ignored.
func (service *Service) Save(ctx context.Context, anime *Anime) (*Anime, error) {
	candidate, err := prepare(anime)
	if err != nil {
		return nil, err
	}

	saved, err := service.repo.Save(ctx, candidate)
	if err != nil {
		return nil, err
	}

	service.logger.Info("anime_created", slog.Int("anime_id", pointer.Val(saved.ID)), slog.String("name", saved.Name))
	return saved, nil
}

// SaveAll inserts the animes in order and emits each persisted value.
//
// Names are validated in order before persisting. The first invalid name stops
// the batch: it and every later item are never saved, and the sequence ends with
// INVALID_ARGUMENT after the items persisted so far. A sequence that ends in an
// error may therefore have persisted some records.
func (service *Service) SaveAll(ctx context.Context, animes []*Anime) iter.Seq2[*Anime, error] {
	return func(yield func(*Anime, error) bool) {
		var invalid error
		validated := func(next func(*Anime) bool) {
			for _, anime := range animes {
				candidate, err := prepare(anime)
				if err != nil {
					invalid = err
					return
				}
				if !next(candidate) {
					return
				}
			}
		}

		persisted := 0
		for saved, err := range service.repo.SaveAll(ctx, validated) {
			if err != nil {
				yield(nil, err)
				return
			}

			persisted++
			if !yield(saved, nil) {
				return
			}
		}

		if invalid != nil {
			service.logger.Warn("anime_batch_aborted",
				slog.Int("persisted", persisted),
				slog.Int("requested", len(animes)),
			)
			yield(nil, invalid)
			return
		}

		service.logger.Info("anime_batch_created", slog.Int("persisted", persisted))
	}
}

// Update replaces the name of the anime with the given id. The id argument wins
// over any id carried by the input.
func (service *Service) Update(ctx context.Context, anime *Anime, id int) error {
	found, err := service.FindByID(ctx, id)
	if err != nil {
		return err
	}

	candidate, err := prepare(anime)
	if err != nil {
		return err
	}

	if _, err := service.repo.Save(ctx, candidate.withID(*found.ID)); err != nil {
		if errors.Is(err, ErrNotExist) {
			return apperr.NotFound("Anime")
		}
		return err
	}

	service.logger.Info("anime_updated", slog.Int("anime_id", *found.ID))
	return nil
}

// Delete removes the anime with the given id.
func (service *Service) Delete(ctx context.Context, id int) error {
	found, err := service.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, found); err != nil {
		return err
	}

	service.logger.Warn("anime_deleted", slog.Int("anime_id", *found.ID))
	return nil
}

// prepare validates the input and returns a detached, id-less copy with a normalized name.
func prepare(anime *Anime) (*Anime, error) {
	if err := Validate(anime); err != nil {
		return nil, err
	}
	return &Anime{Name: NormalizeName(anime.Name)}, nil
}
