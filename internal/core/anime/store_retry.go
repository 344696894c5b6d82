package anime

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/taibuivan/animes/internal/platform/dberr"
)

// maxRetryBackoff caps the exponential backoff between attempts.
const maxRetryBackoff = 2 * time.Second

// RetryingRepository retries single-value operations that failed before the
// statement reached the database. SaveAll retries each item on its own.
// FindAll is passed through: a partially consumed cursor cannot be replayed.
type RetryingRepository struct {
	inner       Repository
	animePolicy retrypolicy.RetryPolicy[*Anime]
	plainPolicy retrypolicy.RetryPolicy[any]
}

// NewRetryingRepository retries up to maxRetries times, starting at backoff and doubling.
func NewRetryingRepository(inner Repository, maxRetries int, backoff time.Duration, logger *slog.Logger) *RetryingRepository {
	return &RetryingRepository{
		inner:       inner,
		animePolicy: newRetryPolicy[*Anime](maxRetries, backoff, logger),
		plainPolicy: newRetryPolicy[any](maxRetries, backoff, logger),
	}
}

func newRetryPolicy[R any](maxRetries int, backoff time.Duration, logger *slog.Logger) retrypolicy.RetryPolicy[R] {
	return retrypolicy.NewBuilder[R]().
		HandleIf(func(_ R, err error) bool {
			return dberr.IsTransient(err)
		}).
		WithMaxRetries(maxRetries).
		WithBackoff(backoff, maxRetryBackoff).
		ReturnLastFailure().
		OnRetry(func(event failsafe.ExecutionEvent[R]) {
			logger.Warn("store_retry",
				slog.Int("attempt", event.Attempts()),
				slog.Any("error", event.LastError()),
			)
		}).
		Build()
}

func (repository *RetryingRepository) FindAll(ctx context.Context) iter.Seq2[*Anime, error] {
	return repository.inner.FindAll(ctx)
}

func (repository *RetryingRepository) FindByID(ctx context.Context, id int) (*Anime, error) {
	return failsafe.With(repository.animePolicy).WithContext(ctx).Get(func() (*Anime, error) {
		return repository.inner.FindByID(ctx, id)
	})
}

func (repository *RetryingRepository) Save(ctx context.Context, anime *Anime) (*Anime, error) {
	return failsafe.With(repository.animePolicy).WithContext(ctx).Get(func() (*Anime, error) {
		return repository.inner.Save(ctx, anime)
	})
}

func (repository *RetryingRepository) SaveAll(ctx context.Context, animes iter.Seq[*Anime]) iter.Seq2[*Anime, error] {
	return saveEach(ctx, repository.Save, animes)
}

func (repository *RetryingRepository) Delete(ctx context.Context, anime *Anime) error {
	return failsafe.With(repository.plainPolicy).WithContext(ctx).Run(func() error {
		return repository.inner.Delete(ctx, anime)
	})
}
