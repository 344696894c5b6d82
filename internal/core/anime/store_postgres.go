package anime

import (
	"context"
	"fmt"
	"iter"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/animes/internal/platform/database/schema"
	"github.com/taibuivan/animes/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) FindAll(ctx context.Context) iter.Seq2[*Anime, error] {
	return func(yield func(*Anime, error) bool) {
		query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s ASC`,
			schema.CoreAnime.ID, schema.CoreAnime.Name,
			schema.CoreAnime.Table, schema.CoreAnime.ID,
		)

		rows, err := repository.db.Query(ctx, query)
		if err != nil {
			yield(nil, dberr.Wrap(err, "list_animes"))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var id int
			anime := &Anime{}
			if err := rows.Scan(&id, &anime.Name); err != nil {
				yield(nil, dberr.Wrap(err, "scan_anime"))
				return
			}
			anime.ID = &id

			if !yield(anime, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(nil, dberr.Wrap(err, "list_animes"))
		}
	}
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int) (*Anime, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CoreAnime.Name, schema.CoreAnime.Table, schema.CoreAnime.ID,
	)

	anime := &Anime{}
	err := repository.db.QueryRow(ctx, query, id).Scan(&anime.Name)
	if dberr.IsNoRows(err) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_anime")
	}

	return anime.withID(id), nil
}

func (repository *PostgresRepository) Save(ctx context.Context, anime *Anime) (*Anime, error) {
	if anime.ID == nil {
		return repository.insert(ctx, anime)
	}
	return repository.update(ctx, anime)
}

func (repository *PostgresRepository) insert(ctx context.Context, anime *Anime) (*Anime, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s`,
		schema.CoreAnime.Table, schema.CoreAnime.Name, schema.CoreAnime.ID,
	)

	var id int
	if err := repository.db.QueryRow(ctx, query, anime.Name).Scan(&id); err != nil {
		return nil, dberr.Wrap(err, "create_anime")
	}
	return anime.withID(id), nil
}

func (repository *PostgresRepository) update(ctx context.Context, anime *Anime) (*Anime, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.CoreAnime.Table, schema.CoreAnime.Name, schema.CoreAnime.ID,
	)

	cmd, err := repository.db.Exec(ctx, query, *anime.ID, anime.Name)
	if err != nil {
		return nil, dberr.Wrap(err, "update_anime")
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrNotExist
	}
	return anime.withID(*anime.ID), nil
}

func (repository *PostgresRepository) SaveAll(ctx context.Context, animes iter.Seq[*Anime]) iter.Seq2[*Anime, error] {
	return saveEach(ctx, repository.Save, animes)
}

func (repository *PostgresRepository) Delete(ctx context.Context, anime *Anime) error {
	if anime.ID == nil {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreAnime.Table, schema.CoreAnime.ID)

	_, err := repository.db.Exec(ctx, query, *anime.ID)
	return dberr.Wrap(err, "delete_anime")
}
