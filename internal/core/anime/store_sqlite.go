package anime

import (
	"context"
	"iter"

	sq "github.com/Masterminds/squirrel"

	"github.com/taibuivan/animes/internal/platform/database/schema"
	"github.com/taibuivan/animes/internal/platform/dberr"
	"github.com/taibuivan/animes/internal/platform/sqlite"
)

type SQLiteRepository struct {
	db *sqlite.DB
}

func NewSQLiteRepository(db *sqlite.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (repository *SQLiteRepository) FindAll(ctx context.Context) iter.Seq2[*Anime, error] {
	return func(yield func(*Anime, error) bool) {
		query, args, err := repository.db.Builder().
			Select(schema.LiteAnime.Columns()...).
			From(schema.LiteAnime.Table).
			OrderBy(schema.LiteAnime.ID + " ASC").
			ToSql()
		if err != nil {
			yield(nil, dberr.Wrap(err, "build_list_animes"))
			return
		}

		rows, err := repository.db.Handler().QueryContext(ctx, query, args...)
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

func (repository *SQLiteRepository) FindByID(ctx context.Context, id int) (*Anime, error) {
	query, args, err := repository.db.Builder().
		Select(schema.LiteAnime.Name).
		From(schema.LiteAnime.Table).
		Where(sq.Eq{schema.LiteAnime.ID: id}).
		ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_get_anime")
	}

	anime := &Anime{}
	err = repository.db.Handler().QueryRowContext(ctx, query, args...).Scan(&anime.Name)
	if dberr.IsNoRows(err) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_anime")
	}

	return anime.withID(id), nil
}

func (repository *SQLiteRepository) Save(ctx context.Context, anime *Anime) (*Anime, error) {
	if anime.ID == nil {
		return repository.insert(ctx, anime)
	}
	return repository.update(ctx, anime)
}

func (repository *SQLiteRepository) insert(ctx context.Context, anime *Anime) (*Anime, error) {
	query, args, err := repository.db.Builder().
		Insert(schema.LiteAnime.Table).
		Columns(schema.LiteAnime.Name).
		Values(anime.Name).
		Suffix("RETURNING " + schema.LiteAnime.ID).
		ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_create_anime")
	}

	var id int
	if err := repository.db.Handler().QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, dberr.Wrap(err, "create_anime")
	}
	return anime.withID(id), nil
}

func (repository *SQLiteRepository) update(ctx context.Context, anime *Anime) (*Anime, error) {
	query, args, err := repository.db.Builder().
		Update(schema.LiteAnime.Table).
		Set(schema.LiteAnime.Name, anime.Name).
		Where(sq.Eq{schema.LiteAnime.ID: *anime.ID}).
		ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_update_anime")
	}

	result, err := repository.db.Handler().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "update_anime")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, dberr.Wrap(err, "update_anime")
	}
	if affected == 0 {
		return nil, ErrNotExist
	}
	return anime.withID(*anime.ID), nil
}

func (repository *SQLiteRepository) SaveAll(ctx context.Context, animes iter.Seq[*Anime]) iter.Seq2[*Anime, error] {
	return saveEach(ctx, repository.Save, animes)
}

func (repository *SQLiteRepository) Delete(ctx context.Context, anime *Anime) error {
	if anime.ID == nil {
		return nil
	}

	query, args, err := repository.db.Builder().
		Delete(schema.LiteAnime.Table).
		Where(sq.Eq{schema.LiteAnime.ID: *anime.ID}).
		ToSql()
	if err != nil {
		return dberr.Wrap(err, "build_delete_anime")
	}

	_, err = repository.db.Handler().ExecContext(ctx, query, args...)
	return dberr.Wrap(err, "delete_anime")
}
