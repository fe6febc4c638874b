package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozherelyev/cinema-ticketing/internal/domain"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Show, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(), id, name, description, poster_name, created_at, updated_at, version
		FROM shows
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	shows := make([]domain.Show, 0)
	totalRecords := 0

	for rows.Next() {
		var show domain.Show

		err = rows.Scan(
			&totalRecords,
			&show.ID,
			&show.Name,
			&show.Description,
			&show.PosterName,
			&show.CreatedAt,
			&show.UpdatedAt,
			&show.Version,
		)

		if err != nil {
			return nil, nil, err
		}

		shows = append(shows, show)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return shows, pagination.Metadata(totalRecords), nil
}

func (p *PostgresShowRepository) GetByID(ctx context.Context, id int) (*domain.Show, error) {
	query := `
		SELECT id, name, description, poster_name, created_at, updated_at, version
		FROM shows
		WHERE id = $1
	`

	var show domain.Show

	err := p.db.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.Name,
		&show.Description,
		&show.PosterName,
		&show.CreatedAt,
		&show.UpdatedAt,
		&show.Version,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &show, nil
}

func (p *PostgresShowRepository) Create(ctx context.Context, show *domain.Show) error {
	query := `
		INSERT INTO shows (name, description, poster_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at, version
	`

	return p.db.QueryRow(
		ctx,
		query,
		show.Name,
		show.Description,
		show.PosterName).Scan(&show.ID, &show.CreatedAt, &show.UpdatedAt, &show.Version)
}

func (p *PostgresShowRepository) Update(ctx context.Context, show *domain.Show) error {
	query := `
		UPDATE shows
		SET name = $1, description = $2, poster_name = $3, updated_at = NOW(), version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	err := p.db.QueryRow(
		ctx,
		query,
		show.Name,
		show.Description,
		show.PosterName,
		show.ID,
		show.Version).Scan(&show.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

// Delete removes the show and all of its tickets in one transaction, so a
// concurrent sale cannot slip a ticket in between the two deletes.
func (p *PostgresShowRepository) Delete(ctx context.Context, id int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM tickets WHERE show_id = $1`, id)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM shows WHERE id = $1`, id)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrRecordNotFound
		}

		return nil
	})
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
