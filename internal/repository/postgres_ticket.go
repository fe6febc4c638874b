package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozherelyev/cinema-ticketing/internal/domain"
)

type PostgresTicketRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTicketRepository(db *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{
		db: db,
	}
}

// Create inserts the ticket and fills in its generated id. The tickets
// table carries a uniqueness constraint over (show_id, seat_row,
// seat_number); that constraint is the single mechanism preventing a seat
// from being sold twice, so a violation here means the seat race was lost.
func (p *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (show_id, user_id, seat_row, seat_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		ticket.ShowID,
		ticket.UserID,
		ticket.Row,
		ticket.Seat).Scan(&ticket.ID, &ticket.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return domain.ErrSeatAlreadySold
			case pgerrcode.ForeignKeyViolation:
				return domain.ErrRecordNotFound
			}
		}

		return err
	}

	return nil
}

func (p *PostgresTicketRepository) GetByID(ctx context.Context, id int) (*domain.Ticket, error) {
	query := `
		SELECT id, show_id, user_id, seat_row, seat_number, created_at
		FROM tickets
		WHERE id = $1
	`

	var ticket domain.Ticket

	err := p.db.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.ShowID,
		&ticket.UserID,
		&ticket.Row,
		&ticket.Seat,
		&ticket.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &ticket, nil
}

// GetAllByShowID returns every ticket sold for the show. An empty result
// is the normal "all seats free" case, never an error.
func (p *PostgresTicketRepository) GetAllByShowID(ctx context.Context, showID int) ([]domain.Ticket, error) {
	query := `
		SELECT id, show_id, user_id, seat_row, seat_number, created_at
		FROM tickets
		WHERE show_id = $1
		ORDER BY seat_row, seat_number
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)

	for rows.Next() {
		var ticket domain.Ticket

		err = rows.Scan(
			&ticket.ID,
			&ticket.ShowID,
			&ticket.UserID,
			&ticket.Row,
			&ticket.Seat,
			&ticket.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (p *PostgresTicketRepository) DeleteByID(ctx context.Context, id int) error {
	query := `DELETE FROM tickets WHERE id = $1`

	tag, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// DeleteByShowID removes every ticket of a show and reports how many were
// deleted. Zero is not an error: a show with an empty hall clears cleanly.
func (p *PostgresTicketRepository) DeleteByShowID(ctx context.Context, showID int) (int64, error) {
	query := `DELETE FROM tickets WHERE show_id = $1`

	tag, err := p.db.Exec(ctx, query, showID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
