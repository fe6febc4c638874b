package domain

import (
	"context"
	"time"
)

// Ticket is a sold claim on a single (row, seat) coordinate of a show's
// hall. The (ShowID, Row, Seat) triple is unique across all tickets; the
// ticket store enforces that at the persistence layer.
type Ticket struct {
	ID        int
	ShowID    int
	UserID    int
	Row       int
	Seat      int
	CreatedAt time.Time
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, id int) (*Ticket, error)
	GetAllByShowID(ctx context.Context, showID int) ([]Ticket, error)
	DeleteByID(ctx context.Context, id int) error
	DeleteByShowID(ctx context.Context, showID int) (int64, error)
}
