package domain

import (
	"context"
	"time"
)

type Show struct {
	ID          int
	Name        string
	Description string
	PosterName  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

type ShowRepository interface {
	GetAll(ctx context.Context, pagination Pagination) ([]Show, *Metadata, error)
	GetByID(ctx context.Context, id int) (*Show, error)
	Create(ctx context.Context, show *Show) error
	Update(ctx context.Context, show *Show) error
	Delete(ctx context.Context, id int) error
}
