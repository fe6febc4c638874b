package events

import "context"

// TicketSoldEvent is published after a sale is durably persisted. It carries
// enough information for downstream consumers (notifications, analytics) to
// act without querying the primary database.
type TicketSoldEvent struct {
	TicketID int    `json:"ticket_id"`
	ShowID   int    `json:"show_id"`
	ShowName string `json:"show_name"`
	UserID   int    `json:"user_id"`
	Row      int    `json:"row"`
	Seat     int    `json:"seat"`
	SoldAt   string `json:"sold_at"`
}

type Publisher interface {
	PublishTicketSold(ctx context.Context, event TicketSoldEvent) error
}
