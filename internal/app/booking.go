package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ozherelyev/cinema-ticketing/api"
	"github.com/ozherelyev/cinema-ticketing/internal/domain"
	"github.com/ozherelyev/cinema-ticketing/internal/events"
)

// SelectBookingShow starts (or restarts) the purchase wizard for the
// authenticated user. The selection lives in the session until the sale is
// confirmed; nothing is persisted before that.
func (app *Application) SelectBookingShow(w http.ResponseWriter, r *http.Request) {
	var input api.SelectShowRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if !app.showExists(w, r, input.ShowId) {
		return
	}

	booking := app.sessionGetBooking(r.Context())

	err = booking.SelectShow(input.ShowId)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.sessionPutBooking(r.Context(), booking)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeBooking(w, r, http.StatusOK, booking)
}

func (app *Application) SelectBookingRow(w http.ResponseWriter, r *http.Request) {
	var input api.SelectRowRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if !app.hall.ContainsRow(input.Row) {
		app.badRequestResponse(w, r, fmt.Errorf("row must be between 1 and %d", app.hall.Rows))
		return
	}

	booking := app.sessionGetBooking(r.Context())

	err = booking.SelectRow(input.Row)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.sessionPutBooking(r.Context(), booking)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeBooking(w, r, http.StatusOK, booking)
}

func (app *Application) SelectBookingSeat(w http.ResponseWriter, r *http.Request) {
	var input api.SelectSeatRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	booking := app.sessionGetBooking(r.Context())

	if !app.hall.ContainsSeat(booking.Row, input.Seat) {
		app.badRequestResponse(w, r, fmt.Errorf("seat must be between 1 and %d", app.hall.SeatsPerRow))
		return
	}

	err = booking.SelectSeat(input.Seat)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.sessionPutBooking(r.Context(), booking)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeBooking(w, r, http.StatusOK, booking)
}

// ConfirmBooking turns the completed selection into a persisted ticket.
// The tickets table's uniqueness constraint is the only arbiter of seat
// races: losing it means the seat is gone, so the wizard drops back to row
// selection and the buyer must pick again against fresh availability.
// There is no automatic retry.
func (app *Application) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	booking := app.sessionGetBooking(r.Context())

	showID, row, seat, err := booking.Selection()
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("booking selection is incomplete"))
		return
	}

	userID := app.contextGetUserId(r)

	show, err := app.showRepo.GetByID(r.Context(), showID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			// the show was withdrawn mid-wizard
			app.sessionDeleteBooking(r.Context())
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	ticket := &domain.Ticket{
		ShowID: showID,
		UserID: userID,
		Row:    row,
		Seat:   seat,
	}

	err = app.ticketRepo.Create(r.Context(), ticket)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadySold):
			logger.Warn("seat race lost on confirmation", "show_id", showID, "row", row, "seat", seat)

			booking.MarkConflict()
			if err := app.sessionPutBooking(r.Context(), booking); err != nil {
				app.serverErrorResponse(w, r, err)
				return
			}

			app.editConflictResponseWithErr(w, r, fmt.Errorf("seat is already sold, please select another seat"))
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.sessionDeleteBooking(r.Context())

	// The sale is durable at this point. Notifications ride along on a best
	// effort basis and never fail the request.
	go app.announceSale(r.Context(), logger, ticket, show)

	resp := toTicketResponse(ticket)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CancelBooking discards the in-progress selection. Nothing was persisted,
// so there is no storage interaction.
func (app *Application) CancelBooking(w http.ResponseWriter, r *http.Request) {
	app.sessionDeleteBooking(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) announceSale(ctx context.Context, logger *slog.Logger, ticket *domain.Ticket, show *domain.Show) {
	defer func() {
		if err := recover(); err != nil {
			logger.Error("panic occurred while announcing sale", "panic", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	event := events.TicketSoldEvent{
		TicketID: ticket.ID,
		ShowID:   ticket.ShowID,
		ShowName: show.Name,
		UserID:   ticket.UserID,
		Row:      ticket.Row,
		Seat:     ticket.Seat,
		SoldAt:   ticket.CreatedAt.UTC().Format(time.RFC3339),
	}

	if err := app.publisher.PublishTicketSold(ctx, event); err != nil {
		logger.Error("failed to publish ticket sold event", "error", err, "ticket_id", ticket.ID)
	}

	user, err := app.userRepo.GetByID(ctx, ticket.UserID)
	if err != nil {
		logger.Error("failed to load buyer for confirmation email", "error", err, "user_id", ticket.UserID)
		return
	}

	data := map[string]any{
		"username": user.Username,
		"showName": show.Name,
		"row":      ticket.Row,
		"seat":     ticket.Seat,
		"ticketID": ticket.ID,
	}

	if err := app.mailer.Send(user.Email, "ticket_confirmation.tmpl", data); err != nil {
		logger.Error("failed to send ticket confirmation email", "error", err, "ticket_id", ticket.ID)
	}
}

func (app *Application) writeBooking(w http.ResponseWriter, r *http.Request, status int, booking domain.Booking) {
	resp := api.BookingResponse{
		Stage:  string(booking.Stage),
		ShowId: booking.ShowID,
		Row:    booking.Row,
		Seat:   booking.Seat,
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toTicketResponse(ticket *domain.Ticket) api.TicketResponse {
	return api.TicketResponse{
		Id:        ticket.ID,
		ShowId:    ticket.ShowID,
		UserId:    ticket.UserID,
		Row:       ticket.Row,
		Seat:      ticket.Seat,
		CreatedAt: ticket.CreatedAt,
	}
}
