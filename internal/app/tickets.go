package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ozherelyev/cinema-ticketing/api"
	"github.com/ozherelyev/cinema-ticketing/internal/domain"
	qrcode "github.com/skip2/go-qrcode"
)

// ClearShowTickets bulk-deletes every ticket of a show, used when an
// administrator withdraws a show from sale. The show id is validated
// first, so "unknown show" and "known show with an empty hall" stay
// distinguishable; clearing an empty hall is a benign no-op.
func (app *Application) ClearShowTickets(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !app.showExists(w, r, showID) {
		return
	}

	deleted, err := app.ticketRepo.DeleteByShowID(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ClearShowResponse{
		ShowId:         showID,
		TicketsDeleted: deleted,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := app.readIDParam(r, "ticketId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.ticketRepo.DeleteByID(r.Context(), ticketID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTicketPass renders a QR entry pass for a sold ticket. Only the owner
// (or an administrator) can fetch it; anyone else gets a 404 so ticket ids
// stay unguessable.
func (app *Application) GetTicketPass(w http.ResponseWriter, r *http.Request) {
	ticketID, err := app.readIDParam(r, "ticketId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ticket, err := app.ticketRepo.GetByID(r.Context(), ticketID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	userID := app.contextGetUserId(r)
	isAdmin := app.sessionManager.GetBool(r.Context(), SessionKeyIsAdmin.String())

	if ticket.UserID != userID && !isAdmin {
		app.notFoundResponse(w, r)
		return
	}

	payload := fmt.Sprintf("ticket:%d show:%d row:%d seat:%d", ticket.ID, ticket.ShowID, ticket.Row, ticket.Seat)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
