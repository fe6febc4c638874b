package app

import (
	"errors"
	"net/http"

	"github.com/ozherelyev/cinema-ticketing/api"
	"github.com/ozherelyev/cinema-ticketing/internal/domain"
)

// GetSeatMap returns the full free-seat snapshot of a show: every row of
// the hall with the seats still on sale. The snapshot is derived from the
// sold tickets on every request; it can go stale the moment another sale
// completes, which is why confirmation can still conflict.
func (app *Application) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !app.showExists(w, r, showID) {
		return
	}

	tickets, err := app.ticketRepo.GetAllByShowID(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	free := app.hall.FreeSeats(tickets)

	resp := api.SeatMapResponse{
		ShowId: showID,
		Rows:   toSeatRows(app.hall, free),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetAvailableRows(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !app.showExists(w, r, showID) {
		return
	}

	tickets, err := app.ticketRepo.GetAllByShowID(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.AvailableRowsResponse{
		ShowId: showID,
		Rows:   app.hall.RowsWithSpace(tickets),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetFreeSeatsInRow(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	row, err := app.readIDParam(r, "row")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Rows outside the hall fail closed.
	if !app.hall.ContainsRow(row) {
		app.notFoundResponse(w, r)
		return
	}

	if !app.showExists(w, r, showID) {
		return
	}

	tickets, err := app.ticketRepo.GetAllByShowID(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.RowSeatsResponse{
		ShowId:    showID,
		Row:       row,
		FreeSeats: app.hall.FreeSeatsInRow(tickets, row),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showExists validates the show id against the show directory and writes
// the error response itself when the lookup fails.
func (app *Application) showExists(w http.ResponseWriter, r *http.Request, showID int) bool {
	_, err := app.showRepo.GetByID(r.Context(), showID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return false
	}

	return true
}

func toSeatRows(hall domain.HallLayout, free map[int][]int) []api.SeatRow {
	rows := make([]api.SeatRow, 0, hall.Rows)

	for row := 1; row <= hall.Rows; row++ {
		rows = append(rows, api.SeatRow{
			Row:       row,
			FreeSeats: free[row],
		})
	}

	return rows
}
