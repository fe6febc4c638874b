package app

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ozherelyev/cinema-ticketing/internal/domain"
)

type sessionKey string

const (
	SessionKeyUserId  = sessionKey("userID")
	SessionKeyIsAdmin = sessionKey("isAdmin")
	SessionKeyBooking = sessionKey("booking")
)

func (s sessionKey) String() string {
	return string(s)
}

func (app *Application) contextGetUserId(r *http.Request) int {
	userId, ok := r.Context().Value(SessionKeyUserId).(int)
	if !ok {
		panic("missing user id from context")
	}

	return userId
}

// sessionGetBooking loads the in-progress purchase wizard from the
// session. A missing or corrupt entry yields a fresh booking: nothing was
// persisted yet, so starting over is always safe.
func (app *Application) sessionGetBooking(ctx context.Context) domain.Booking {
	raw := app.sessionManager.GetString(ctx, SessionKeyBooking.String())
	if raw == "" {
		return domain.NewBooking()
	}

	var booking domain.Booking
	if err := json.Unmarshal([]byte(raw), &booking); err != nil {
		return domain.NewBooking()
	}

	return booking
}

func (app *Application) sessionPutBooking(ctx context.Context, booking domain.Booking) error {
	raw, err := json.Marshal(booking)
	if err != nil {
		return err
	}

	app.sessionManager.Put(ctx, SessionKeyBooking.String(), string(raw))

	return nil
}

func (app *Application) sessionDeleteBooking(ctx context.Context) {
	app.sessionManager.Remove(ctx, SessionKeyBooking.String())
}
