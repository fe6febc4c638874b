package integration_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/ozherelyev/cinema-ticketing/api"
	"github.com/ozherelyev/cinema-ticketing/internal/domain"
	"github.com/stretchr/testify/suite"
)

type AdminTestSuite struct {
	BaseSuite
}

func TestAdminSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(AdminTestSuite))
}

func (s *AdminTestSuite) sellSeat(t testing.TB, showID, userID, row, seat int) {
	t.Helper()

	ticket := &domain.Ticket{ShowID: showID, UserID: userID, Row: row, Seat: seat}
	s.Require().NoError(s.app.TicketRepo.Create(context.Background(), ticket))
}

func (s *AdminTestSuite) TestClearShowTickets() {
	t := s.T()

	show := s.seedShow(t, "Solaris")
	buyer := s.seedUser(t, "dana", "dana@example.com", "Sup3rSecret!", false)
	s.seedUser(t, "root", "admin@example.com", "Sup3rSecret!", true)

	s.sellSeat(t, show.ID, buyer.ID, 1, 1)
	s.sellSeat(t, show.ID, buyer.ID, 1, 2)
	s.sellSeat(t, show.ID, buyer.ID, 2, 3)

	admin := s.newClient()
	s.loginAs(t, admin, "admin@example.com", "Sup3rSecret!")

	res := s.doJSON(t, admin, http.MethodDelete, fmt.Sprintf("/shows/%d/tickets", show.ID), nil)
	s.Equal(http.StatusOK, res.StatusCode)

	cleared := decodeJSON[api.ClearShowResponse](t, res)
	s.Equal(show.ID, cleared.ShowId)
	s.Equal(int64(3), cleared.TicketsDeleted)
	s.Equal(0, s.countTickets(t, show.ID))

	// clearing again is a no-op, not an error
	res = s.doJSON(t, admin, http.MethodDelete, fmt.Sprintf("/shows/%d/tickets", show.ID), nil)
	s.Equal(http.StatusOK, res.StatusCode)
	s.Equal(int64(0), decodeJSON[api.ClearShowResponse](t, res).TicketsDeleted)

	// an unknown show still comes back as 404
	res = s.doJSON(t, admin, http.MethodDelete, "/shows/999/tickets", nil)
	defer res.Body.Close()
	s.Equal(http.StatusNotFound, res.StatusCode)
}

func (s *AdminTestSuite) TestDeleteShowCascadesToTickets() {
	t := s.T()

	show := s.seedShow(t, "Stalker")
	buyer := s.seedUser(t, "dana", "dana@example.com", "Sup3rSecret!", false)
	s.seedUser(t, "root", "admin@example.com", "Sup3rSecret!", true)

	s.sellSeat(t, show.ID, buyer.ID, 1, 1)
	s.sellSeat(t, show.ID, buyer.ID, 2, 2)

	admin := s.newClient()
	s.loginAs(t, admin, "admin@example.com", "Sup3rSecret!")

	res := s.doJSON(t, admin, http.MethodDelete, fmt.Sprintf("/shows/%d", show.ID), nil)
	defer res.Body.Close()

	s.Equal(http.StatusNoContent, res.StatusCode)
	s.Equal(0, s.countTickets(t, show.ID))

	res = s.doJSON(t, admin, http.MethodGet, fmt.Sprintf("/shows/%d", show.ID), nil)
	defer res.Body.Close()
	s.Equal(http.StatusNotFound, res.StatusCode)
}

func (s *AdminTestSuite) TestAdminEndpointsRejectRegularUsers() {
	t := s.T()

	show := s.seedShow(t, "Mirror")
	s.seedUser(t, "dana", "dana@example.com", "Sup3rSecret!", false)

	client := s.newClient()
	s.loginAs(t, client, "dana@example.com", "Sup3rSecret!")

	res := s.doJSON(t, client, http.MethodDelete, fmt.Sprintf("/shows/%d/tickets", show.ID), nil)
	defer res.Body.Close()

	s.Equal(http.StatusForbidden, res.StatusCode)
	s.Equal(0, s.countTickets(t, show.ID))
}
