package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"testing"

	"github.com/ozherelyev/cinema-ticketing/internal/domain"
	"github.com/stretchr/testify/require"
)

// newClient returns an HTTP client with its own cookie jar, standing in
// for one browser session.
func (s *BaseSuite) newClient() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)

	return &http.Client{Jar: jar}
}

func (s *BaseSuite) doJSON(t testing.TB, client *http.Client, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := client.Do(req)
	require.NoError(t, err)

	return res
}

func decodeJSON[T any](t testing.TB, res *http.Response) T {
	t.Helper()

	defer res.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))

	return v
}

// seedUser inserts a user through the repository, bypassing the HTTP
// registration flow. Admin accounts can only be created this way.
func (s *BaseSuite) seedUser(t testing.TB, username, email, password string, isAdmin bool) *domain.User {
	t.Helper()

	user := &domain.User{
		Username: username,
		Email:    email,
		Phone:    "+15550123456",
		IsAdmin:  isAdmin,
	}
	require.NoError(t, user.Password.Set(password))

	require.NoError(t, s.app.UserRepo.Create(context.Background(), user))

	return user
}

func (s *BaseSuite) seedShow(t testing.TB, name string) *domain.Show {
	t.Helper()

	show := &domain.Show{Name: name, Description: "seeded for tests"}
	require.NoError(t, s.app.ShowRepo.Create(context.Background(), show))

	return show
}

// loginAs authenticates the client's session through the login endpoint.
func (s *BaseSuite) loginAs(t testing.TB, client *http.Client, email, password string) {
	t.Helper()

	res := s.doJSON(t, client, http.MethodPost, "/sessions", map[string]string{
		"email":    email,
		"password": password,
	})
	defer res.Body.Close()

	require.Equal(t, http.StatusNoContent, res.StatusCode, "login failed for %s", email)
}

func (s *BaseSuite) countTickets(t testing.TB, showID int) int {
	t.Helper()

	var count int
	err := s.app.DB.QueryRow(context.Background(),
		"SELECT count(*) FROM tickets WHERE show_id = $1", showID).Scan(&count)
	require.NoError(t, err)

	return count
}

func bookingPath(step string) string {
	return fmt.Sprintf("/booking/%s", step)
}
