package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourse/discovery/internal/app/models"
)

type commerceFixture struct {
	tokenRequests int
	modeRequests  int
	lastAuth      string
	lastPayload   courseModesPayload
	modeStatus    int
}

func newCommerceServer(t *testing.T, f *commerceFixture) *httptest.Server {
	t.Helper()
	if f.modeStatus == 0 {
		f.modeStatus = http.StatusOK
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/access_token/", func(w http.ResponseWriter, r *http.Request) {
		f.tokenRequests++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken: "test-token",
			ExpiresIn:   3600,
			TokenType:   "jwt",
		})
	})
	mux.HandleFunc("/commerce/courses/", func(w http.ResponseWriter, r *http.Request) {
		f.modeRequests++
		f.lastAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastPayload))
		w.WriteHeader(f.modeStatus)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClientForTest(srv *httptest.Server) *Client {
	return NewClient(Config{
		TokenURL:     srv.URL + "/oauth2/access_token/",
		ClientID:     "discovery",
		ClientSecret: "secret",
		Timeout:      5 * time.Second,
	})
}

func TestClient_UpdateCourseModes(t *testing.T) {
	ctx := context.Background()

	t.Run("Should PUT the modes with a bearer token", func(t *testing.T) {
		f := &commerceFixture{}
		srv := newCommerceServer(t, f)
		c := newClientForTest(srv)

		modes := []CourseMode{{Name: "masters", Currency: "USD"}}
		ok, err := c.UpdateCourseModes(ctx, srv.URL+"/commerce/", "course-v1:MITx+6.002x+1T2026", modes)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Bearer test-token", f.lastAuth)
		assert.Equal(t, "course-v1:MITx+6.002x+1T2026", f.lastPayload.ID)
		assert.Equal(t, modes, f.lastPayload.Modes)
	})

	t.Run("Should reuse the cached token across calls", func(t *testing.T) {
		f := &commerceFixture{}
		srv := newCommerceServer(t, f)
		c := newClientForTest(srv)

		for i := 0; i < 3; i++ {
			_, err := c.UpdateCourseModes(ctx, srv.URL+"/commerce/", "run", nil)
			require.NoError(t, err)
		}

		assert.Equal(t, 1, f.tokenRequests)
		assert.Equal(t, 3, f.modeRequests)
	})

	t.Run("Should report ok=false on a non-2xx response", func(t *testing.T) {
		f := &commerceFixture{modeStatus: http.StatusForbidden}
		srv := newCommerceServer(t, f)
		c := newClientForTest(srv)

		ok, err := c.UpdateCourseModes(ctx, srv.URL+"/commerce/", "run", nil)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Should fail when the token endpoint rejects the credentials", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)
		c := NewClient(Config{TokenURL: srv.URL, Timeout: 5 * time.Second})

		ok, err := c.UpdateCourseModes(ctx, srv.URL+"/commerce/", "run", nil)

		require.Error(t, err)
		assert.False(t, ok)
	})
}

func TestModesForSeats(t *testing.T) {
	sku := "ABC123"
	deadline := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	seats := []*models.Seat{
		{Type: models.SeatTypeVerified, Price: 149, CurrencyCode: "USD", SKU: &sku, UpgradeDeadline: &deadline},
		{Type: models.SeatTypeMasters, CurrencyCode: "USD"},
	}

	modes := ModesForSeats(seats)

	require.Len(t, modes, 2)
	assert.Equal(t, CourseMode{Name: "verified", Currency: "USD", Price: 149, SKU: &sku, Expires: &deadline}, modes[0])
	assert.Equal(t, CourseMode{Name: "masters", Currency: "USD"}, modes[1])
}
