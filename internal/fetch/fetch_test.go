package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		srv.Close()
		srv.Client().CloseIdleConnections()
	})
	return srv
}

func TestGetSendsHeadersAndReturnsBody(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<p>hi</p>"))
	})

	c := New(time.Second, 0, "test-agent")
	c.HTTP = srv.Client()
	c.Header = http.Header{"Authorization": {"Bearer k"}}

	resp, err := c.Get(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(resp.Body))
	assert.Contains(t, resp.ContentType, "text/html")
	assert.Equal(t, srv.URL+"/page", resp.FinalURL)
}

func TestGetRejectsBadStatus(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	c := New(time.Second, 0, "")
	c.HTTP = srv.Client()

	_, err := c.Bytes(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrStatus)
}

func TestGetEnforcesSizeLimit(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		// chunked so the size check happens while reading
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	})
	c := New(time.Second, 16, "")
	c.HTTP = srv.Client()

	_, err := c.Bytes(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestGetRejectsInvalidURL(t *testing.T) {
	_, err := New(0, 0, "").Bytes(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestJSONDecodes(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"Tariff","extract":"A tax on imports."}`))
	})
	c := New(time.Second, 0, "")
	c.HTTP = srv.Client()

	var out struct {
		Title   string `json:"title"`
		Extract string `json:"extract"`
	}
	require.NoError(t, c.JSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "Tariff", out.Title)
	assert.Equal(t, "A tax on imports.", out.Extract)
}
