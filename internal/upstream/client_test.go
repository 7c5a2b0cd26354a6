package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSendsCredentialAndAccept(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-key")
	payload, err := c.Fetch(context.Background(), "/ios/applications/reviews.json", map[string]any{"appId": "1"})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(payload, &body))
	assert.Equal(t, true, body["ok"])

	assert.Equal(t, "secret-key", got.Header.Get("X-Analytics-Key"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "/ios/applications/reviews.json", got.URL.Path)
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	_, err := c.Fetch(context.Background(), "/ios/keywords/top.json", nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "quota exceeded")
	assert.Contains(t, err.Error(), "429")
}

func TestEncodeQueryListAndNilHandling(t *testing.T) {
	values := encodeQuery(map[string]any{
		"appIds":  []string{"1", "2"},
		"country": "US",
		"count":   float64(25),
		"omitted": nil,
	})

	assert.Equal(t, []string{"1", "2"}, values["appIds[]"])
	assert.Equal(t, "US", values.Get("country"))
	assert.Equal(t, "25", values.Get("count"))
	_, present := values["omitted"]
	assert.False(t, present, "nil values must be omitted entirely")
}

func TestEncodeQueryAnySlice(t *testing.T) {
	values := encodeQuery(map[string]any{"appIds": []any{"a", "b"}})
	assert.Equal(t, []string{"a", "b"}, values["appIds[]"])
}

func TestFetchSerializesListParams(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	_, err := c.Fetch(context.Background(), "/ios/keywords/top.json", map[string]any{
		"appIds":  []any{"389801252", "310633997"},
		"country": "US",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"389801252", "310633997"}, query["appIds[]"])
	assert.Equal(t, "US", query.Get("country"))
}
