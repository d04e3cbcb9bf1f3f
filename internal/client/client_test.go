package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestLoginKeepsToken(t *testing.T) {
	var seenAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "admin@atobs.test", body["email"])
			writeJSON(w, http.StatusOK, `{"success":true,"message":"Login successful","data":{"access_token":"tok-1","user":{"email":"admin@atobs.test","role":"admin"}}}`)
		case "/api/ats/jobs":
			seenAuth = r.Header.Get("Authorization")
			assert.Equal(t, "open", r.URL.Query().Get("status"))
			writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":"6f1c2b1e-8d7a-4a43-9b0e-2b7f7f0a1c11","title":"SRE","status":"open","stats":{"total":3}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(&config.ClientConfig{BaseURL: srv.URL + "/api"})
	ctx := context.Background()

	login, err := c.Login(ctx, "admin@atobs.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, login.User.Role)

	jobs, err := c.Jobs(ctx, "open", "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "SRE", jobs[0].Title)
	assert.Equal(t, "Bearer tok-1", seenAuth)
}

func TestApplicationsPassesFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "vetted", q.Get("stage"))
		assert.Equal(t, "2", q.Get("page"))
		assert.False(t, q.Has("search"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":[],"pagination":{"page":2,"page_size":20,"total_items":25,"total_pages":2}}`)
	}))
	defer srv.Close()

	c := New(&config.ClientConfig{BaseURL: srv.URL, Token: "tok"})
	items, page, err := c.Applications(context.Background(), ApplicationQuery{Stage: "vetted", Page: 2})
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NotNil(t, page)
	assert.EqualValues(t, 25, page.TotalItems)
}

func TestErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/ats/applications/abc/stage", r.URL.Path)
		writeJSON(w, http.StatusBadRequest, `{"success":false,"message":"A note is required when changing stage"}`)
	}))
	defer srv.Close()

	c := New(&config.ClientConfig{BaseURL: srv.URL})
	_, err := c.ChangeStage(context.Background(), "abc", "vetted", "")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "A note is required when changing stage", apiErr.Message)
}
