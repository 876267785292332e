package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.signup(t, "alice")

	tests := []struct {
		name     string
		username string
		password string
		status   int
		message  string
	}{
		{"unknown user", "nobody", "password", http.StatusUnauthorized, "Cannot login: User does not exist with nobody"},
		{"wrong password", "alice", "nope", http.StatusUnauthorized, "Cannot login: Invalid password"},
		{"success", "alice", "password", http.StatusOK, "User logged in successfully!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := ts.do(t, http.MethodPost, "/auth/login", map[string]any{
				"username": tt.username,
				"password": tt.password,
			}, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.message, env.Message)

			cookie := tokenCookieFrom(resp)
			if tt.status == http.StatusOK {
				require.NotNil(t, cookie)
				assert.True(t, cookie.HttpOnly)
				assert.NotEmpty(t, cookie.Value)
			} else {
				assert.Nil(t, cookie)
				assert.Equal(t, "AuthenticationError", env.Name)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	_, alice := ts.signup(t, "alice")

	resp, env := ts.do(t, http.MethodPost, "/auth/logout", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Cannot logout: User not currently logged in", env.Message)

	resp, env = ts.do(t, http.MethodPost, "/auth/logout", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User logged out successfully!", env.Message)
	cleared := tokenCookieFrom(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	// The logged out token no longer authenticates.
	resp, env = ts.do(t, http.MethodPost, "/category", map[string]any{
		"title":       "Go",
		"description": "gophers",
	}, alice)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Cannot create Category: User not currently logged in", env.Message)
}

func TestAuth_RedisOutageFailsOpen(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	_, alice := ts.signup(t, "alice")

	ts.mr.Close()

	resp, env := ts.do(t, http.MethodPost, "/category", map[string]any{
		"title":       "Go",
		"description": "gophers",
	}, alice)
	assert.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
}
