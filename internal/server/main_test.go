package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"forum/internal/config"
	"forum/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testServer struct {
	*Server
	app *fiber.App
	mr  *miniredis.Miniredis
}

// envelope is the decoded body of every reply.
type envelope struct {
	Name    string         `json:"name"`
	Message string         `json:"message"`
	Payload map[string]any `json:"payload"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Port:            "0",
		Env:             "test",
		JWTSecret:       "test-secret-that-is-long-enough-for-hs256",
		TokenTTLMinutes: 60,
		BcryptCost:      4,
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s, err := NewServerWithDeps(testConfig(), newTestDB(t), rdb)
	require.NoError(t, err)

	return &testServer{Server: s, app: s.NewApp(), mr: mr}
}

// newTestServerWithoutRedis builds a server with no Redis client, so no
// session revocation is recorded.
func newTestServerWithoutRedis(t *testing.T) *testServer {
	t.Helper()

	s, err := NewServerWithDeps(testConfig(), newTestDB(t), nil)
	require.NoError(t, err)

	return &testServer{Server: s, app: s.NewApp()}
}

// do sends a request and decodes the reply envelope.
func (ts *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func tokenCookieFrom(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == tokenCookie {
			return c
		}
	}
	return nil
}

// signup creates a user and logs them in, returning the id and cookie.
func (ts *testServer) signup(t *testing.T, username string) (uint, *http.Cookie) {
	t.Helper()

	resp, env := ts.do(t, http.MethodPost, "/user", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "password",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	resp, env = ts.do(t, http.MethodPost, "/auth/login", map[string]any{
		"username": username,
		"password": "password",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	cookie := tokenCookieFrom(resp)
	require.NotNil(t, cookie)

	user := env.Payload["user"].(map[string]any)
	return uint(user["id"].(float64)), cookie
}

func payloadID(t *testing.T, env envelope, key string) uint {
	t.Helper()
	obj, ok := env.Payload[key].(map[string]any)
	require.True(t, ok, "payload has no %q: %v", key, env.Payload)
	return uint(obj["id"].(float64))
}
