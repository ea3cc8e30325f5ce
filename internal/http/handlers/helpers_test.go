package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

func TestMain(m *testing.M) {
	repos.HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func testConfig() config.Config {
	return config.Config{
		DBDSN:           ":memory:",
		JWTSecret:       "test-secret",
		JWTIssuer:       "storefront-test",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		PageSize:        10,
		OrderRetries:    3,
		HashCost:        bcrypt.MinCost,
	}
}

func roomyLimits() handlers.Limits {
	return handlers.Limits{GlobalMax: 1000, TokenMax: 100, TokenWindow: time.Minute, AvailMax: 100, AvailWindow: time.Minute}
}

func newTestApp(t *testing.T, limits handlers.Limits) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := testConfig()
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return handlers.NewApp(handlers.NewDeps(db, cfg, nil, limits)), db
}

// call sends a JSON request and decodes a JSON object reply.
func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, username string) (access, refresh string) {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/token", "", map[string]string{
		"username": username, "password": repos.SeedPassword,
	})
	require.Equal(t, http.StatusOK, status, body)
	return body["access"].(string), body["refresh"].(string)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs swaps the standard logger output for the duration of fn.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
