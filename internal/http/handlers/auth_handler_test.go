package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_LoginAndRefresh(t *testing.T) {
	app, _ := newTestApp(t, roomyLimits())
	access, refresh := login(t, app, "alice")
	assert.NotEmpty(t, access)

	status, body := call(t, app, http.MethodPost, "/api/token/refresh", "", map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access"])

	// a refresh token is not a bearer credential
	status, _ = call(t, app, http.MethodGet, "/api/orders", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPost, "/api/token/refresh", "", map[string]string{"refresh": access})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestToken_FailureIsLogged(t *testing.T) {
	app, _ := newTestApp(t, roomyLimits())

	var status int
	var body map[string]any
	entries := captureLogs(t, func() {
		status, body = call(t, app, http.MethodPost, "/api/token", "", map[string]string{"username": "alice", "password": "nope12345"})
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid username or password", body["message"])
	e, ok := findLog(entries, "auth.login.fail")
	require.True(t, ok)
	assert.Equal(t, "warn", e.Level)
	assert.Equal(t, "alice", e.Fields["username"])
}

func TestBearer_MalformedHeaders(t *testing.T) {
	app, _ := newTestApp(t, roomyLimits())

	for _, token := range []string{"garbage", "a.b.c"} {
		status, body := call(t, app, http.MethodGet, "/api/products", token, nil)
		assert.Equal(t, http.StatusUnauthorized, status, token)
		assert.Equal(t, "unauthorized", body["error"])
	}

	status, _ := call(t, app, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusOK, status, "anonymous reads are allowed")
}

func TestUsers_RegisterAndAccess(t *testing.T) {
	app, _ := newTestApp(t, roomyLimits())

	status, body := call(t, app, http.MethodPost, "/api/users", "", map[string]string{
		"username": "carol", "email": "carol@example.com", "password": "hunter2hunter",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "USER", body["role"])
	_, leaked := body["password_hash"]
	assert.False(t, leaked)
	carolID := body["id"].(string)

	status, body = call(t, app, http.MethodPost, "/api/users", "", map[string]string{
		"username": "carol", "password": "hunter2hunter",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", body["error"])

	alice, _ := login(t, app, "alice")
	staff, _ := login(t, app, "staff")

	status, _ = call(t, app, http.MethodGet, "/api/users", alice, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, body = call(t, app, http.MethodGet, "/api/users", staff, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 4, body["count"])

	status, _ = call(t, app, http.MethodGet, "/api/users/"+carolID, alice, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, http.MethodDelete, "/api/users/"+carolID, staff, nil)
	assert.Equal(t, http.StatusNoContent, status)
}
