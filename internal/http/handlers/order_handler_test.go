package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrder_BindsCallerAndDebitsStock(t *testing.T) {
	app, _ := newTestApp(t, roomyLimits())
	alice, _ := login(t, app, "alice")

	status, body := call(t, app, http.MethodPost, "/api/orders", alice, map[string]any{
		"product_id": "chair-001", "quantity": 2, "user_id": "u-bob",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "u-alice", body["user_id"])
	assert.EqualValues(t, 2, body["quantity"])

	status, body = call(t, app, http.MethodGet, "/api/products/chair-001", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, body["stock_quantity"])
}

func TestPlaceOrder_ErrorStatuses(t *testing.T) {
	app, _ := newTestApp(t, roomyLimits())
	alice, _ := login(t, app, "alice")

	status, body := call(t, app, http.MethodPost, "/api/orders", alice, map[string]any{"product_id": "chair-001", "quantity": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "insufficient_stock", body["error"])
	assert.EqualValues(t, 5, body["available"])
	assert.Equal(t, "chair-001", body["product"])

	status, body = call(t, app, http.MethodPost, "/api/orders", alice, map[string]any{"product_id": "chair-001", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", body["error"])

	status, body = call(t, app, http.MethodPost, "/api/orders", alice, map[string]any{"product_id": "ghost-001", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["error"])

	status, _ = call(t, app, http.MethodPost, "/api/orders", "", map[string]any{"product_id": "chair-001", "quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, app, http.MethodGet, "/api/products/chair-001", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 5, body["stock_quantity"], "failed attempts leave stock alone")
}

func TestOrders_VisibilityByRole(t *testing.T) {
	app, _ := newTestApp(t, roomyLimits())
	alice, _ := login(t, app, "alice")
	bob, _ := login(t, app, "bob")
	staff, _ := login(t, app, "staff")

	status, body := call(t, app, http.MethodPost, "/api/orders", alice, map[string]any{"product_id": "lamp-001", "quantity": 1})
	require.Equal(t, http.StatusCreated, status)
	oid := body["id"].(string)

	var bobStatus int
	entries := captureLogs(t, func() {
		bobStatus, _ = call(t, app, http.MethodGet, "/api/orders/"+oid, bob, nil)
	})
	assert.Equal(t, http.StatusNotFound, bobStatus)
	e, ok := findLog(entries, "access.denied.order")
	require.True(t, ok, "expected access.denied.order log")
	assert.Equal(t, "u-bob", e.UserID)

	status, _ = call(t, app, http.MethodGet, "/api/orders/"+oid, staff, nil)
	assert.Equal(t, http.StatusOK, status)

	_, body = call(t, app, http.MethodGet, "/api/orders", bob, nil)
	assert.EqualValues(t, 0, body["count"])
	_, body = call(t, app, http.MethodGet, "/api/orders", alice, nil)
	assert.EqualValues(t, 1, body["count"])
	assert.EqualValues(t, 10, body["page_size"])

	status, _ = call(t, app, http.MethodDelete, "/api/orders/"+oid, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, http.MethodDelete, "/api/orders/"+oid, alice, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestPlaceOrder_AuditLogged(t *testing.T) {
	app, _ := newTestApp(t, roomyLimits())
	alice, _ := login(t, app, "alice")

	entries := captureLogs(t, func() {
		status, _ := call(t, app, http.MethodPost, "/api/orders", alice, map[string]any{"product_id": "pen-001", "quantity": 3})
		require.Equal(t, http.StatusCreated, status)
	})
	e, ok := findLog(entries, "order.place")
	require.True(t, ok)
	assert.Equal(t, "audit", e.Level)
	assert.Equal(t, "u-alice", e.UserID)
	assert.Equal(t, "pen-001", e.Fields["product"])
}
