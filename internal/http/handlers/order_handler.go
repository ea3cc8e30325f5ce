package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type placeRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// POST /api/orders places an order for the caller. Any user_id in the body
// is ignored.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return domain.Invalid("product_id", "required")
	}

	v := viewer(c)
	o, err := h.Orders.PlaceOrder(c.UserContext(), v.UserID, pid, req.Quantity)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"product": pid, "quantity": req.Quantity, "error": err.Error()})
		return err
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID,
		"product":  o.ProductID,
		"quantity": o.Quantity,
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// GET /api/orders
func (h *OrderHandler) History(c *fiber.Ctx) error {
	p, err := h.Orders.ListOrders(c.UserContext(), viewer(c), page(c))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// GET /api/orders/:id answers 404 for other people's orders.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, err := idParam(c)
	if err != nil {
		return err
	}
	o, err := h.Orders.GetOrder(c.UserContext(), viewer(c), oid)
	if err != nil {
		if errors.Is(err, domain.ErrOrderHidden) {
			applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		}
		return err
	}
	return c.JSON(o)
}

// DELETE /api/orders/:id drops the record. Stock is not returned.
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	oid, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Orders.DeleteOrder(c.UserContext(), viewer(c), oid); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			applog.Security(c, "access.denied.order", map[string]any{"order_id": oid, "op": "delete"})
		}
		return err
	}
	applog.Audit(c, "order.delete", map[string]any{"order_id": oid})
	return c.SendStatus(fiber.StatusNoContent)
}
