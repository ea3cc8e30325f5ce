package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type stockResponse struct {
	ErrorResponse
	Product   string `json:"product"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

const internalMessage = "Something went wrong. Please try again."

// ErrorHandler turns domain and fiber errors into JSON. Unknown errors are
// logged and answered with a generic 500; their text never reaches the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var stock *domain.InsufficientStockError
	var fe *fiber.Error

	switch {
	case errors.As(err, &stock):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(stockResponse{
			ErrorResponse: ErrorResponse{Error: "insufficient_stock", Message: stock.Error()},
			Product:       stock.ProductID,
			Available:     stock.Available,
			Requested:     stock.Requested,
		})
	case errors.Is(err, domain.ErrNotFound):
		return reply(c, fiber.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		msg := invalidMessage(err)
		applog.Security(c, "validation.fail", map[string]any{"error": msg})
		return reply(c, fiber.StatusBadRequest, "invalid_input", msg)
	case errors.Is(err, domain.ErrUnauthorized):
		return reply(c, fiber.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		return reply(c, fiber.StatusForbidden, "forbidden", "not allowed")
	case errors.Is(err, domain.ErrConflict):
		return reply(c, fiber.StatusConflict, "conflict", "the resource changed or already exists, retry")
	case errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError:
		return reply(c, fe.Code, codeFor(fe.Code), fe.Message)
	}

	applog.Error(c, "server.error", err, nil)
	return reply(c, fiber.StatusInternalServerError, "internal", internalMessage)
}

func reply(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Error: code, Message: msg})
}

// invalidMessage keeps storage details out of the reply.
func invalidMessage(err error) string {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	if err == domain.ErrInvalidQuantity {
		return err.Error()
	}
	return "invalid input"
}

func codeFor(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	case fiber.StatusRequestEntityTooLarge:
		return "too_large"
	case fiber.StatusTooManyRequests:
		return "rate_limited"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusForbidden:
		return "forbidden"
	}
	return "bad_request"
}
