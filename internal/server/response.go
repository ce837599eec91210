package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse wraps a successful reply.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse wraps a failed reply.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(SuccessResponse{Success: true, Data: data})
}

func ok(c *fiber.Ctx, data any) error {
	return success(c, fiber.StatusOK, data)
}

func fail(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}

// errorHandler renders errors that escape handlers, including fiber's own
// 404 and 405, in the error envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if fe, isFiber := err.(*fiber.Error); isFiber {
		status = fe.Code
	}
	return fail(c, status, err)
}
