package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/checkin-api/internal/model"
	"github.com/iliyamo/checkin-api/internal/service"
)

// CheckHandler serves POST /api/check, which lets a frontend confirm it can
// reach the API by sending a name and getting it back in a message.
type CheckHandler struct {
	Confirmer *service.Confirmer
}

func NewCheckHandler(c *service.Confirmer) *CheckHandler {
	return &CheckHandler{Confirmer: c}
}

// Check binds and validates the body, then echoes the name. Schema failures
// produce a 422 with field-level detail; any other bind error (unsupported
// media type, oversized body) is left to echo's error handler.
func (h *CheckHandler) Check(c echo.Context) error {
	// echo skips decoding when Content-Length is zero; report the body itself
	// as missing rather than the field.
	if c.Request().ContentLength == 0 {
		return c.JSON(http.StatusUnprocessableEntity, missingBody())
	}

	var req model.ClientData
	if err := c.Bind(&req); err != nil {
		if verr, ok := bindFailure(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, verr)
		}
		return err
	}
	if err := c.Validate(&req); err != nil {
		if verr, ok := validationFailure(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, verr)
		}
		return err
	}

	name := *req.Name
	return c.JSON(http.StatusOK, model.CheckResponse{
		Status:             model.StatusOK,
		Message:            h.Confirmer.Confirm(name),
		ClientNameReceived: name,
	})
}
