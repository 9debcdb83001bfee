package handler // declare the package name; contains HTTP handlers

import (
	"fmt"
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/iliyamo/checkin-api/internal/model"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running. It returns
// a plain text "ok" message with an HTTP 200 status code.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// RootHandler answers GET / with a readiness message. The message is fixed
// when the handler is built, so every request gets the same body.
type RootHandler struct {
	resp model.RootResponse
}

// NewRootHandler builds the readiness message for a server listening on port.
func NewRootHandler(port string) *RootHandler {
	return &RootHandler{resp: model.RootResponse{
		Message: fmt.Sprintf("API server is ready on port %s.", port),
	}}
}

// Root ignores the request entirely; headers and query parameters have no
// effect on the response.
func (h *RootHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, h.resp)
}
