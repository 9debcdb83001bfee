package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/checkin-api/internal/config"
)

// allMethods is sent in Access-Control-Allow-Methods on preflight so that
// allowed origins may use any method, not just the ones routed on the path.
var allMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPut,
	http.MethodPatch,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
}

// CORS grants the configured origins any method and any header, with
// credentials. Leaving AllowHeaders empty makes echo reflect the
// Access-Control-Request-Headers of the preflight. Other origins get no
// Access-Control-Allow-* headers and are left to the browser to block.
func CORS(cfg config.CORSConfig) echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     allMethods,
		AllowCredentials: true,
		MaxAge:           cfg.MaxAge,
	})
}
