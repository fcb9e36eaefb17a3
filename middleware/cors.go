package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// CORS allows the configured frontend origin. An empty origin allows all,
// which is the development default.
func CORS(allowedOrigin string) echo.MiddlewareFunc {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}

	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{allowedOrigin},
		AllowMethods: []string{
			echo.GET,
			echo.POST,
			echo.PUT,
			echo.DELETE,
			echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderContentType,
			echo.HeaderAuthorization,
		},
	})
}
