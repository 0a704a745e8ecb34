package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

// Locale resolves the request locale and persists an explicit ?lang choice.
func Locale(bundle *i18n.Bundle) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			loc, persist := bundle.Resolve(c.Request())
			if persist {
				i18n.SetLanguageCookie(c.Response(), loc)
			}
			c.Set(ctxLocale, loc)
			c.Response().Header().Set("Content-Language", loc.Tag.String())
			return next(c)
		}
	}
}
