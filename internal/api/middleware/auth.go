package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/infrastructure/backend"
)

// Auth loads the session cookie into the context and forwards the backend
// token on the request context. Invalid cookies are cleared; it never rejects.
func Auth(codec *session.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if _, err := req.Cookie(session.CookieName); err != nil {
				return next(c)
			}

			sess, err := codec.Read(req)
			if err != nil {
				codec.Clear(c.Response())
				return next(c)
			}

			c.Set(ctxSession, sess)
			if sess.Token != "" {
				c.SetRequest(req.WithContext(backend.WithToken(req.Context(), sess.Token)))
			}
			return next(c)
		}
	}
}

// RequireSession rejects requests without a session: JSON clients get 401,
// pages are redirected to /login.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := SessionFrom(c); ok {
				return next(c)
			}
			if WantsJSON(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			target := "/login"
			if c.Request().Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			}
			return c.Redirect(http.StatusSeeOther, target)
		}
	}
}

// RedirectIfSignedIn sends signed-in users away from the login and register pages.
func RedirectIfSignedIn(to string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := SessionFrom(c); ok && c.Request().Method == http.MethodGet {
				return c.Redirect(http.StatusSeeOther, to)
			}
			return next(c)
		}
	}
}
