package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/api/handler"
	"github.com/dcic-turnos/turnos-web/internal/api/middleware"
	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/api/view"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Answers JSON clients with {"error": "<message>"} and pages with the error page.
//
// A page request whose backend token was rejected loses its session and is
// sent to /login.
func NewHTTPErrorHandler(codec *session.Codec, bundle *i18n.Bundle, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		loc := middleware.LocaleFrom(c)
		if loc == nil {
			loc = bundle.Default()
		}
		code, msg := resolveError(err, loc, log, c)

		if middleware.WantsJSON(c) {
			_ = c.JSON(code, handler.ErrorResponse{Error: msg})
			return
		}
		if code == http.StatusUnauthorized {
			codec.Clear(c.Response())
			_ = c.Redirect(http.StatusSeeOther, "/login")
			return
		}

		p := &view.Page{
			Name:      "error",
			Title:     "errors.title",
			Locale:    loc,
			Languages: bundle.Options(loc),
			Path:      c.Request().URL.Path,
			Data:      view.Error{Status: code, Message: msg},
		}
		if sess, ok := middleware.SessionFrom(c); ok {
			u := sess.User
			p.User = &u
		}
		if rerr := c.Render(code, "error", p); rerr != nil {
			log.Error().Err(rerr).Msg("error page render failed")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, loc *i18n.Locale, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		switch he.Code {
		case http.StatusNotFound:
			msg = loc.T("errors.not_found")
		case http.StatusUnauthorized:
			msg = loc.T("errors.unauthenticated")
		case http.StatusForbidden:
			msg = loc.T("errors.forbidden")
		}
		return he.Code, msg
	}

	code := handler.StatusFor(err)
	if key := handler.SentinelKey(err); key != "" {
		return code, loc.T(key)
	}
	if code < http.StatusInternalServerError {
		return code, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return code, loc.T("errors.internal")
}
