package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

const (
	ctxSession = "session"
	ctxLocale  = "locale"
)

// SessionFrom returns the session loaded by Auth, if any.
func SessionFrom(c echo.Context) (*ports.Session, bool) {
	sess, ok := c.Get(ctxSession).(*ports.Session)
	return sess, ok && sess != nil
}

// UserFrom returns the signed-in user or the zero user.
func UserFrom(c echo.Context) domain.User {
	if sess, ok := SessionFrom(c); ok {
		return sess.User
	}
	return domain.User{}
}

// LocaleFrom returns the locale resolved by Locale, or nil when it did not run.
func LocaleFrom(c echo.Context) *i18n.Locale {
	loc, _ := c.Get(ctxLocale).(*i18n.Locale)
	return loc
}

// WantsJSON reports whether the client asked for a JSON answer instead of a page.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return true
	}
	return strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}
