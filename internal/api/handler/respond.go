package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/api/metrics"
	"github.com/dcic-turnos/turnos-web/internal/api/middleware"
	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/api/view"
	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

// responder answers form actions. JSON clients get an actionResponse; pages
// get a flash toast and a 303 redirect (Post/Redirect/Get).
type responder struct {
	codec  *session.Codec
	bundle *i18n.Bundle
	log    zerolog.Logger
}

// outcome is a successful action: a catalog message plus optional extra lines.
type outcome struct {
	action  string
	key     string
	args    []any
	details []message
	data    any
}

type message struct {
	key  string
	args []any
}

func (r responder) locale(c echo.Context) *i18n.Locale {
	if loc := middleware.LocaleFrom(c); loc != nil {
		return loc
	}
	return r.bundle.Default()
}

// page renders a full HTML page.
func (r responder) page(c echo.Context, status int, name, title string, data any) error {
	loc := r.locale(c)
	p := &view.Page{
		Name:      name,
		Title:     title,
		Locale:    loc,
		Languages: r.bundle.Options(loc),
		Path:      c.Request().URL.Path,
		Data:      data,
	}
	if sess, ok := middleware.SessionFrom(c); ok {
		u := sess.User
		p.User = &u
	}
	if f, ok := r.codec.PopFlash(c.Response(), c.Request()); ok {
		p.Flash = f
	}
	return c.Render(status, name, p)
}

func (r responder) success(c echo.Context, to string, out outcome) error {
	metrics.ActionsTotal.WithLabelValues(out.action, "success").Inc()
	loc := r.locale(c)

	res := actionResponse{
		Type:    domain.ResultSuccess,
		Message: loc.T(out.key, out.args...),
		Data:    out.data,
	}
	for _, d := range out.details {
		res.Details = append(res.Details, loc.T(d.key, d.args...))
	}

	if middleware.WantsJSON(c) {
		return c.JSON(http.StatusOK, res)
	}
	if err := r.codec.WriteFlash(c.Response(), session.Flash{Type: res.Type, Message: res.Message, Details: res.Details}); err != nil {
		r.log.Warn().Err(err).Msg("flash write failed")
	}
	return c.Redirect(http.StatusSeeOther, to)
}

// failure reports err without failing the request: the page goes back to
// the form with its error state, JSON clients get the mapped status.
func (r responder) failure(c echo.Context, back, action, key string, err error, form map[string]string) error {
	metrics.ActionsTotal.WithLabelValues(action, "error").Inc()
	loc := r.locale(c)

	res := domain.Failure(key, err)
	if k := SentinelKey(err); k != "" {
		res.Message = k
	}
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		r.log.Error().Err(err).Str("action", action).Str("path", c.Path()).Msg("action failed")
	} else {
		r.log.Debug().Err(err).Str("action", action).Msg("action rejected")
	}

	body := actionResponse{Type: domain.ResultError, Message: loc.T(res.Message, res.Args...)}
	if len(res.Errors) > 0 {
		body.Errors = make(map[string][]string, len(res.Errors))
		for field, msgs := range res.Errors {
			for _, m := range msgs {
				body.Errors[field] = append(body.Errors[field], loc.T(m))
			}
		}
	}

	if middleware.WantsJSON(c) {
		return c.JSON(status, body)
	}
	if status == http.StatusUnauthorized {
		r.codec.Clear(c.Response())
		back = "/login"
	}
	if err := r.codec.WriteFlash(c.Response(), session.Flash{Type: body.Type, Message: body.Message, Errors: body.Errors, Form: form}); err != nil {
		r.log.Warn().Err(err).Msg("flash write failed")
	}
	return c.Redirect(http.StatusSeeOther, back)
}

// SentinelKey returns the catalog key for local sentinel errors. Backend
// errors that carry their own message keep it.
func SentinelKey(err error) string {
	var re *domain.RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return ""
	}
	switch {
	case errors.Is(err, domain.ErrBackendUnavailable):
		return "errors.backend_unavailable"
	case errors.Is(err, domain.ErrBackendUnreachable):
		return "errors.backend_unreachable"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "errors.unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "errors.forbidden"
	case errors.Is(err, domain.ErrShiftNotFound):
		return "errors.shift_not_found"
	case errors.Is(err, domain.ErrInvitationNotFound):
		return "errors.invitation_not_found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "errors.invalid_transition"
	case errors.Is(err, domain.ErrShiftCancelled):
		return "errors.shift_cancelled"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return "errors.not_found"
	}
	return ""
}

// StatusFor maps an error to the status JSON clients receive.
func StatusFor(err error) int {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity
	}
	switch {
	case errors.Is(err, domain.ErrInvalidPicture):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrBackendUnreachable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrShiftNotFound), errors.Is(err, domain.ErrInvitationNotFound),
		errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrShiftCancelled):
		return http.StatusConflict
	}
	var re *domain.RemoteError
	if errors.As(err, &re) {
		if re.Status >= 400 && re.Status < 500 {
			return re.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// returnTo picks a local redirect target, falling back when raw is not a
// same-site path.
func returnTo(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	return raw
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
