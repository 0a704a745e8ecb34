package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/api/middleware"
	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/api/view"
	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

type AuthHandler struct {
	responder
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService, codec *session.Codec, bundle *i18n.Bundle, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		responder:   responder{codec: codec, bundle: bundle, log: log},
		authService: authService,
	}
}

type authResponse struct {
	User *domain.User `json:"user,omitempty"`
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	return h.page(c, http.StatusOK, "login", "auth.login.title", view.Auth{Next: c.QueryParam("next")})
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return h.page(c, http.StatusOK, "register", "auth.register.title", view.Auth{})
}

func (h *AuthHandler) ForgotPasswordPage(c echo.Context) error {
	return h.page(c, http.StatusOK, "forgot", "auth.forgot.title", view.Auth{})
}

func (h *AuthHandler) ResetPasswordPage(c echo.Context) error {
	return h.page(c, http.StatusOK, "reset", "auth.reset.title", view.Auth{Token: c.QueryParam("token")})
}

// Login authenticates against the backend and stores the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "DNI and password"
// @Success      200   {object}  actionResponse
// @Failure      401   {object}  actionResponse
// @Failure      422   {object}  actionResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return h.failure(c, "/login", "login", "auth.login_failed", bindError(err), nil)
	}
	form := map[string]string{"dni": req.DNI, "next": req.Next}
	if err := c.Validate(&req); err != nil {
		return h.failure(c, "/login", "login", "auth.login_failed", err, form)
	}

	sess, err := h.authService.Login(c.Request().Context(), req.DNI, req.Password)
	if err != nil {
		return h.failure(c, "/login", "login", "auth.login_failed", err, form)
	}
	if err := h.codec.Write(c.Response(), *sess); err != nil {
		return err
	}
	return h.success(c, returnTo(req.Next, "/"), outcome{
		action: "login",
		key:    "auth.login_ok",
		args:   []any{sess.User.FullName},
		data:   authResponse{User: &sess.User},
	})
}

// Register creates an account on the backend.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      200   {object}  actionResponse
// @Failure      409   {object}  actionResponse
// @Failure      422   {object}  actionResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return h.failure(c, "/register", "register", "auth.register_failed", bindError(err), nil)
	}
	form := map[string]string{"dni": req.DNI, "full_name": req.FullName, "email": req.Email}
	if err := c.Validate(&req); err != nil {
		return h.failure(c, "/register", "register", "auth.register_failed", err, form)
	}

	err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		DNI:      req.DNI,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.failure(c, "/register", "register", "auth.register_failed", err, form)
	}
	return h.success(c, "/login", outcome{action: "register", key: "auth.registered"})
}

// Logout ends the session. The cookie is cleared even when the backend call fails.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  actionResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, ok := middleware.SessionFrom(c); ok {
		if err := h.authService.Logout(c.Request().Context()); err != nil {
			h.log.Warn().Err(err).Msg("backend logout failed")
		}
	}
	h.codec.Clear(c.Response())
	return h.success(c, "/login", outcome{action: "logout", key: "auth.logged_out"})
}

// ForgotPassword asks the backend to send recovery instructions.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  actionResponse
// @Failure      422   {object}  actionResponse
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return h.failure(c, "/forgot-password", "forgot_password", "auth.forgot_failed", bindError(err), nil)
	}
	form := map[string]string{"email": req.Email}
	if err := c.Validate(&req); err != nil {
		return h.failure(c, "/forgot-password", "forgot_password", "auth.forgot_failed", err, form)
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return h.failure(c, "/forgot-password", "forgot_password", "auth.forgot_failed", err, form)
	}
	return h.success(c, "/reset-password", outcome{action: "forgot_password", key: "auth.forgot_sent"})
}

// ResetPassword sets a new password with a recovery token.
//
// @Summary      Reset a password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  actionResponse
// @Failure      422   {object}  actionResponse
// @Router       /reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return h.failure(c, "/reset-password", "reset_password", "auth.reset_failed", bindError(err), nil)
	}
	form := map[string]string{"token": req.Token}
	if err := c.Validate(&req); err != nil {
		return h.failure(c, "/reset-password", "reset_password", "auth.reset_failed", err, form)
	}
	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return h.failure(c, "/reset-password", "reset_password", "auth.reset_failed", err, form)
	}
	return h.success(c, "/login", outcome{action: "reset_password", key: "auth.reset_ok"})
}

// ChangePassword updates the signed-in user's password.
//
// @Summary      Change password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  actionResponse
// @Failure      401   {object}  actionResponse
// @Failure      422   {object}  actionResponse
// @Router       /perfil/password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return h.failure(c, "/perfil", "change_password", "auth.password_change_failed", bindError(err), nil)
	}
	if err := c.Validate(&req); err != nil {
		return h.failure(c, "/perfil", "change_password", "auth.password_change_failed", err, nil)
	}
	actor := middleware.UserFrom(c)
	if err := h.authService.ChangePassword(c.Request().Context(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		return h.failure(c, "/perfil", "change_password", "auth.password_change_failed", err, nil)
	}
	return h.success(c, "/perfil", outcome{action: "change_password", key: "auth.password_changed"})
}

// bindError turns a malformed payload into a form-level validation error.
func bindError(err error) error {
	return fmt.Errorf("bind: %v: %w", err, &domain.ValidationError{Fields: domain.FieldErrors{"form": {"validation.invalid"}}})
}
