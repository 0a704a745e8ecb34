package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/dcic-turnos/turnos-web/internal/api/handler"
	"github.com/dcic-turnos/turnos-web/internal/api/middleware"
	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/api/view"
	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

// Deps are the services and infrastructure the router wires together.
type Deps struct {
	Auth    ports.AuthService
	Profile ports.ProfileService
	Rooms   ports.RoomService
	Shifts  ports.ShiftService

	Codec  *session.Codec
	Bundle *i18n.Bundle
	Log    zerolog.Logger

	// Checks are the readiness probes by dependency name.
	Checks map[string]handler.Check
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Codec, d.Bundle, d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "turnos",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))
	e.Use(middleware.Locale(d.Bundle))
	e.Use(middleware.Auth(d.Codec))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Codec, d.Bundle, d.Log)
	shiftHandler := handler.NewShiftHandler(d.Shifts, d.Rooms, d.Codec, d.Bundle, d.Log)
	roomHandler := handler.NewRoomHandler(d.Rooms, d.Codec, d.Bundle, d.Log)
	profileHandler := handler.NewProfileHandler(d.Profile, d.Codec, d.Bundle, d.Log)
	healthHandler := handler.NewHealthHandler(d.Checks)

	signedOut := middleware.RedirectIfSignedIn("/")
	signedIn := middleware.RequireSession()
	admin := middleware.RBAC(domain.RoleAdmin)

	// --- Public routes ---
	e.GET("/login", authHandler.LoginPage, signedOut)
	e.POST("/login", authHandler.Login, signedOut)
	e.GET("/register", authHandler.RegisterPage, signedOut)
	e.POST("/register", authHandler.Register, signedOut)
	e.GET("/forgot-password", authHandler.ForgotPasswordPage)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.GET("/reset-password", authHandler.ResetPasswordPage)
	e.POST("/reset-password", authHandler.ResetPassword)
	e.POST("/logout", authHandler.Logout)

	// --- Signed-in routes ---
	e.GET("/", shiftHandler.List, signedIn)
	e.GET("/turnos", shiftHandler.List, signedIn)
	e.GET("/turnos/new", shiftHandler.NewPage, signedIn)
	e.POST("/turnos", shiftHandler.Create, signedIn)
	e.GET("/turnos/:id", shiftHandler.Get, signedIn)
	e.GET("/turnos/:id/edit", shiftHandler.EditPage, signedIn)
	e.POST("/turnos/:id", shiftHandler.Update, signedIn)
	e.PUT("/turnos/:id", shiftHandler.Update, signedIn)
	e.POST("/turnos/:id/status", shiftHandler.ChangeStatus, signedIn, admin)
	e.POST("/turnos/:id/cancel", shiftHandler.Cancel, signedIn)
	e.POST("/turnos/:id/accept", shiftHandler.Accept, signedIn)
	e.POST("/turnos/:id/reject", shiftHandler.Reject, signedIn)

	e.GET("/perfil", profileHandler.Page, signedIn)
	e.POST("/perfil", profileHandler.Update, signedIn)
	e.POST("/perfil/picture", profileHandler.UploadPicture, signedIn)
	e.POST("/perfil/password", authHandler.ChangePassword, signedIn)

	// --- Admin routes ---
	rooms := e.Group("/salas", signedIn, admin)
	rooms.GET("", roomHandler.List)
	rooms.POST("", roomHandler.Add)
	rooms.DELETE("/:id", roomHandler.Delete)
	rooms.POST("/:id/delete", roomHandler.Delete)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/health" || p == "/health/ready" || p == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
