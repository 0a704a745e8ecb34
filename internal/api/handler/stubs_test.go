package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/api/middleware"
	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/api/view"
	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

var (
	adminUser = domain.User{ID: 1, DNI: "30000000", FullName: "Admin", Role: domain.RoleAdmin}
	plainUser = domain.User{ID: 2, DNI: "30111222", FullName: "Ana Gómez", Role: domain.RoleUser}
)

// testEnv is an echo instance configured like the router, minus the routes.
type testEnv struct {
	e      *echo.Echo
	codec  *session.Codec
	bundle *i18n.Bundle
	log    zerolog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	renderer, err := view.New()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	bundle, err := i18n.Load("es")
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	e := echo.New()
	e.Renderer = renderer
	e.Validator = NewValidator()
	return &testEnv{
		e:      e,
		codec:  session.NewCodec(session.Options{Secret: "test-secret", TTL: time.Hour}),
		bundle: bundle,
		log:    zerolog.Nop(),
	}
}

type call struct {
	method  string
	target  string
	body    string
	form    url.Values
	json    bool
	lang    string
	user    *domain.User
	params  map[string]string
	cookies []*http.Cookie
}

// do runs h behind the locale and session middleware.
func (env *testEnv) do(t *testing.T, h echo.HandlerFunc, cl call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	switch {
	case cl.form != nil:
		body = strings.NewReader(cl.form.Encode())
	case cl.body != "":
		body = strings.NewReader(cl.body)
	}
	req := httptest.NewRequest(cl.method, cl.target, body)
	if cl.form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else if cl.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cl.json {
		req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	}
	if cl.lang != "" {
		req.Header.Set("Accept-Language", cl.lang)
	}
	if cl.user != nil {
		req.AddCookie(env.sessionCookie(t, *cl.user))
	}
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	for name, value := range cl.params {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}

	chain := middleware.Locale(env.bundle)(middleware.Auth(env.codec)(h))
	if err := chain(c); err != nil {
		env.e.DefaultHTTPErrorHandler(err, c)
	}
	return rec
}

func (env *testEnv) sessionCookie(t *testing.T, u domain.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := env.codec.Write(rec, ports.Session{User: u, Token: "tok-" + u.DNI}); err != nil {
		t.Fatalf("write session: %v", err)
	}
	return rec.Result().Cookies()[0]
}

// flash decodes the flash cookie set on rec.
func (env *testEnv) flash(t *testing.T, rec *httptest.ResponseRecorder) *session.Flash {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.FlashCookieName {
			req.AddCookie(ck)
		}
	}
	f, ok := env.codec.PopFlash(httptest.NewRecorder(), req)
	if !ok {
		t.Fatalf("no flash cookie set")
	}
	return f
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func decodeAction(t *testing.T, rec *httptest.ResponseRecorder) actionResponse {
	t.Helper()
	var resp actionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

// ── service stubs ─────────────────────────────────────────────────────────────

type stubAuthService struct {
	loginFn          func(ctx context.Context, dni, password string) (*ports.Session, error)
	registerFn       func(ctx context.Context, in ports.RegisterInput) error
	logoutFn         func(ctx context.Context) error
	changePasswordFn func(ctx context.Context, actor domain.User, current, next string) error
	forgotFn         func(ctx context.Context, email string) error
	resetFn          func(ctx context.Context, token, password string) error
}

func (s *stubAuthService) Login(ctx context.Context, dni, password string) (*ports.Session, error) {
	return s.loginFn(ctx, dni, password)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	if s.registerFn == nil {
		return nil
	}
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Logout(ctx context.Context) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	if s.forgotFn == nil {
		return nil
	}
	return s.forgotFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, password string) error {
	if s.resetFn == nil {
		return nil
	}
	return s.resetFn(ctx, token, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, actor domain.User, current, next string) error {
	if s.changePasswordFn == nil {
		return nil
	}
	return s.changePasswordFn(ctx, actor, current, next)
}

type stubShiftService struct {
	listFn         func(ctx context.Context, viewer domain.User, filter ports.ListShiftsFilter) ([]ports.ShiftView, error)
	getFn          func(ctx context.Context, viewer domain.User, id int64) (*ports.ShiftView, error)
	createFn       func(ctx context.Context, actor domain.User, form ports.ShiftForm) (*ports.ShiftOutcome, error)
	updateFn       func(ctx context.Context, actor domain.User, id int64, form ports.ShiftForm) (*ports.ShiftOutcome, error)
	changeStatusFn func(ctx context.Context, actor domain.User, id int64, status domain.ShiftStatus) error
	cancelFn       func(ctx context.Context, actor domain.User, id int64) error
	respondFn      func(ctx context.Context, actor domain.User, shiftID int64, accept bool) error
}

func (s *stubShiftService) List(ctx context.Context, viewer domain.User, filter ports.ListShiftsFilter) ([]ports.ShiftView, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, viewer, filter)
}

func (s *stubShiftService) Get(ctx context.Context, viewer domain.User, id int64) (*ports.ShiftView, error) {
	return s.getFn(ctx, viewer, id)
}

func (s *stubShiftService) Create(ctx context.Context, actor domain.User, form ports.ShiftForm) (*ports.ShiftOutcome, error) {
	return s.createFn(ctx, actor, form)
}

func (s *stubShiftService) Update(ctx context.Context, actor domain.User, id int64, form ports.ShiftForm) (*ports.ShiftOutcome, error) {
	return s.updateFn(ctx, actor, id, form)
}

func (s *stubShiftService) ChangeStatus(ctx context.Context, actor domain.User, id int64, status domain.ShiftStatus) error {
	return s.changeStatusFn(ctx, actor, id, status)
}

func (s *stubShiftService) Cancel(ctx context.Context, actor domain.User, id int64) error {
	return s.cancelFn(ctx, actor, id)
}

func (s *stubShiftService) RespondInvitation(ctx context.Context, actor domain.User, shiftID int64, accept bool) error {
	return s.respondFn(ctx, actor, shiftID, accept)
}

type stubRoomService struct {
	rooms    []domain.Room
	listErr  error
	addFn    func(ctx context.Context, actor domain.User, name string, capacity int) (*domain.Room, error)
	deleteFn func(ctx context.Context, actor domain.User, id int64) error
}

func (s *stubRoomService) List(context.Context) ([]domain.Room, error) {
	return s.rooms, s.listErr
}

func (s *stubRoomService) Add(ctx context.Context, actor domain.User, name string, capacity int) (*domain.Room, error) {
	return s.addFn(ctx, actor, name, capacity)
}

func (s *stubRoomService) Delete(ctx context.Context, actor domain.User, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type stubProfileService struct {
	getFn    func(ctx context.Context, actor domain.User) (*domain.User, error)
	updateFn func(ctx context.Context, actor domain.User, fullName, email string) (*domain.User, error)
	uploadFn func(ctx context.Context, actor domain.User, pic ports.ProfilePicture) (*domain.User, error)
}

func (s *stubProfileService) Get(ctx context.Context, actor domain.User) (*domain.User, error) {
	return s.getFn(ctx, actor)
}

func (s *stubProfileService) Update(ctx context.Context, actor domain.User, fullName, email string) (*domain.User, error) {
	return s.updateFn(ctx, actor, fullName, email)
}

func (s *stubProfileService) UploadPicture(ctx context.Context, actor domain.User, pic ports.ProfilePicture) (*domain.User, error) {
	return s.uploadFn(ctx, actor, pic)
}
