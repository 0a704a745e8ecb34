package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

var alice = domain.User{ID: 7, DNI: "30111222", FullName: "Alicia", Role: domain.RoleAdmin}

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec(Options{Secret: "secret"})
	rec := httptest.NewRecorder()
	if err := codec.Write(rec, ports.Session{User: alice, Token: "backend-token"}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	cookie := rec.Result().Cookies()[0]
	if cookie.Name != CookieName || cookie.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
	if cookie.MaxAge != int((8 * time.Hour).Seconds()) {
		t.Fatalf("expected an 8h cookie, got %d", cookie.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess, err := codec.Read(req)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if sess.User != alice || sess.Token != "backend-token" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestCodec_HTTPOnlyOption(t *testing.T) {
	codec := NewCodec(Options{Secret: "secret", HTTPOnly: true})
	rec := httptest.NewRecorder()
	_ = codec.Write(rec, ports.Session{User: alice})
	if !rec.Result().Cookies()[0].HttpOnly {
		t.Fatalf("expected httpOnly cookie")
	}
}

func TestCodec_RejectsExpiredAndForeignTokens(t *testing.T) {
	codec := NewCodec(Options{Secret: "secret", TTL: time.Hour})
	signed, _, err := codec.Encode(ports.Session{User: alice})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	codec.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := codec.Decode(signed); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	other := NewCodec(Options{Secret: "other"})
	if _, err := other.Decode(signed); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected a foreign signature to be rejected, got %v", err)
	}
	if _, err := other.Decode("garbage"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected garbage to be rejected, got %v", err)
	}
}

func TestCodec_Clear(t *testing.T) {
	codec := NewCodec(Options{Secret: "secret"})
	rec := httptest.NewRecorder()
	codec.Clear(rec)
	if c := rec.Result().Cookies()[0]; c.Name != CookieName || c.MaxAge >= 0 {
		t.Fatalf("expected an expired session cookie, got %+v", c)
	}
}

func TestFlash_ReadOnce(t *testing.T) {
	codec := NewCodec(Options{Secret: "secret"})
	rec := httptest.NewRecorder()
	want := Flash{
		Type:    domain.ResultError,
		Message: "No se pudo crear el turno",
		Errors:  map[string][]string{"end_time": {"La hora de fin debe ser posterior a la de inicio"}},
		Form:    map[string]string{"theme": "Tesis"},
	}
	if err := codec.WriteFlash(rec, want); err != nil {
		t.Fatalf("WriteFlash returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/turnos/new", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	out := httptest.NewRecorder()
	got, ok := codec.PopFlash(out, req)
	if !ok {
		t.Fatalf("expected a flash")
	}
	if got.Message != want.Message || got.Errors["end_time"][0] != want.Errors["end_time"][0] || got.Form["theme"] != "Tesis" {
		t.Fatalf("unexpected flash: %+v", got)
	}
	if c := out.Result().Cookies()[0]; c.Name != FlashCookieName || c.MaxAge >= 0 {
		t.Fatalf("flash cookie must be expired after reading, got %+v", c)
	}

	empty := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := codec.PopFlash(httptest.NewRecorder(), empty); ok {
		t.Fatalf("expected no flash without cookie")
	}
}
