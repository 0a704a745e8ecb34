package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

func TestLocale_ResolvesAndPersistsQuery(t *testing.T) {
	bundle, err := i18n.Load("es")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Locale(bundle)(func(c echo.Context) error {
		if loc := LocaleFrom(c); loc == nil || loc.Tag != language.English {
			t.Fatalf("expected en locale, got %v", loc)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.HasPrefix(rec.Header().Get("Set-Cookie"), i18n.LangCookieName+"=en") {
		t.Fatalf("expected lang cookie, got %q", rec.Header().Get("Set-Cookie"))
	}
	if rec.Header().Get("Content-Language") != "en" {
		t.Fatalf("unexpected Content-Language %q", rec.Header().Get("Content-Language"))
	}
}
