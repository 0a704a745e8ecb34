package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func mustLoad(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load("es")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return b
}

func TestLoad_CatalogsShareKeys(t *testing.T) {
	b := mustLoad(t)
	es, en := b.Locale(language.Spanish), b.Locale(language.English)
	for key := range es.keys {
		if !en.Has(key) {
			t.Errorf("en is missing %q", key)
		}
	}
	for key := range en.keys {
		if !es.Has(key) {
			t.Errorf("es is missing %q", key)
		}
	}
	if got := b.Supported(); len(got) != 2 || got[0] != language.Spanish {
		t.Fatalf("expected es first among supported tags, got %v", got)
	}
}

func TestLocale_T(t *testing.T) {
	b := mustLoad(t)
	es, en := b.Locale(language.Spanish), b.Locale(language.English)

	if got := es.T("shifts.created", 3); got != "Turno creado. Invitaciones creadas: 3." {
		t.Fatalf("unexpected es message: %q", got)
	}
	if got := en.T("rooms.created", "Lab 1"); got != "Room Lab 1 created" {
		t.Fatalf("unexpected en message: %q", got)
	}
	backendText := "El turno se superpone con otro (100% ocupado)"
	if got := en.T(backendText); got != backendText {
		t.Fatalf("unknown keys must pass through, got %q", got)
	}
}

func TestLocale_DateTimeRoundTrip(t *testing.T) {
	b := mustLoad(t)
	dates := []string{"2026-01-02", "2026-12-31", "2027-02-28"}
	times := []string{"00:00", "08:05", "12:00", "12:30", "13:45", "23:59"}

	for _, tag := range b.Supported() {
		loc := b.Locale(tag)
		for _, iso := range dates {
			shown := loc.FormatDate(iso)
			back, err := loc.ParseDate(shown)
			if err != nil || back != iso {
				t.Fatalf("%s: date %s -> %q -> %q (%v)", tag, iso, shown, back, err)
			}
		}
		for _, hhmm := range times {
			shown := loc.FormatTime(hhmm)
			back, err := loc.ParseTime(shown)
			if err != nil || back != hhmm {
				t.Fatalf("%s: time %s -> %q -> %q (%v)", tag, hhmm, shown, back, err)
			}
		}
	}
}

func TestLocale_Layouts(t *testing.T) {
	b := mustLoad(t)
	es, en := b.Locale(language.Spanish), b.Locale(language.English)

	if got := es.FormatDate("2026-03-04"); got != "04/03/2026" {
		t.Fatalf("es date: %q", got)
	}
	if got := en.FormatDate("2026-03-04"); got != "03/04/2026" {
		t.Fatalf("en date: %q", got)
	}
	if got := en.FormatTime("14:30"); got != "2:30 PM" {
		t.Fatalf("en time: %q", got)
	}
	if got, err := en.ParseTime("2:30 pm"); err != nil || got != "14:30" {
		t.Fatalf("en lowercase meridiem: %q %v", got, err)
	}
	if got := es.FormatDate("not-a-date"); got != "not-a-date" {
		t.Fatalf("malformed dates must pass through, got %q", got)
	}
}

func TestResolve_Precedence(t *testing.T) {
	b := mustLoad(t)

	cases := []struct {
		name    string
		url     string
		cookie  string
		accept  string
		want    language.Tag
		persist bool
	}{
		{name: "default", url: "/", want: language.Spanish},
		{name: "accept-language", url: "/", accept: "en-US,en;q=0.9", want: language.English},
		{name: "unsupported accept-language", url: "/", accept: "fr-FR", want: language.Spanish},
		{name: "cookie beats header", url: "/", cookie: "es", accept: "en", want: language.Spanish},
		{name: "query beats cookie", url: "/?lang=en", cookie: "es", want: language.English, persist: true},
		{name: "bad query falls through", url: "/?lang=zz", cookie: "en", want: language.English},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			loc, persist := b.Resolve(req)
			if loc.Tag != tc.want || persist != tc.persist {
				t.Fatalf("got (%s, %v), want (%s, %v)", loc.Tag, persist, tc.want, tc.persist)
			}
		})
	}
}

func TestSetLanguageCookie(t *testing.T) {
	b := mustLoad(t)
	rec := httptest.NewRecorder()
	SetLanguageCookie(rec, b.Locale(language.English))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "en" || cookies[0].MaxAge != int((365*24*time.Hour).Seconds()) {
		t.Fatalf("unexpected cookie: %+v", cookies)
	}
}
