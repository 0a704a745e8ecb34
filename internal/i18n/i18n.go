// Package i18n loads the embedded locale catalogs and resolves the locale of
// a request.
//
// Messages are registered in an x/text catalog keyed by message id
// ("shifts.created"). Text that is not a known id, such as an error message
// returned by the backend, is passed through unchanged.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "lang"
)

//go:embed locales/*.yaml
var localesFS embed.FS

type localeFile struct {
	Locale     string            `yaml:"locale"`
	Label      string            `yaml:"label"`
	DateLayout string            `yaml:"date_layout"`
	TimeLayout string            `yaml:"time_layout"`
	Messages   map[string]string `yaml:"messages"`
}

// Bundle holds every supported locale.
type Bundle struct {
	def     language.Tag
	tags    []language.Tag
	locales map[language.Tag]*Locale
	matcher language.Matcher
}

// Locale prints messages and formats dates for one language.
type Locale struct {
	Tag        language.Tag
	Label      string
	DateLayout string
	TimeLayout string

	printer *message.Printer
	keys    map[string]struct{}
}

// Option is one entry of the language switcher.
type Option struct {
	Tag    string
	Label  string
	Active bool
}

// Load parses the embedded catalogs. def must be one of them.
func Load(def string) (*Bundle, error) {
	return LoadFS(localesFS, def)
}

// LoadFS parses locales/*.yaml from fsys.
func LoadFS(fsys fs.FS, def string) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale catalogs found")
	}
	sort.Strings(paths)

	defTag, err := language.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", def, err)
	}

	builder := catalog.NewBuilder(catalog.Fallback(defTag))
	b := &Bundle{def: defTag, locales: map[language.Tag]*Locale{}}

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		tag, err := language.Parse(strings.TrimSpace(file.Locale))
		if err != nil {
			return nil, fmt.Errorf("catalog %s: locale %q: %w", path, file.Locale, err)
		}
		if file.DateLayout == "" || file.TimeLayout == "" {
			return nil, fmt.Errorf("catalog %s: date_layout and time_layout are required", path)
		}

		loc := &Locale{
			Tag:        tag,
			Label:      file.Label,
			DateLayout: file.DateLayout,
			TimeLayout: file.TimeLayout,
			keys:       make(map[string]struct{}, len(file.Messages)),
		}
		for key, msg := range file.Messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("catalog %s: key %q: %w", path, key, err)
			}
			loc.keys[key] = struct{}{}
		}
		b.locales[tag] = loc
		b.tags = append(b.tags, tag)
	}

	if _, ok := b.locales[defTag]; !ok {
		return nil, fmt.Errorf("default locale %s has no catalog", def)
	}
	// The default goes first so the matcher falls back to it.
	for i, tag := range b.tags {
		if tag == defTag {
			b.tags[0], b.tags[i] = b.tags[i], b.tags[0]
			break
		}
	}
	for _, tag := range b.tags {
		b.locales[tag].printer = message.NewPrinter(tag, message.Catalog(builder))
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Default returns the default locale.
func (b *Bundle) Default() *Locale {
	return b.locales[b.def]
}

// Supported returns the supported tags, default first.
func (b *Bundle) Supported() []language.Tag {
	return append([]language.Tag(nil), b.tags...)
}

// Locale returns the locale for tag, or the default one.
func (b *Bundle) Locale(tag language.Tag) *Locale {
	if loc, ok := b.locales[tag]; ok {
		return loc
	}
	return b.Default()
}

// Match picks the closest supported locale for the given tags.
func (b *Bundle) Match(tags ...language.Tag) *Locale {
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.Default()
	}
	return b.locales[b.tags[idx]]
}

// Parse maps a raw value such as "en" or "es-AR" to a supported locale.
func (b *Bundle) Parse(value string) (*Locale, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return nil, false
	}
	_, idx, conf := b.matcher.Match(tag)
	if conf < language.High {
		return nil, false
	}
	return b.locales[b.tags[idx]], true
}

// Resolve picks the locale from ?lang, then the lang cookie, then
// Accept-Language. The bool reports whether ?lang should be persisted.
func (b *Bundle) Resolve(r *http.Request) (*Locale, bool) {
	if r == nil {
		return b.Default(), false
	}
	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if loc, ok := b.Parse(v); ok {
			return loc, true
		}
	}
	if c, err := r.Cookie(LangCookieName); err == nil {
		if loc, ok := b.Parse(c.Value); ok {
			return loc, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return b.Match(tags...), false
		}
	}
	return b.Default(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, loc *Locale) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    loc.Tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Options lists the language switcher entries with active marked.
func (b *Bundle) Options(active *Locale) []Option {
	out := make([]Option, 0, len(b.tags))
	for _, tag := range b.tags {
		loc := b.locales[tag]
		out = append(out, Option{Tag: tag.String(), Label: loc.Label, Active: active != nil && active.Tag == tag})
	}
	return out
}

// Has reports whether key is a message id of this locale.
func (l *Locale) Has(key string) bool {
	_, ok := l.keys[key]
	return ok
}

// T translates key with args. Unknown keys are returned verbatim.
func (l *Locale) T(key string, args ...any) string {
	if !l.Has(key) {
		return key
	}
	return l.printer.Sprintf(key, args...)
}

// Printer exposes the x/text printer for number formatting.
func (l *Locale) Printer() *message.Printer {
	return l.printer
}
