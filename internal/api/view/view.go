// Package view renders the HTML pages. Every page is parsed together with the
// shared layout and executed through it.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "layout.html"

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"has": func(actions []domain.CardAction, a string) bool {
		for _, x := range actions {
			if string(x) == a {
				return true
			}
		}
		return false
	},
	"join": strings.Join,
	"statuses": func() []domain.ShiftStatus {
		return []domain.ShiftStatus{domain.ShiftPending, domain.ShiftAccepted, domain.ShiftCancelled}
	},
	"cardOf": func(p *Page, v ports.ShiftView) card { return card{Page: p, View: v} },
	"initial": func(s string) string {
		for _, r := range s {
			return strings.ToUpper(string(r))
		}
		return "?"
	},
}

// card is the model of the shift-card partial.
type card struct {
	Page *Page
	View ports.ShiftView
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	return NewFS(templatesFS)
}

// NewFS parses templates/*.html from fsys.
func NewFS(fsys fs.FS) (*Renderer, error) {
	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, f := range files {
		base := path.Base(f)
		if base == layoutFile {
			continue
		}
		name := strings.TrimSuffix(base, ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys, "templates/"+layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	if len(r.pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return r, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
