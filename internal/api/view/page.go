package view

import (
	"strconv"
	"strings"

	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

// Page is the model every template receives.
type Page struct {
	Name      string
	Title     string // catalog key
	Locale    *i18n.Locale
	Languages []i18n.Option
	Path      string
	User      *domain.User
	Flash     *session.Flash
	Data      any
}

// formDefaults is implemented by page data that pre-fills a form.
type formDefaults interface {
	FormDefaults() map[string]string
}

func (p *Page) T(key string, args ...any) string {
	return p.Locale.T(key, args...)
}

func (p *Page) Date(iso string) string { return p.Locale.FormatDate(iso) }

func (p *Page) Time(hhmm string) string { return p.Locale.FormatTime(hhmm) }

func (p *Page) IsAdmin() bool { return p.User != nil && p.User.IsAdmin() }

// Errors returns the translated field errors of the last failed submission.
func (p *Page) Errors(field string) []string {
	if p.Flash == nil {
		return nil
	}
	return p.Flash.Errors[field]
}

// Value returns the submitted value of field, or the page's default for it.
func (p *Page) Value(field string) string {
	if p.Flash != nil {
		if v, ok := p.Flash.Form[field]; ok {
			return v
		}
	}
	if d, ok := p.Data.(formDefaults); ok {
		return d.FormDefaults()[field]
	}
	return ""
}

func (p *Page) StatusLabel(s domain.ShiftStatus) string {
	return p.Locale.T("status." + string(s))
}

func (p *Page) InvitationLabel(s domain.InvitationStatus) string {
	return p.Locale.T("invitation." + string(s))
}

// ShiftList backs the home and shift list pages.
type ShiftList struct {
	Shifts []ports.ShiftView
	Rooms  []domain.Room
	Filter domain.ShiftStatus
}

// ShiftForm backs the create and edit pages. Shift is nil when creating.
type ShiftForm struct {
	Shift  *domain.Shift
	Rooms  []domain.Room
	Action string
}

func (f ShiftForm) FormDefaults() map[string]string {
	if f.Shift == nil {
		return map[string]string{"participants": "1"}
	}
	s := f.Shift
	dnis := make([]string, 0, len(s.Invitations))
	for _, inv := range s.Invitations {
		dnis = append(dnis, inv.DNI)
	}
	return map[string]string{
		"date":         s.Date,
		"start_time":   s.StartTime,
		"end_time":     s.EndTime,
		"theme":        s.Theme,
		"participants": itoa(s.Participants),
		"notes":        s.Notes,
		"area":         s.Area,
		"invitees":     strings.Join(dnis, "\n"),
	}
}

// Rooms backs the room admin page.
type Rooms struct {
	Rooms []domain.Room
}

// Profile backs the profile page.
type Profile struct {
	User domain.User
}

func (p Profile) FormDefaults() map[string]string {
	return map[string]string{"full_name": p.User.FullName, "email": p.User.Email}
}

// Auth backs the login, register, forgot and reset pages.
type Auth struct {
	Next  string
	Token string
}

func (a Auth) FormDefaults() map[string]string {
	return map[string]string{"next": a.Next, "token": a.Token}
}

// Error backs the error page.
type Error struct {
	Status  int
	Message string
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
