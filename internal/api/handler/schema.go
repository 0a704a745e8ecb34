package handler

import (
	"strings"
	"unicode"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

// Requests bind from HTML forms and from JSON bodies alike.

type loginRequest struct {
	DNI      string `json:"dni"      form:"dni"      validate:"required,dni"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"next"     form:"next"`
}

type registerRequest struct {
	DNI             string `json:"dni"              form:"dni"              validate:"required,dni"`
	FullName        string `json:"full_name"        form:"full_name"        validate:"required"`
	Email           string `json:"email"            form:"email"            validate:"required,email"`
	Password        string `json:"password"         form:"password"         validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"            form:"token"            validate:"required"`
	Password        string `json:"password"         form:"password"         validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     form:"new_password"     validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=NewPassword"`
}

type profileRequest struct {
	FullName string `json:"full_name" form:"full_name" validate:"required"`
	Email    string `json:"email"     form:"email"     validate:"required,email"`
}

type roomRequest struct {
	Name     string `json:"name"     form:"name"     validate:"required"`
	Capacity int    `json:"capacity" form:"capacity" validate:"gt=0"`
}

// shiftRequest is the create/edit form. Invitees may arrive as free text
// (one DNI per line or comma separated) or as a JSON array.
type shiftRequest struct {
	Date         string   `json:"date"          form:"date"          validate:"required"`
	StartTime    string   `json:"start_time"    form:"start_time"    validate:"required"`
	EndTime      string   `json:"end_time"      form:"end_time"      validate:"required"`
	Theme        string   `json:"theme"         form:"theme"         validate:"required"`
	Participants int      `json:"participants"  form:"participants"  validate:"gte=1"`
	Notes        string   `json:"notes"         form:"notes"`
	Area         string   `json:"area"          form:"area"          validate:"required"`
	Invitees     string   `json:"invitees"      form:"invitees"`
	InviteeDNIs  []string `json:"invitee_dnis"  form:"invitee_dnis"  validate:"dive,dni"`
	ReturnTo     string   `json:"-"             form:"return_to"`
}

type statusRequest struct {
	Status   string `json:"status"  form:"status" validate:"required,oneof=pending accepted cancelled"`
	ReturnTo string `json:"-"       form:"return_to"`
}

type listShiftsQuery struct {
	Status string `query:"status"`
}

// dnis merges both invitee inputs, trimmed and in submission order.
func (r shiftRequest) dnis() []string {
	out := splitDNIs(r.Invitees)
	for _, d := range r.InviteeDNIs {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func splitDNIs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
}

// formValues is what a failed form carries back through the flash. Secrets
// are never echoed.
func (r shiftRequest) formValues() map[string]string {
	return map[string]string{
		"date":         r.Date,
		"start_time":   r.StartTime,
		"end_time":     r.EndTime,
		"theme":        r.Theme,
		"participants": itoa(r.Participants),
		"notes":        r.Notes,
		"area":         r.Area,
		"invitees":     strings.Join(r.dnis(), "\n"),
	}
}

// Response-only types owned by the transport layer.

// ErrorResponse is the envelope of errors raised outside form actions.
type ErrorResponse struct {
	Error string `json:"error"`
}

type actionResponse struct {
	Type    domain.ResultType   `json:"type"`
	Message string              `json:"message"`
	Details []string            `json:"details,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Data    any                 `json:"data,omitempty"`
}

type shiftResponse struct {
	domain.Shift
	Actions    []domain.CardAction `json:"actions"`
	Invitation *domain.Invitation  `json:"invitation,omitempty"`
}

type shiftOutcomeResponse struct {
	Shift   shiftResponse `json:"shift"`
	Invited []string      `json:"invited"`
	Skipped []string      `json:"skipped"`
}

type shiftListResponse struct {
	Shifts []shiftResponse `json:"shifts"`
	Rooms  []domain.Room   `json:"rooms"`
}
