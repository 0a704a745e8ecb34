package domain

import (
	"strings"
	"time"
)

// DateLayout and TimeLayout are the wire and form formats for shift dates and times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ShiftStatus represents the lifecycle state of a shift.
type ShiftStatus string

const (
	ShiftPending   ShiftStatus = "pending"
	ShiftAccepted  ShiftStatus = "accepted"
	ShiftCancelled ShiftStatus = "cancelled"
)

// validTransitions defines the status changes an admin may apply.
var validTransitions = map[ShiftStatus][]ShiftStatus{
	ShiftPending:   {ShiftAccepted, ShiftCancelled},
	ShiftAccepted:  {ShiftPending, ShiftCancelled},
	ShiftCancelled: {ShiftPending},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ShiftStatus) CanTransitionTo(next ShiftStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s ShiftStatus) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// Wire returns the Spanish spelling the backend stores.
func (s ShiftStatus) Wire() string {
	switch s {
	case ShiftAccepted:
		return "aceptado"
	case ShiftCancelled:
		return "cancelado"
	default:
		return "pendiente"
	}
}

// ParseShiftStatus accepts English and Spanish spellings. Unknown values map to pending.
func ParseShiftStatus(s string) ShiftStatus {
	if st, ok := LookupShiftStatus(s); ok {
		return st
	}
	return ShiftPending
}

// LookupShiftStatus is ParseShiftStatus without the fallback: ok is false for
// unknown spellings.
func LookupShiftStatus(s string) (ShiftStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "pendiente":
		return ShiftPending, true
	case "accepted", "aceptado", "aceptada", "confirmado", "confirmada":
		return ShiftAccepted, true
	case "cancelled", "canceled", "cancelado", "cancelada":
		return ShiftCancelled, true
	}
	return "", false
}

// Creator is the backend's reference to the user who booked a shift.
type Creator struct {
	ID   int64  `json:"id"`
	DNI  string `json:"dni"`
	Name string `json:"name"`
}

// Shift is a room reservation for a time window.
type Shift struct {
	ID           int64        `json:"id"`
	Date         string       `json:"date"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	Theme        string       `json:"theme"`
	Participants int          `json:"participants"`
	Notes        string       `json:"notes,omitempty"`
	Area         string       `json:"area"`
	Status       ShiftStatus  `json:"status"`
	Creator      Creator      `json:"creator"`
	Invitations  []Invitation `json:"invitations"`
}

// IsCreator reports whether u booked the shift.
func (s Shift) IsCreator(u User) bool {
	if s.Creator.ID != 0 && s.Creator.ID == u.ID {
		return true
	}
	return s.Creator.DNI != "" && s.Creator.DNI == u.DNI
}

// InvitationFor returns the invitation addressed to dni, if any.
func (s Shift) InvitationFor(dni string) (Invitation, bool) {
	for _, inv := range s.Invitations {
		if inv.DNI == dni {
			return inv, true
		}
	}
	return Invitation{}, false
}

// Involves reports whether u created the shift or was invited to it.
func (s Shift) Involves(u User) bool {
	if s.IsCreator(u) {
		return true
	}
	_, ok := s.InvitationFor(u.DNI)
	return ok
}

// StartsAt combines Date and StartTime. The zero time is returned on malformed values.
func (s Shift) StartsAt() time.Time {
	t, err := time.Parse(DateLayout+" "+TimeLayout, s.Date+" "+s.StartTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ValidTime reports whether s is an HH:MM time of day.
func ValidTime(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// ValidTimeRange reports whether both values are HH:MM and end is strictly after start.
func ValidTimeRange(start, end string) bool {
	st, err := time.Parse(TimeLayout, start)
	if err != nil {
		return false
	}
	et, err := time.Parse(TimeLayout, end)
	if err != nil {
		return false
	}
	return et.After(st)
}
