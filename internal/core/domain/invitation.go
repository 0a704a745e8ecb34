package domain

import "strings"

// InvitationStatus is the invitee's answer to a shift invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pendiente"
	InvitationAccepted InvitationStatus = "aceptado"
	InvitationRejected InvitationStatus = "rechazado"
)

// ParseInvitationStatus normalizes backend spellings. Unknown values map to pending.
func ParseInvitationStatus(s string) InvitationStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aceptado", "aceptada", "accepted":
		return InvitationAccepted
	case "rechazado", "rechazada", "rejected":
		return InvitationRejected
	default:
		return InvitationPending
	}
}

// Invitation links an invited user to a shift.
type Invitation struct {
	ID      int64            `json:"id"`
	ShiftID int64            `json:"shift_id"`
	UserID  int64            `json:"user_id,omitempty"`
	DNI     string           `json:"dni"`
	Status  InvitationStatus `json:"status"`
}

// Pending reports whether the invitee has not answered yet.
func (i Invitation) Pending() bool {
	return i.Status == InvitationPending
}
