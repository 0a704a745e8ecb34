package domain

import "time"

// AuditKind names a recorded mutation.
type AuditKind string

const (
	AuditShiftCreated       AuditKind = "shift_created"
	AuditShiftUpdated       AuditKind = "shift_updated"
	AuditShiftStatusChanged AuditKind = "shift_status_changed"
	AuditInvitationCreated  AuditKind = "invitation_created"
	AuditInvitationAnswered AuditKind = "invitation_answered"
	AuditRoomCreated        AuditKind = "room_created"
	AuditRoomDeleted        AuditKind = "room_deleted"
	AuditProfileUpdated     AuditKind = "profile_updated"
)

// AuditEvent records a mutation forwarded to the backend.
type AuditEvent struct {
	Kind      AuditKind
	Subject   string // e.g. "turno:12", "sala:3", "usuario:7"
	ActorDNI  string
	Detail    string
	Timestamp time.Time
}
