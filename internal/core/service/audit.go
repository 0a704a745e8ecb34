package service

import (
	"fmt"
	"time"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

// auditor stamps and forwards audit events. A nil recorder discards them.
type auditor struct {
	rec ports.AuditRecorder
	now func() time.Time
}

func newAuditor(rec ports.AuditRecorder) auditor {
	return auditor{rec: rec, now: time.Now}
}

func (a auditor) record(kind domain.AuditKind, subject string, actor domain.User, detail string) {
	if a.rec == nil {
		return
	}
	a.rec.Record(domain.AuditEvent{
		Kind:      kind,
		Subject:   subject,
		ActorDNI:  actor.DNI,
		Detail:    detail,
		Timestamp: a.now().UTC(),
	})
}

func shiftSubject(id int64) string { return fmt.Sprintf("turno:%d", id) }
func roomSubject(id int64) string  { return fmt.Sprintf("sala:%d", id) }
func userSubject(id int64) string  { return fmt.Sprintf("usuario:%d", id) }
