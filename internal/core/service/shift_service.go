package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/api/metrics"
	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

const userByDNICacheKey = "usuarios:dni:"

// roomLister is the slice of RoomService the shift forms need to validate the area.
type roomLister interface {
	List(ctx context.Context) ([]domain.Room, error)
}

// ShiftService books, edits and answers shifts against the backend.
type ShiftService struct {
	shifts      ports.ShiftGateway
	invitations ports.InvitationGateway
	users       ports.UserGateway
	rooms       roomLister
	cache       ports.Cache
	ttl         time.Duration
	audit       auditor
	log         zerolog.Logger
}

func NewShiftService(
	shifts ports.ShiftGateway,
	invitations ports.InvitationGateway,
	users ports.UserGateway,
	rooms roomLister,
	cache ports.Cache,
	ttl time.Duration,
	rec ports.AuditRecorder,
	log zerolog.Logger,
) *ShiftService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ShiftService{
		shifts:      shifts,
		invitations: invitations,
		users:       users,
		rooms:       rooms,
		cache:       cache,
		ttl:         ttl,
		audit:       newAuditor(rec),
		log:         log,
	}
}

// List returns the shifts visible to viewer, ordered by date and start time.
// Admins see every shift; users see the ones they created or were invited to.
func (s *ShiftService) List(ctx context.Context, viewer domain.User, filter ports.ListShiftsFilter) ([]ports.ShiftView, error) {
	all, err := s.shifts.ListShifts(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ports.ShiftView, 0, len(all))
	for _, sh := range all {
		if !viewer.IsAdmin() && !sh.Involves(viewer) {
			continue
		}
		if filter.Status != "" && sh.Status != filter.Status {
			continue
		}
		views = append(views, viewOf(sh, viewer))
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Shift, views[j].Shift
		if ta, tb := a.StartsAt(), b.StartsAt(); !ta.Equal(tb) {
			return ta.Before(tb)
		}
		return a.ID < b.ID
	})
	return views, nil
}

// Get returns one shift. The backend has no single-shift read, so the full
// list is scanned.
func (s *ShiftService) Get(ctx context.Context, viewer domain.User, id int64) (*ports.ShiftView, error) {
	sh, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && !sh.Involves(viewer) {
		return nil, domain.ErrForbidden
	}
	v := viewOf(*sh, viewer)
	return &v, nil
}

// Create books a shift and invites the listed DNIs one by one. Failed
// lookups or invitation posts are reported as skipped; the shift stays.
func (s *ShiftService) Create(ctx context.Context, actor domain.User, form ports.ShiftForm) (*ports.ShiftOutcome, error) {
	if actor.ID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	fields, dnis, err := s.validate(ctx, form)
	if err != nil {
		return nil, err
	}

	created, err := s.shifts.CreateShift(ctx, ports.NewShift{
		ShiftFields: fields,
		CreatorID:   actor.ID,
		Status:      domain.ShiftPending,
	})
	if err != nil {
		return nil, err
	}
	if created.Creator.ID == 0 {
		created.Creator = domain.Creator{ID: actor.ID, DNI: actor.DNI, Name: actor.FullName}
	}
	s.audit.record(domain.AuditShiftCreated, shiftSubject(created.ID), actor, fields.Date+" "+fields.StartTime+" "+fields.Area)
	s.log.Info().Int64("shift_id", created.ID).Str("creator_dni", actor.DNI).Msg("shift created")

	out := s.invite(ctx, actor, created, dnis)
	return out, nil
}

// Update edits a shift and invites DNIs that are not invited yet. Existing
// invitations are never removed.
func (s *ShiftService) Update(ctx context.Context, actor domain.User, id int64, form ports.ShiftForm) (*ports.ShiftOutcome, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := editable(*current, actor, domain.ActionEdit); err != nil {
		return nil, err
	}
	fields, dnis, err := s.validate(ctx, form)
	if err != nil {
		return nil, err
	}

	updated, err := s.shifts.UpdateShift(ctx, id, ports.ShiftChanges{Fields: &fields})
	if err != nil {
		return nil, err
	}
	if updated.ID == 0 {
		updated.ID = id
	}
	if updated.Creator.ID == 0 && updated.Creator.DNI == "" {
		updated.Creator = current.Creator
	}
	if len(updated.Invitations) == 0 {
		updated.Invitations = current.Invitations
	}
	s.audit.record(domain.AuditShiftUpdated, shiftSubject(id), actor, fields.Date+" "+fields.StartTime+" "+fields.Area)
	s.log.Info().Int64("shift_id", id).Str("actor_dni", actor.DNI).Msg("shift updated")

	return s.invite(ctx, actor, updated, dnis), nil
}

// ChangeStatus applies an admin status change.
func (s *ShiftService) ChangeStatus(ctx context.Context, actor domain.User, id int64, status domain.ShiftStatus) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, domain.ErrInvalidTransition)
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(status) {
		return fmt.Errorf("%s to %s: %w", current.Status, status, domain.ErrInvalidTransition)
	}
	return s.setStatus(ctx, actor, id, status)
}

// Cancel moves a shift to cancelled on behalf of its creator or an admin.
func (s *ShiftService) Cancel(ctx context.Context, actor domain.User, id int64) error {
	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := editable(*current, actor, domain.ActionCancel); err != nil {
		return err
	}
	return s.setStatus(ctx, actor, id, domain.ShiftCancelled)
}

// RespondInvitation accepts or rejects the actor's pending invitation.
func (s *ShiftService) RespondInvitation(ctx context.Context, actor domain.User, shiftID int64, accept bool) error {
	sh, err := s.find(ctx, shiftID)
	if err != nil {
		return err
	}
	inv, ok := sh.InvitationFor(actor.DNI)
	if !ok {
		return domain.ErrInvitationNotFound
	}
	if sh.Status == domain.ShiftCancelled {
		return domain.ErrShiftCancelled
	}
	if !inv.Pending() {
		return fmt.Errorf("invitation %d already answered: %w", inv.ID, domain.ErrInvalidTransition)
	}

	status := domain.InvitationRejected
	if accept {
		status = domain.InvitationAccepted
	}
	if err := s.invitations.UpdateInvitation(ctx, inv.ID, status); err != nil {
		return err
	}
	s.audit.record(domain.AuditInvitationAnswered, shiftSubject(shiftID), actor, string(status))
	s.log.Info().Int64("shift_id", shiftID).Int64("invitation_id", inv.ID).Str("status", string(status)).Msg("invitation answered")
	return nil
}

func (s *ShiftService) setStatus(ctx context.Context, actor domain.User, id int64, status domain.ShiftStatus) error {
	if _, err := s.shifts.UpdateShift(ctx, id, ports.ShiftChanges{Status: status}); err != nil {
		return err
	}
	s.audit.record(domain.AuditShiftStatusChanged, shiftSubject(id), actor, string(status))
	s.log.Info().Int64("shift_id", id).Str("status", string(status)).Str("actor_dni", actor.DNI).Msg("shift status changed")
	return nil
}

func (s *ShiftService) find(ctx context.Context, id int64) (*domain.Shift, error) {
	all, err := s.shifts.ListShifts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, domain.ErrShiftNotFound
}

// validate checks the form and returns the trimmed fields plus the distinct
// invitee DNIs in submission order.
func (s *ShiftService) validate(ctx context.Context, form ports.ShiftForm) (ports.ShiftFields, []string, error) {
	f := form.ShiftFields
	f.Date = strings.TrimSpace(f.Date)
	f.StartTime = strings.TrimSpace(f.StartTime)
	f.EndTime = strings.TrimSpace(f.EndTime)
	f.Theme = strings.TrimSpace(f.Theme)
	f.Notes = strings.TrimSpace(f.Notes)
	f.Area = strings.TrimSpace(f.Area)

	errs := domain.FieldErrors{}
	if _, err := time.Parse(domain.DateLayout, f.Date); err != nil {
		errs.Add("date", "validation.date")
	}
	if !domain.ValidTime(f.StartTime) {
		errs.Add("start_time", "validation.time")
	}
	if !domain.ValidTime(f.EndTime) {
		errs.Add("end_time", "validation.time")
	} else if _, ok := errs["start_time"]; !ok && !domain.ValidTimeRange(f.StartTime, f.EndTime) {
		errs.Add("end_time", "validation.time_range")
	}
	if f.Theme == "" {
		errs.Add("theme", "validation.required")
	}
	if f.Participants < 1 {
		errs.Add("participants", "validation.participants")
	}

	var dnis []string
	seen := map[string]bool{}
	for _, raw := range form.InviteeDNIs {
		dni := strings.TrimSpace(raw)
		if dni == "" || seen[dni] {
			continue
		}
		seen[dni] = true
		if !domain.ValidDNI(dni) {
			errs.Add("invitees", "validation.dni")
			continue
		}
		dnis = append(dnis, dni)
	}

	if f.Area == "" {
		errs.Add("area", "validation.required")
	} else if s.rooms != nil {
		rooms, err := s.rooms.List(ctx)
		if err != nil {
			return f, nil, err
		}
		if _, ok := domain.RoomNamed(rooms, f.Area); !ok {
			errs.Add("area", "validation.unknown_room")
		}
	}

	if len(errs) > 0 {
		return f, nil, &domain.ValidationError{Fields: errs}
	}
	return f, dnis, nil
}

// invite creates invitation rows sequentially. The creator and DNIs already
// invited are left out without being reported as skipped.
func (s *ShiftService) invite(ctx context.Context, actor domain.User, sh *domain.Shift, dnis []string) *ports.ShiftOutcome {
	out := &ports.ShiftOutcome{Shift: *sh, Invited: []string{}, Skipped: []string{}}
	for _, dni := range dnis {
		if dni == sh.Creator.DNI || (sh.Creator.DNI == "" && sh.Creator.ID == actor.ID && dni == actor.DNI) {
			continue
		}
		if _, ok := sh.InvitationFor(dni); ok {
			continue
		}

		user, err := s.lookup(ctx, dni)
		if err != nil {
			s.log.Warn().Err(err).Str("dni", dni).Int64("shift_id", sh.ID).Msg("invitee lookup failed")
			metrics.InvitationsSkippedTotal.WithLabelValues("not_found").Inc()
			out.Skipped = append(out.Skipped, dni)
			continue
		}
		inv, err := s.invitations.CreateInvitation(ctx, sh.ID, user.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("dni", dni).Int64("shift_id", sh.ID).Msg("invitation create failed")
			metrics.InvitationsSkippedTotal.WithLabelValues("create_failed").Inc()
			out.Skipped = append(out.Skipped, dni)
			continue
		}
		if inv.DNI == "" {
			inv.DNI = dni
		}
		if inv.ShiftID == 0 {
			inv.ShiftID = sh.ID
		}
		metrics.InvitationsCreatedTotal.Inc()
		out.Shift.Invitations = append(out.Shift.Invitations, *inv)
		out.Invited = append(out.Invited, dni)
		s.audit.record(domain.AuditInvitationCreated, shiftSubject(sh.ID), actor, dni)
	}
	return out
}

// lookup resolves a DNI through the cache, then the backend. Misses are
// not cached.
func (s *ShiftService) lookup(ctx context.Context, dni string) (*domain.User, error) {
	key := userByDNICacheKey + dni
	var cached domain.User
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn().Err(err).Str("dni", dni).Msg("user cache lookup failed")
	}
	if hit && cached.ID != 0 {
		return &cached, nil
	}

	user, err := s.users.FindUserByDNI(ctx, dni)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, user, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("dni", dni).Msg("user cache store failed")
	}
	return user, nil
}

// editable checks that actor may perform action on sh.
func editable(sh domain.Shift, actor domain.User, action domain.CardAction) error {
	if domain.Allows(sh, actor, action) {
		return nil
	}
	if sh.Status == domain.ShiftCancelled && (actor.IsAdmin() || sh.IsCreator(actor)) {
		return domain.ErrShiftCancelled
	}
	return domain.ErrForbidden
}

func viewOf(sh domain.Shift, viewer domain.User) ports.ShiftView {
	v := ports.ShiftView{Shift: sh, Actions: domain.CardActions(sh, viewer)}
	if inv, ok := sh.InvitationFor(viewer.DNI); ok {
		v.Invitation = &inv
	}
	return v
}
