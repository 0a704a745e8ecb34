package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

// stubBackend keeps backend state in memory and records calls.
type stubBackend struct {
	nextID      int64
	users       map[string]*domain.User // by DNI
	rooms       []domain.Room
	shifts      []domain.Shift
	calls       []string
	failInvite  map[int64]bool // user IDs whose invitation post fails
	createErr   error          // returned by CreateShift/UpdateShift when set
	updateErr   error          // returned by UpdateUser when set
	resetErr    error          // returned by ResetPassword when set
	loginResult *ports.LoginResult
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		nextID:     100,
		users:      map[string]*domain.User{},
		failInvite: map[int64]bool{},
		rooms:      []domain.Room{{ID: 1, Name: "Sala A", Capacity: 10}},
	}
}

func (b *stubBackend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *stubBackend) addUser(dni, name string) *domain.User {
	u := &domain.User{ID: b.id(), DNI: dni, FullName: name, Role: domain.RoleUser}
	b.users[dni] = u
	return u
}

func (b *stubBackend) Login(_ context.Context, dni, password string) (*ports.LoginResult, error) {
	b.calls = append(b.calls, "login")
	if b.loginResult != nil {
		return b.loginResult, nil
	}
	return nil, &domain.RemoteError{Status: 401, Message: "Credenciales inválidas"}
}

func (b *stubBackend) Register(context.Context, ports.RegisterInput) error {
	b.calls = append(b.calls, "register")
	return nil
}

func (b *stubBackend) Logout(context.Context) error { return nil }

func (b *stubBackend) ForgotPassword(_ context.Context, email string) error {
	b.calls = append(b.calls, "forgot "+email)
	return nil
}

func (b *stubBackend) ResetPassword(_ context.Context, token, _ string) error {
	b.calls = append(b.calls, "reset "+token)
	return b.resetErr
}

func (b *stubBackend) GetUser(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range b.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (b *stubBackend) FindUserByDNI(_ context.Context, dni string) (*domain.User, error) {
	b.calls = append(b.calls, "lookup "+dni)
	u, ok := b.users[dni]
	if !ok {
		return nil, fmt.Errorf("%w: %w", domain.ErrUserNotFound, &domain.RemoteError{Status: 404, Message: "Usuario no encontrado"})
	}
	c := *u
	return &c, nil
}

func (b *stubBackend) UpdateUser(_ context.Context, id int64, ch ports.UserChanges) (*domain.User, error) {
	b.calls = append(b.calls, "update user")
	if b.updateErr != nil {
		return nil, b.updateErr
	}
	for _, u := range b.users {
		if u.ID != id {
			continue
		}
		if ch.FullName != nil {
			u.FullName = *ch.FullName
		}
		if ch.Email != nil {
			u.Email = *ch.Email
		}
		if ch.ProfilePicture != nil {
			u.ProfilePicture = *ch.ProfilePicture
		}
		c := *u
		return &c, nil
	}
	return nil, domain.ErrUserNotFound
}

func (b *stubBackend) ListRooms(context.Context) ([]domain.Room, error) {
	b.calls = append(b.calls, "list rooms")
	return append([]domain.Room(nil), b.rooms...), nil
}

func (b *stubBackend) CreateRoom(_ context.Context, name string, capacity int) (*domain.Room, error) {
	for _, r := range b.rooms {
		if r.Name == name {
			return nil, &domain.RemoteError{Status: 409, Message: "La sala ya existe"}
		}
	}
	r := domain.Room{ID: b.id(), Name: name, Capacity: capacity}
	b.rooms = append(b.rooms, r)
	return &r, nil
}

func (b *stubBackend) DeleteRoom(_ context.Context, id int64) error {
	for i, r := range b.rooms {
		if r.ID == id {
			b.rooms = append(b.rooms[:i], b.rooms[i+1:]...)
			return nil
		}
	}
	return &domain.RemoteError{Status: 404, Message: "Sala no encontrada"}
}

func (b *stubBackend) ListShifts(context.Context) ([]domain.Shift, error) {
	out := make([]domain.Shift, len(b.shifts))
	for i, s := range b.shifts {
		s.Invitations = append([]domain.Invitation(nil), s.Invitations...)
		out[i] = s
	}
	return out, nil
}

func (b *stubBackend) CreateShift(_ context.Context, in ports.NewShift) (*domain.Shift, error) {
	b.calls = append(b.calls, "create shift")
	if b.createErr != nil {
		return nil, b.createErr
	}
	s := domain.Shift{
		ID: b.id(), Date: in.Date, StartTime: in.StartTime, EndTime: in.EndTime,
		Theme: in.Theme, Participants: in.Participants, Notes: in.Notes, Area: in.Area,
		Status: in.Status, Creator: domain.Creator{ID: in.CreatorID},
	}
	for _, u := range b.users {
		if u.ID == in.CreatorID {
			s.Creator.DNI = u.DNI
		}
	}
	b.shifts = append(b.shifts, s)
	return &s, nil
}

func (b *stubBackend) UpdateShift(_ context.Context, id int64, ch ports.ShiftChanges) (*domain.Shift, error) {
	b.calls = append(b.calls, "update shift")
	if b.createErr != nil {
		return nil, b.createErr
	}
	for i := range b.shifts {
		s := &b.shifts[i]
		if s.ID != id {
			continue
		}
		if ch.Fields != nil {
			s.Date, s.StartTime, s.EndTime = ch.Fields.Date, ch.Fields.StartTime, ch.Fields.EndTime
			s.Theme, s.Participants, s.Notes, s.Area = ch.Fields.Theme, ch.Fields.Participants, ch.Fields.Notes, ch.Fields.Area
		}
		if ch.Status != "" {
			s.Status = ch.Status
		}
		c := *s
		return &c, nil
	}
	return nil, domain.ErrShiftNotFound
}

func (b *stubBackend) CreateInvitation(_ context.Context, shiftID, userID int64) (*domain.Invitation, error) {
	b.calls = append(b.calls, fmt.Sprintf("invite %d", userID))
	if b.failInvite[userID] {
		return nil, &domain.RemoteError{Status: 500, Message: "boom"}
	}
	var dni string
	for _, u := range b.users {
		if u.ID == userID {
			dni = u.DNI
		}
	}
	inv := domain.Invitation{ID: b.id(), ShiftID: shiftID, UserID: userID, DNI: dni, Status: domain.InvitationPending}
	for i := range b.shifts {
		if b.shifts[i].ID == shiftID {
			b.shifts[i].Invitations = append(b.shifts[i].Invitations, inv)
		}
	}
	return &inv, nil
}

func (b *stubBackend) UpdateInvitation(_ context.Context, id int64, status domain.InvitationStatus) error {
	b.calls = append(b.calls, "answer invitation")
	for i := range b.shifts {
		for j := range b.shifts[i].Invitations {
			if b.shifts[i].Invitations[j].ID == id {
				b.shifts[i].Invitations[j].Status = status
				return nil
			}
		}
	}
	return &domain.RemoteError{Status: 404, Message: "Invitación no encontrada"}
}

func (b *stubBackend) invitationCount(shiftID int64) int {
	for _, s := range b.shifts {
		if s.ID == shiftID {
			return len(s.Invitations)
		}
	}
	return 0
}

// memCache is a map-backed ports.Cache storing JSON like the Redis cache does.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.mu.Unlock()
	return nil
}

type stubRecorder struct {
	events []domain.AuditEvent
}

func (r *stubRecorder) Record(e domain.AuditEvent) { r.events = append(r.events, e) }

func (r *stubRecorder) kinds() []domain.AuditKind {
	out := make([]domain.AuditKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

type stubPictureStore struct {
	keys []string
	err  error
}

func (s *stubPictureStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.example.com/" + key, nil
}
