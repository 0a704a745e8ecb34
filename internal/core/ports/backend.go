package ports

import (
	"context"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

// LoginResult is the backend's answer to a successful login. Token is empty
// when the backend does not issue one.
type LoginResult struct {
	User  domain.User
	Token string
}

// RegisterInput carries the fields the backend needs to create an account.
type RegisterInput struct {
	DNI      string
	FullName string
	Email    string
	Password string
}

// UserChanges lists the user fields to update. Nil pointers are left untouched;
// NewPassword is sent only when non-empty.
type UserChanges struct {
	FullName        *string
	Email           *string
	ProfilePicture  *string
	CurrentPassword string
	NewPassword     string
}

// ShiftFields are the editable fields of a shift.
type ShiftFields struct {
	Date         string
	StartTime    string
	EndTime      string
	Theme        string
	Participants int
	Notes        string
	Area         string
}

// NewShift is sent to the backend when booking.
type NewShift struct {
	ShiftFields
	CreatorID int64
	Status    domain.ShiftStatus
}

// ShiftChanges is a partial update. A nil Fields leaves them untouched; an
// empty Status leaves the status untouched.
type ShiftChanges struct {
	Fields *ShiftFields
	Status domain.ShiftStatus
}

// AuthGateway covers the backend's /usuarios/auth endpoints.
type AuthGateway interface {
	Login(ctx context.Context, dni, password string) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// UserGateway covers /usuarios/{id} and /usuarios/dni/{dni}.
type UserGateway interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	FindUserByDNI(ctx context.Context, dni string) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, changes UserChanges) (*domain.User, error)
}

// RoomGateway covers /salas. The backend has no room update.
type RoomGateway interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
	CreateRoom(ctx context.Context, name string, capacity int) (*domain.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

// ShiftGateway covers /turnos.
type ShiftGateway interface {
	ListShifts(ctx context.Context) ([]domain.Shift, error)
	CreateShift(ctx context.Context, in NewShift) (*domain.Shift, error)
	UpdateShift(ctx context.Context, id int64, changes ShiftChanges) (*domain.Shift, error)
}

// InvitationGateway covers /invitados.
type InvitationGateway interface {
	CreateInvitation(ctx context.Context, shiftID, userID int64) (*domain.Invitation, error)
	UpdateInvitation(ctx context.Context, id int64, status domain.InvitationStatus) error
}

// Backend bundles every gateway the REST client implements.
type Backend interface {
	AuthGateway
	UserGateway
	RoomGateway
	ShiftGateway
	InvitationGateway
}
