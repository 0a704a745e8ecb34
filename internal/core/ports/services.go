package ports

import (
	"context"
	"io"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

// Session is the authenticated state kept in the session cookie.
type Session struct {
	User  domain.User
	Token string
}

// AuthService implements the auth forms.
type AuthService interface {
	Login(ctx context.Context, dni, password string) (*Session, error)
	Register(ctx context.Context, in RegisterInput) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	ChangePassword(ctx context.Context, actor domain.User, current, next string) error
}

// ProfilePicture is an uploaded image.
type ProfilePicture struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProfileService implements the profile page.
type ProfileService interface {
	Get(ctx context.Context, actor domain.User) (*domain.User, error)
	Update(ctx context.Context, actor domain.User, fullName, email string) (*domain.User, error)
	UploadPicture(ctx context.Context, actor domain.User, pic ProfilePicture) (*domain.User, error)
}

// RoomService implements the room admin page.
type RoomService interface {
	List(ctx context.Context) ([]domain.Room, error)
	Add(ctx context.Context, actor domain.User, name string, capacity int) (*domain.Room, error)
	Delete(ctx context.Context, actor domain.User, id int64) error
}

// ShiftForm is the submitted create/edit form.
type ShiftForm struct {
	ShiftFields
	InviteeDNIs []string
}

// ShiftOutcome reports a create/edit: the stored shift, the DNIs that got an
// invitation row and the ones that were skipped.
type ShiftOutcome struct {
	Shift   domain.Shift
	Invited []string
	Skipped []string
}

// ShiftView is a shift as one viewer sees it.
type ShiftView struct {
	Shift   domain.Shift
	Actions []domain.CardAction
	// Invitation is the viewer's own invitation, when invited.
	Invitation *domain.Invitation
}

// ListShiftsFilter narrows the shift list.
type ListShiftsFilter struct {
	Status domain.ShiftStatus // optional
}

// ShiftService implements the shift forms and the shift card actions.
type ShiftService interface {
	List(ctx context.Context, viewer domain.User, filter ListShiftsFilter) ([]ShiftView, error)
	Get(ctx context.Context, viewer domain.User, id int64) (*ShiftView, error)
	Create(ctx context.Context, actor domain.User, form ShiftForm) (*ShiftOutcome, error)
	Update(ctx context.Context, actor domain.User, id int64, form ShiftForm) (*ShiftOutcome, error)
	ChangeStatus(ctx context.Context, actor domain.User, id int64, status domain.ShiftStatus) error
	Cancel(ctx context.Context, actor domain.User, id int64) error
	RespondInvitation(ctx context.Context, actor domain.User, shiftID int64, accept bool) error
}
