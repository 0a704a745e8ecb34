package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

// AuthService forwards the auth forms to the backend.
type AuthService struct {
	auth  ports.AuthGateway
	users ports.UserGateway
	log   zerolog.Logger
}

func NewAuthService(auth ports.AuthGateway, users ports.UserGateway, log zerolog.Logger) *AuthService {
	return &AuthService{auth: auth, users: users, log: log}
}

func (s *AuthService) Login(ctx context.Context, dni, password string) (*ports.Session, error) {
	dni = strings.TrimSpace(dni)
	if !domain.ValidDNI(dni) || password == "" {
		ve := &domain.ValidationError{Fields: domain.FieldErrors{}}
		if !domain.ValidDNI(dni) {
			ve.Fields.Add("dni", "validation.dni")
		}
		if password == "" {
			ve.Fields.Add("password", "validation.required")
		}
		return nil, ve
	}

	res, err := s.auth.Login(ctx, dni, password)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", res.User.ID).Str("role", res.User.Role).Msg("user logged in")
	return &ports.Session{User: res.User, Token: res.Token}, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	in.DNI = strings.TrimSpace(in.DNI)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if !domain.ValidDNI(in.DNI) {
		return &domain.ValidationError{Fields: domain.FieldErrors{"dni": {"validation.dni"}}}
	}

	if err := s.auth.Register(ctx, in); err != nil {
		return err
	}
	s.log.Info().Str("dni", in.DNI).Msg("user registered")
	return nil
}

// Logout notifies the backend. The caller clears the session regardless.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.auth.Logout(ctx)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.auth.ForgotPassword(ctx, strings.TrimSpace(email))
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if strings.TrimSpace(token) == "" {
		return &domain.ValidationError{Fields: domain.FieldErrors{"token": {"validation.required"}}}
	}
	return s.auth.ResetPassword(ctx, token, password)
}

func (s *AuthService) ChangePassword(ctx context.Context, actor domain.User, current, next string) error {
	if actor.ID == 0 {
		return domain.ErrUnauthenticated
	}
	if _, err := s.users.UpdateUser(ctx, actor.ID, ports.UserChanges{CurrentPassword: current, NewPassword: next}); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", actor.ID).Msg("password changed")
	return nil
}
