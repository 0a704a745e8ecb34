package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/api/metrics"
	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

// MaxPictureSize caps profile picture uploads.
const MaxPictureSize = 5 << 20

var pictureExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProfileService reads and updates the signed-in user's own record.
type ProfileService struct {
	users    ports.UserGateway
	pictures ports.PictureStore
	audit    auditor
	log      zerolog.Logger
}

func NewProfileService(users ports.UserGateway, pictures ports.PictureStore, rec ports.AuditRecorder, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, pictures: pictures, audit: newAuditor(rec), log: log}
}

// Get re-reads the actor from the backend.
func (s *ProfileService) Get(ctx context.Context, actor domain.User) (*domain.User, error) {
	if actor.ID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.GetUser(ctx, actor.ID)
}

func (s *ProfileService) Update(ctx context.Context, actor domain.User, fullName, email string) (*domain.User, error) {
	if actor.ID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)

	updated, err := s.users.UpdateUser(ctx, actor.ID, ports.UserChanges{FullName: &fullName, Email: &email})
	if err != nil {
		return nil, err
	}
	s.audit.record(domain.AuditProfileUpdated, userSubject(actor.ID), actor, "profile")
	return updated, nil
}

// UploadPicture stores the image in object storage, then saves its public
// URL on the user.
func (s *ProfileService) UploadPicture(ctx context.Context, actor domain.User, pic ports.ProfilePicture) (*domain.User, error) {
	if actor.ID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	if s.pictures == nil {
		return nil, fmt.Errorf("upload picture: %w", domain.ErrInvalidPicture)
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(pic.ContentType, ";", 2)[0]))
	ext, ok := pictureExtensions[contentType]
	if !ok {
		return nil, &domain.ValidationError{Fields: domain.FieldErrors{"picture": {"validation.picture_type"}}}
	}
	if pic.Size <= 0 || pic.Size > MaxPictureSize {
		return nil, &domain.ValidationError{Fields: domain.FieldErrors{"picture": {"validation.picture_size"}}}
	}

	key := fmt.Sprintf("profile-pictures/%d/%s%s", actor.ID, uuid.NewString(), ext)
	url, err := s.pictures.Upload(ctx, key, contentType, pic.Body)
	if err != nil {
		metrics.PictureUploadsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Int64("user_id", actor.ID).Msg("profile picture upload failed")
		return nil, err
	}
	metrics.PictureUploadsTotal.WithLabelValues("success").Inc()

	updated, err := s.users.UpdateUser(ctx, actor.ID, ports.UserChanges{ProfilePicture: &url})
	if err != nil {
		return nil, err
	}
	s.audit.record(domain.AuditProfileUpdated, userSubject(actor.ID), actor, "picture")
	s.log.Info().Int64("user_id", actor.ID).Str("key", key).Msg("profile picture updated")
	return updated, nil
}
