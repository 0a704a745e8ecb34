package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

const roomsCacheKey = "salas:all"

// RoomService lists rooms through a cache and lets admins add or delete them.
type RoomService struct {
	rooms ports.RoomGateway
	cache ports.Cache
	ttl   time.Duration
	audit auditor
	log   zerolog.Logger
}

func NewRoomService(rooms ports.RoomGateway, cache ports.Cache, ttl time.Duration, rec ports.AuditRecorder, log zerolog.Logger) *RoomService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RoomService{rooms: rooms, cache: cache, ttl: ttl, audit: newAuditor(rec), log: log}
}

// List returns every room. Cache failures fall back to the backend.
func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	var cached []domain.Room
	hit, err := s.cache.Get(ctx, roomsCacheKey, &cached)
	if err != nil {
		s.log.Warn().Err(err).Msg("room cache lookup failed")
	}
	if hit {
		return cached, nil
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, roomsCacheKey, rooms, s.ttl); err != nil {
		s.log.Warn().Err(err).Msg("room cache store failed")
	}
	return rooms, nil
}

func (s *RoomService) Add(ctx context.Context, actor domain.User, name string, capacity int) (*domain.Room, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name = strings.TrimSpace(name)
	fields := domain.FieldErrors{}
	if name == "" {
		fields.Add("name", "validation.required")
	}
	if capacity < 1 {
		fields.Add("capacity", "validation.capacity")
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	room, err := s.rooms.CreateRoom(ctx, name, capacity)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.audit.record(domain.AuditRoomCreated, roomSubject(room.ID), actor, room.Name)
	s.log.Info().Int64("room_id", room.ID).Str("name", room.Name).Msg("room created")
	return room, nil
}

func (s *RoomService) Delete(ctx context.Context, actor domain.User, id int64) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.rooms.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.audit.record(domain.AuditRoomDeleted, roomSubject(id), actor, strconv.FormatInt(id, 10))
	s.log.Info().Int64("room_id", id).Msg("room deleted")
	return nil
}

func (s *RoomService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, roomsCacheKey); err != nil {
		s.log.Warn().Err(err).Msg("room cache invalidation failed")
	}
}
