package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

func TestRoomHandler_Add(t *testing.T) {
	env := newTestEnv(t)
	rooms := &stubRoomService{
		addFn: func(ctx context.Context, actor domain.User, name string, capacity int) (*domain.Room, error) {
			if !actor.IsAdmin() || name != "Aula Magna" || capacity != 120 {
				t.Fatalf("unexpected args: %+v %s %d", actor, name, capacity)
			}
			return &domain.Room{ID: 3, Name: name, Capacity: capacity}, nil
		},
	}
	h := NewRoomHandler(rooms, env.codec, env.bundle, env.log)

	rec := env.do(t, h.Add, call{
		method: http.MethodPost,
		target: "/salas",
		form:   url.Values{"name": {"Aula Magna"}, "capacity": {"120"}},
		lang:   "en",
		user:   &adminUser,
	})

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/salas" {
		t.Fatalf("expected 303 to /salas, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if f := env.flash(t, rec); f.Message != "Room Aula Magna created" {
		t.Fatalf("unexpected flash %+v", f)
	}
}

func TestRoomHandler_Add_DuplicateSurfacesBackendMessage(t *testing.T) {
	env := newTestEnv(t)
	rooms := &stubRoomService{
		addFn: func(ctx context.Context, actor domain.User, name string, capacity int) (*domain.Room, error) {
			return nil, &domain.RemoteError{Status: http.StatusConflict, Message: "Ya existe una sala con ese nombre"}
		},
	}
	h := NewRoomHandler(rooms, env.codec, env.bundle, env.log)

	rec := env.do(t, h.Add, call{
		method: http.MethodPost,
		target: "/salas",
		body:   `{"name":"Sala 1","capacity":10}`,
		json:   true,
		user:   &adminUser,
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if resp := decodeAction(t, rec); resp.Message != "Ya existe una sala con ese nombre" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestRoomHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	var deleted int64
	rooms := &stubRoomService{
		deleteFn: func(ctx context.Context, actor domain.User, id int64) error {
			deleted = id
			return nil
		},
	}
	h := NewRoomHandler(rooms, env.codec, env.bundle, env.log)

	rec := env.do(t, h.Delete, call{method: http.MethodPost, target: "/salas/8/delete", user: &adminUser, params: map[string]string{"id": "8"}})
	if deleted != 8 || rec.Code != http.StatusSeeOther {
		t.Fatalf("expected room 8 deleted with 303, got id=%d code=%d", deleted, rec.Code)
	}

	rec = env.do(t, h.Delete, call{method: http.MethodDelete, target: "/salas/abc", json: true, user: &adminUser, params: map[string]string{"id": "abc"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a malformed id, got %d", rec.Code)
	}
}
