package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

func (c *Client) ListRooms(ctx context.Context) ([]domain.Room, error) {
	var raw []salaWire
	if err := c.do(ctx, http.MethodGet, "/salas", "GET /salas", nil, &raw); err != nil {
		return nil, err
	}
	rooms := make([]domain.Room, 0, len(raw))
	for _, s := range raw {
		rooms = append(rooms, s.toDomain())
	}
	return rooms, nil
}

func (c *Client) CreateRoom(ctx context.Context, name string, capacity int) (*domain.Room, error) {
	var w salaWire
	if err := c.do(ctx, http.MethodPost, "/salas", "POST /salas", createSalaRequest{Nombre: name, Capacidad: capacity}, &w); err != nil {
		return nil, err
	}
	if w.Nombre == "" {
		w.Nombre, w.Capacidad = name, capacity
	}
	r := w.toDomain()
	return &r, nil
}

func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/salas/%d", id), "DELETE /salas/{id}", nil, nil)
}
