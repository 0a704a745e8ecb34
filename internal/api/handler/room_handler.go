package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/api/middleware"
	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/api/view"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

// RoomHandler serves the room admin page. Routes are mounted behind RBAC.
type RoomHandler struct {
	responder
	rooms ports.RoomService
}

func NewRoomHandler(rooms ports.RoomService, codec *session.Codec, bundle *i18n.Bundle, log zerolog.Logger) *RoomHandler {
	return &RoomHandler{
		responder: responder{codec: codec, bundle: bundle, log: log},
		rooms:     rooms,
	}
}

// List handles GET /salas.
//
// @Summary      List rooms
// @Tags         rooms
// @Produce      json
// @Success      200  {array}   domain.Room
// @Failure      403  {object}  ErrorResponse
// @Router       /salas [get]
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.rooms.List(c.Request().Context())
	if err != nil {
		return err
	}
	if middleware.WantsJSON(c) {
		return c.JSON(http.StatusOK, rooms)
	}
	return h.page(c, http.StatusOK, "rooms", "rooms.title", view.Rooms{Rooms: rooms})
}

// Add handles POST /salas.
//
// @Summary      Add a room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        body  body      roomRequest  true  "Room"
// @Success      200   {object}  actionResponse{data=domain.Room}
// @Failure      422   {object}  actionResponse
// @Router       /salas [post]
func (h *RoomHandler) Add(c echo.Context) error {
	var req roomRequest
	if err := c.Bind(&req); err != nil {
		return h.failure(c, "/salas", "room_create", "rooms.create_failed", bindError(err), nil)
	}
	form := map[string]string{"name": req.Name, "capacity": itoa(req.Capacity)}
	if err := c.Validate(&req); err != nil {
		return h.failure(c, "/salas", "room_create", "rooms.create_failed", err, form)
	}

	room, err := h.rooms.Add(c.Request().Context(), middleware.UserFrom(c), req.Name, req.Capacity)
	if err != nil {
		return h.failure(c, "/salas", "room_create", "rooms.create_failed", err, form)
	}
	return h.success(c, "/salas", outcome{
		action: "room_create",
		key:    "rooms.created",
		args:   []any{room.Name},
		data:   room,
	})
}

// Delete handles DELETE /salas/:id and the form fallback POST /salas/:id/delete.
//
// @Summary      Delete a room
// @Tags         rooms
// @Produce      json
// @Param        id   path      int  true  "Room id"
// @Success      200  {object}  actionResponse
// @Failure      404  {object}  actionResponse
// @Router       /salas/{id} [delete]
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.rooms.Delete(c.Request().Context(), middleware.UserFrom(c), id); err != nil {
		return h.failure(c, "/salas", "room_delete", "rooms.delete_failed", err, nil)
	}
	return h.success(c, "/salas", outcome{action: "room_delete", key: "rooms.deleted"})
}
