package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

// ListShifts returns every shift with its creator and invitations embedded.
func (c *Client) ListShifts(ctx context.Context) ([]domain.Shift, error) {
	var raw []turnoWire
	if err := c.do(ctx, http.MethodGet, "/turnos/full/all", "GET /turnos/full/all", nil, &raw); err != nil {
		return nil, err
	}
	shifts := make([]domain.Shift, 0, len(raw))
	for _, t := range raw {
		shifts = append(shifts, t.toDomain())
	}
	return shifts, nil
}

func (c *Client) CreateShift(ctx context.Context, in ports.NewShift) (*domain.Shift, error) {
	req := fieldsRequest(in.ShiftFields)
	req.UsuarioID = in.CreatorID
	req.Estado = in.Status.Wire()

	var w turnoWire
	if err := c.do(ctx, http.MethodPost, "/turnos", "POST /turnos", req, &w); err != nil {
		return nil, err
	}
	s := w.toDomain()
	if w.Fecha == "" {
		s = shiftFromRequest(w.ID, in.ShiftFields, in.Status)
		s.Creator.ID = in.CreatorID
	}
	return &s, nil
}

func (c *Client) UpdateShift(ctx context.Context, id int64, changes ports.ShiftChanges) (*domain.Shift, error) {
	var req turnoRequest
	if changes.Fields != nil {
		req = fieldsRequest(*changes.Fields)
	}
	if changes.Status != "" {
		req.Estado = changes.Status.Wire()
	}

	var w turnoWire
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/turnos/%d", id), "PUT /turnos/{id}", req, &w); err != nil {
		return nil, notFoundAs(err, domain.ErrShiftNotFound)
	}
	s := w.toDomain()
	if s.ID == 0 {
		s.ID = id
	}
	return &s, nil
}

func fieldsRequest(f ports.ShiftFields) turnoRequest {
	return turnoRequest{
		Fecha:                 f.Date,
		HoraInicio:            f.StartTime,
		HoraFin:               f.EndTime,
		Tematica:              f.Theme,
		CantidadParticipantes: f.Participants,
		Observaciones:         &f.Notes,
		Area:                  f.Area,
	}
}

func shiftFromRequest(id int64, f ports.ShiftFields, status domain.ShiftStatus) domain.Shift {
	return domain.Shift{
		ID:           id,
		Date:         f.Date,
		StartTime:    f.StartTime,
		EndTime:      f.EndTime,
		Theme:        f.Theme,
		Participants: f.Participants,
		Notes:        f.Notes,
		Area:         f.Area,
		Status:       status,
	}
}
