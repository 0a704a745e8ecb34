package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

// CreateInvitation adds a pending invitation row for userID on shiftID.
func (c *Client) CreateInvitation(ctx context.Context, shiftID, userID int64) (*domain.Invitation, error) {
	req := createInvitadoRequest{TurnoID: shiftID, UsuarioID: userID, Estado: string(domain.InvitationPending)}

	var w invitadoWire
	if err := c.do(ctx, http.MethodPost, "/invitados", "POST /invitados", req, &w); err != nil {
		return nil, err
	}
	inv := w.toDomain(shiftID)
	if inv.UserID == 0 {
		inv.UserID = userID
	}
	return &inv, nil
}

func (c *Client) UpdateInvitation(ctx context.Context, id int64, status domain.InvitationStatus) error {
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/invitados/%d", id), "PUT /invitados/{id}", updateInvitadoRequest{Estado: string(status)}, nil)
	return notFoundAs(err, domain.ErrInvitationNotFound)
}
