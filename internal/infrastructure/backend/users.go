package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var w usuarioWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/usuarios/%d", id), "GET /usuarios/{id}", nil, &w); err != nil {
		return nil, notFoundAs(err, domain.ErrUserNotFound)
	}
	u := w.toDomain()
	return &u, nil
}

// FindUserByDNI resolves a DNI to a user. domain.ErrUserNotFound is returned
// when the backend does not know the DNI.
func (c *Client) FindUserByDNI(ctx context.Context, dni string) (*domain.User, error) {
	var w usuarioWire
	if err := c.do(ctx, http.MethodGet, "/usuarios/dni/"+url.PathEscape(dni), "GET /usuarios/dni/{dni}", nil, &w); err != nil {
		return nil, notFoundAs(err, domain.ErrUserNotFound)
	}
	if w.ID == 0 {
		return nil, domain.ErrUserNotFound
	}
	u := w.toDomain()
	return &u, nil
}

// UpdateUser sends a partial update. Backends that answer without a body get
// the user re-read.
func (c *Client) UpdateUser(ctx context.Context, id int64, changes ports.UserChanges) (*domain.User, error) {
	req := updateUserRequest{
		NombreCompleto: changes.FullName,
		Email:          changes.Email,
		FotoPerfil:     changes.ProfilePicture,
		PasswordActual: changes.CurrentPassword,
		Password:       changes.NewPassword,
	}

	var w usuarioWire
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d", id), "PUT /usuarios/{id}", req, &w); err != nil {
		return nil, notFoundAs(err, domain.ErrUserNotFound)
	}
	if w.ID == 0 {
		return c.GetUser(ctx, id)
	}
	u := w.toDomain()
	return &u, nil
}

// notFoundAs replaces a backend 404 with the given sentinel and keeps every
// other error untouched.
func notFoundAs(err error, sentinel error) error {
	var re *domain.RemoteError
	if errors.As(err, &re) && re.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %w", sentinel, re)
	}
	return err
}
