package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

var errMalformedLogin = errors.New("login response without user")

// Login posts the credentials and returns the authenticated user.
func (c *Client) Login(ctx context.Context, dni, password string) (*ports.LoginResult, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/usuarios/auth/login", "POST /usuarios/auth/login",
		loginRequest{DNI: dni, Password: password}, &resp); err != nil {
		return nil, err
	}

	u := resp.Usuario
	if u == nil {
		u = resp.User
	}
	if u == nil {
		return nil, errMalformedLogin
	}
	return &ports.LoginResult{User: u.toDomain(), Token: resp.Token}, nil
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/usuarios/auth/register", "POST /usuarios/auth/register", registerRequest{
		DNI:            in.DNI,
		NombreCompleto: in.FullName,
		Email:          in.Email,
		Password:       in.Password,
	}, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/usuarios/auth/logout", "POST /usuarios/auth/logout", nil, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/usuarios/auth/forgot-password", "POST /usuarios/auth/forgot-password",
		forgotPasswordRequest{Email: email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/usuarios/auth/reset-password", "POST /usuarios/auth/reset-password",
		resetPasswordRequest{Token: token, Password: password}, nil)
}
