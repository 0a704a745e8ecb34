package session

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

// Flash is a translated action result shown once after a redirect, together
// with the submitted form values so the form can be filled again.
type Flash struct {
	Type    domain.ResultType   `json:"type"`
	Message string              `json:"message"`
	Details []string            `json:"details,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Form    map[string]string   `json:"form,omitempty"`
}

type flashClaims struct {
	Flash Flash `json:"flash"`
	jwt.RegisteredClaims
}

// WriteFlash stores f for the next request.
func (c *Codec) WriteFlash(w http.ResponseWriter, f Flash) error {
	now := c.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, flashClaims{
		Flash: f,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return fmt.Errorf("sign flash: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(flashTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// PopFlash returns the pending flash, if any, and expires its cookie.
func (c *Codec) PopFlash(w http.ResponseWriter, r *http.Request) (*Flash, bool) {
	ck, err := r.Cookie(FlashCookieName)
	if err != nil || ck.Value == "" {
		return nil, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})

	var cl flashClaims
	if err := c.parse(ck.Value, &cl); err != nil {
		return nil, false
	}
	return &cl.Flash, true
}
