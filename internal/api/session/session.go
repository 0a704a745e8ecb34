// Package session stores the signed-in user and one-shot flash messages in
// HS256-signed cookies.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
)

const (
	CookieName      = "session"
	FlashCookieName = "flash"

	issuer   = "turnos-web"
	flashTTL = time.Minute
)

var ErrInvalidSession = errors.New("invalid session")

// Options configures the cookies.
type Options struct {
	Secret   string
	TTL      time.Duration
	HTTPOnly bool
	Secure   bool
}

// Codec signs and verifies the session and flash cookies.
type Codec struct {
	secret   []byte
	ttl      time.Duration
	httpOnly bool
	secure   bool
	now      func() time.Time
}

type claims struct {
	User  domain.User `json:"usr"`
	Token string      `json:"tok,omitempty"`
	jwt.RegisteredClaims
}

func NewCodec(opts Options) *Codec {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Codec{
		secret:   []byte(opts.Secret),
		ttl:      ttl,
		httpOnly: opts.HTTPOnly,
		secure:   opts.Secure,
		now:      time.Now,
	}
}

// Encode signs sess and returns the token and its expiry.
func (c *Codec) Encode(sess ports.Session) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		User:  sess.User,
		Token: sess.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sess.User.DNI,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Decode verifies a session token.
func (c *Codec) Decode(raw string) (*ports.Session, error) {
	var cl claims
	if err := c.parse(raw, &cl); err != nil {
		return nil, err
	}
	if cl.User.ID == 0 || cl.User.DNI == "" {
		return nil, ErrInvalidSession
	}
	return &ports.Session{User: cl.User, Token: cl.Token}, nil
}

func (c *Codec) parse(raw string, cl jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(raw, cl, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tkn.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return nil
}

// Read returns the session carried by r, if any.
func (c *Codec) Read(r *http.Request) (*ports.Session, error) {
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return nil, ErrInvalidSession
	}
	return c.Decode(ck.Value)
}

// Write sets the session cookie.
func (c *Codec) Write(w http.ResponseWriter, sess ports.Session) error {
	signed, exp, err := c.Encode(sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: c.httpOnly,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: c.httpOnly,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
