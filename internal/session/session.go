package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	internal "github.com/mfgkeeper/manufacturer-maintenance/internal"
)

const (
	RoleSuperAdmin        = "super_admin"
	RoleManufacturerAdmin = "manufacturer_admin"
	RoleUser              = "user"
)

// RoleNames maps role keys to the display labels rendered in views.
var RoleNames = map[string]string{
	RoleSuperAdmin:        "超级管理员",
	RoleManufacturerAdmin: "厂家管理员",
	RoleUser:              "普通用户",
}

func DisplayName(role string) string {
	if name, ok := RoleNames[role]; ok {
		return name
	}
	return role
}

func ValidRole(role string) bool {
	_, ok := RoleNames[role]
	return ok
}

// Session is the authenticated user's client-side state. JSON field names
// match the view payloads, so a marshalled Session is the "user" object
// views embed. ManufacturerID is nil only for super_admin.
type Session struct {
	UserID         int64   `json:"id"`
	Username       string  `json:"username"`
	RealName       string  `json:"real_name"`
	Role           string  `json:"role"`
	ManufacturerID *string `json:"manufacturer_id"`
}

type Claims struct {
	User Session `json:"user"`
	jwt.RegisteredClaims
}

var (
	ErrNoSession      = errors.New("no session cookie")
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidSession = errors.New("invalid session")
)

// Codec signs Session state into an HttpOnly cookie and reads it back.
// The cookie is tamper-proof but not encrypted; it never carries secrets
// beyond the identifiers above.
type Codec struct {
	secret     []byte
	lifetime   time.Duration
	cookieName string
	secure     bool
}

func NewCodec(cfg internal.SessionConfig) *Codec {
	return &Codec{
		secret:     []byte(cfg.Secret),
		lifetime:   cfg.Lifetime,
		cookieName: cfg.CookieName,
		secure:     cfg.CookieSecure,
	}
}

// Issue signs the session into a compact JWT with the configured lifetime.
func (c *Codec) Issue(sess Session) (string, error) {
	now := time.Now()
	claims := &Claims{
		User: sess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   sess.Username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the signature and expiry and returns the embedded session.
func (c *Codec) Decode(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}
	return &claims.User, nil
}

func (c *Codec) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.lifetime.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Codec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadCookie extracts and decodes the session cookie from a request.
func (c *Codec) ReadCookie(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	return c.Decode(cookie.Value)
}

type contextKey struct{}

func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session placed by the session middleware, or
// false when the request is anonymous.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok && sess != nil
}
