package api

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spotcircuit/dmv-test/internal/id"
)

const sessionCookieName = "dmv_session"

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionCookies seals the opaque session id into an HS256 token stored
// in the dmv_session cookie. The quiz state itself stays server-side.
type SessionCookies struct {
	hmac   []byte
	ttl    time.Duration
	secure bool
}

func NewSessionCookies(secret string, ttl time.Duration, secure bool) *SessionCookies {
	return &SessionCookies{hmac: []byte(secret), ttl: ttl, secure: secure}
}

func (c *SessionCookies) issue(sid string) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "dmv-test",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.hmac)
}

func (c *SessionCookies) parse(tokenStr string) (string, bool) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !id.Valid(claims.SID) {
		return "", false
	}
	return claims.SID, true
}

// Read returns the session id carried by the request, if any.
func (c *SessionCookies) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	return c.parse(cookie.Value)
}

// Ensure returns the request's session id, issuing a new one when the
// cookie is absent or does not verify.
func (c *SessionCookies) Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if sid, ok := c.Read(r); ok {
		return sid, nil
	}

	sid := id.NewSessionID()
	tok, err := c.issue(sid)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid, nil
}
