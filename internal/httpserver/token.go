// internal/httpserver/token.go
//
// Player tokens. POST /game/new hands out an HS256 JWT whose "gid" claim names
// the round; mutating routes accept it as a bearer token or cookie and refuse
// tokens minted for another round.

package httpserver

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenCookieName = "connections_token"

type tokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// sign creates a token for round id; ttl defaults to 24h.
func (t tokenSigner) sign(id string) (string, time.Time, error) {
	ttl := t.ttl
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	exp := now.Add(ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gid": id,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := tok.SignedString(t.secret)
	return ss, exp, err
}

// verify returns the round id carried by a valid token.
func (t tokenSigner) verify(raw string) (string, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return "", errors.New("invalid token")
	}
	gid, _ := claims["gid"].(string)
	if gid == "" {
		return "", errors.New("invalid token")
	}
	return gid, nil
}

// requireToken enforces a valid token for the round in the URL.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerOrCookie(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		gid, err := s.tokens.verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		if gid != roundFrom(r).ID {
			writeError(w, http.StatusForbidden, "wrong_game")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerOrCookie extracts a bearer token from the Authorization header or the token cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(tokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

// setTokenCookie writes the token cookie with appropriate security attributes.
func setTokenCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}
