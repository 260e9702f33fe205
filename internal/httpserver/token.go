package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/hangman/internal/session"
)

// tokenHeader carries a freshly minted token for clients that do not keep cookies.
const tokenHeader = "X-Session-Token"

// ctxSessionKey is the context key type for the session id.
type ctxSessionKey struct{}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxSessionKey{}).(string)
	return id
}

// withSession resolves the caller's session from a bearer token or cookie.
// A missing or invalid token, or a session that no longer exists, gets a new
// session and token instead of a 401.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if tok := s.bearerOrCookie(r); tok != "" {
			if claims, err := s.parseClaims(tok); err == nil {
				id := claims.Subject
				if _, err := s.store.Get(ctx, id); err == nil {
					if s.needsRefresh(claims) {
						if err := s.issueToken(w, id, s.now()); err != nil {
							hlog.FromRequest(r).Warn().Err(err).Str("session", id).Msg("refresh session token")
						}
					}
					next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxSessionKey{}, id)))
					return
				}
			}
		}

		id, err := s.newSession(w, r)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("create session")
			writeJSON(w, http.StatusInternalServerError, errBody{Error: "session_failed"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxSessionKey{}, id)))
	})
}

// newSession stores a fresh session and hands its token to the client.
func (s *Server) newSession(w http.ResponseWriter, r *http.Request) (string, error) {
	now := s.now()
	id := uuid.NewString()
	if err := s.store.Create(r.Context(), session.New(id, now)); err != nil {
		return "", err
	}
	if err := s.issueToken(w, id, now); err != nil {
		return "", err
	}
	hlog.FromRequest(r).Info().Str("session", id).Int("live", s.store.Len()).Msg("session created")
	return id, nil
}

// signToken creates an HS256 JWT whose subject is the session id.
// The token expires with the session TTL; a zero TTL means no expiry.
func (s *Server) signToken(id string, now time.Time) (string, time.Time, error) {
	claims := jwt.RegisteredClaims{
		Subject:  id,
		IssuedAt: jwt.NewNumericDate(now),
	}
	var exp time.Time
	if s.cfg.SessionTTL > 0 {
		exp = now.Add(s.cfg.SessionTTL)
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// issueToken signs a token for id and hands it to the client as a cookie
// and in the X-Session-Token header.
func (s *Server) issueToken(w http.ResponseWriter, id string, now time.Time) error {
	tok, exp, err := s.signToken(id, now)
	if err != nil {
		return err
	}
	s.setSessionCookie(w, tok, exp)
	w.Header().Set(tokenHeader, tok)
	return nil
}

// needsRefresh reports whether a valid token has less than half its
// lifetime left. Active players keep their session past the first TTL.
func (s *Server) needsRefresh(claims *jwt.RegisteredClaims) bool {
	if s.cfg.SessionTTL <= 0 || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Sub(s.now()) < s.cfg.SessionTTL/2
}

// parseClaims verifies tok; the claims' subject is the session id.
func (s *Server) parseClaims(tok string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.Subject == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from the Authorization header or the session cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}
