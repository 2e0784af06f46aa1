// Package session issues and validates the opaque session tokens that
// partition training plans between browsers. A session is a partition key,
// not an authenticated principal.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("session token invalid")

// Session is passed explicitly into every store call that is scoped to a client.
type Session struct {
	ID string `json:"session_id"`
}

type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Token struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue mints a token for a brand new session.
func (s *Service) Issue() (Token, error) {
	return s.sign(uuid.NewString())
}

// Renew keeps the session id of a still-valid token and extends its expiry.
// Anything unparseable yields a fresh session, matching a client whose local
// storage was cleared.
func (s *Service) Renew(token string) (Token, error) {
	if token == "" {
		return s.Issue()
	}
	sess, err := s.Parse(token)
	if err != nil {
		return s.Issue()
	}
	return s.sign(sess.ID)
}

func (s *Service) Parse(token string) (Session, error) {
	parsed, err := parseClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Session{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{ID: claims.SessionID}, nil
}

func (s *Service) sign(sessionID string) (Token, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Token: signed, SessionID: sessionID, ExpiresAt: expires}, nil
}

var parseClaimsFn = jwt.ParseWithClaims
