package questionnaire

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ocean-report/internal/domain"
)

const tokenIssuer = "ocean-report"

var (
	ErrInvalidToken = errors.New("session token invalid")
	ErrExpiredToken = errors.New("session token expired")
)

// TokenCodec signs Session values so the traversal state can travel with each request
// instead of living on the server.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type sessionClaims struct {
	Step    int             `json:"step"`
	Answers domain.Response `json:"answers"`
	jwt.RegisteredClaims
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Encode signs s; every call refreshes the expiry.
func (c *TokenCodec) Encode(s Session) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(s.ID) == "" {
		return "", ErrInvalidToken
	}
	now := c.now()
	claims := sessionClaims{
		Step:    s.Step,
		Answers: s.Answers,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a token and returns the Session it carries.
func (c *TokenCodec) Decode(token string) (Session, error) {
	if len(c.secret) == 0 || strings.TrimSpace(token) == "" {
		return Session{}, ErrInvalidToken
	}
	var claims sessionClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(c.now),
	)
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrExpiredToken
		}
		return Session{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.ID) == "" || claims.Step < 0 || claims.Step > len(Statements) {
		return Session{}, ErrInvalidToken
	}
	answers := claims.Answers
	if answers == nil {
		answers = domain.Response{}
	}
	for item, v := range answers {
		if item < 1 || item > len(Statements) || v < 1 || v > len(Options) {
			return Session{}, ErrInvalidToken
		}
	}
	return Session{ID: claims.ID, Step: claims.Step, Answers: answers}, nil
}
