package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	PurposeSession = "session"
	PurposeReset   = "reset"

	SessionTTL = 7 * 24 * time.Hour
	ResetTTL   = 20 * time.Minute
)

var ErrInvalidToken = errors.New("Invalid or expired token")

type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
	Purpose   string `json:"purpose"`

	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tokens with a single shared secret.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

func NewTokens(secret string) (*Tokens, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is empty")
	}
	return &Tokens{secret: []byte(secret), now: time.Now}, nil
}

func (t *Tokens) GenerateSession(c Claims) (string, error) {
	c.Purpose = PurposeSession
	return t.sign(c, SessionTTL)
}

func (t *Tokens) GenerateReset(userID uint) (string, error) {
	return t.sign(Claims{UserID: userID, Purpose: PurposeReset}, ResetTTL)
}

func (t *Tokens) sign(c Claims, ttl time.Duration) (string, error) {
	now := t.now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(t.secret)
}

// Verify parses tokenString and checks signature, expiry and purpose.
func (t *Tokens) Verify(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Purpose != purpose || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
