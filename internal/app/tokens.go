package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/transfa/returns-service/internal/domain"
)

var ErrInvalidToken = fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthenticated)

// TokenManager issues and verifies HS256 access tokens carrying the subject id and role.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *TokenManager) Issue(principal domain.Principal) (string, error) {
	issuedAt := m.now()
	claims := accessClaims{
		Role: string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.SubjectID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify resolves a bearer credential into a principal.
func (m *TokenManager) Verify(raw string) (domain.Principal, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Principal{}, ErrInvalidToken
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return domain.Principal{}, ErrInvalidToken
	}
	return domain.Principal{SubjectID: subjectID, Role: role}, nil
}
