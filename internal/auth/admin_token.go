package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "il2-rankmod"

var (
	ErrMissingSecret = errors.New("admin secret is not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// AdminTokenService signs and validates HS256 tokens for the admin routes.
type AdminTokenService struct {
	secretKey []byte
}

func NewAdminTokenService(secret string) *AdminTokenService {
	return &AdminTokenService{secretKey: []byte(secret)}
}

// Issue mints a token for subject with the given role.
func (s *AdminTokenService) Issue(subject, role string, ttl time.Duration) (string, error) {
	if len(s.secretKey) == 0 {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"jti":  uuid.New().String(),
		"iss":  tokenIssuer,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Validate parses tokenString and returns its claims. Expiry is enforced by
// the parser.
func (s *AdminTokenService) Validate(tokenString string) (*AdminClaims, error) {
	if len(s.secretKey) == 0 {
		return nil, ErrMissingSecret
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing role claim", ErrInvalidToken)
	}
	jti, _ := claims["jti"].(string)

	return &AdminClaims{Subject: sub, RoleValue: role, JTI: jti}, nil
}
