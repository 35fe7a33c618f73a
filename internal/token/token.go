// Package token validates investigator access tokens. Token issuance belongs
// to the origination platform's auth system; this engine only verifies.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
)

// Claims are the JWT claims carried by investigator access tokens.
type Claims struct {
	InvestigatorID string `json:"investigator_id"`
	jwt.RegisteredClaims
}

// Service validates HS256 investigator tokens against a shared signing key.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey, issuer string) *Service {
	return &Service{signingKey: []byte(signingKey), issuer: issuer}
}

// ValidateToken parses and verifies a token, returning the investigator id.
func (s *Service) ValidateToken(tokenString string) (id.InvestigatorID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithLeeway(30*time.Second))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.InvestigatorID == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "token missing investigator id")
	}
	return id.InvestigatorID(claims.InvestigatorID), nil
}
