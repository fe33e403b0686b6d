package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

// SessionIssuer implements ports.SessionIssuer with RS256.
type SessionIssuer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	audience   string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func NewSessionIssuer(privateKey *rsa.PrivateKey, issuer, audience string) *SessionIssuer {
	return &SessionIssuer{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		issuer:     issuer,
		audience:   audience,
	}
}

func (t *SessionIssuer) IssueSessionToken(userID, email string, expiresInSeconds int64) (string, error) {
	if email == "" {
		return "", errors.New("session token needs an email")
	}
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresInSeconds) * time.Second)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(t.privateKey)
}

func (t *SessionIssuer) ValidateSessionToken(tokenString string) (userID, email string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.publicKey, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token claims")
	}
	if claims.Email == "" {
		return "", "", errors.New("token carries no email")
	}
	return claims.Subject, claims.Email, nil
}

var _ ports.SessionIssuer = (*SessionIssuer)(nil)
