package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issueSessionToken creates a signed HS256 JWT for the given subject.
func (s *AuthServiceImpl) issueSessionToken(userID string, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// parseSessionToken validates signature and expiry and returns the subject.
func (s *AuthServiceImpl) parseSessionToken(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return s.signKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clk.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	return claims.Subject, nil
}
