// file: service/token_service.go

package service

import (
	"auth-service/logger"
	"auth-service/model"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 365 * 24 * time.Hour

	DefaultIssuer = "auth-service"
)

// ErrInvalidToken covers every reason a presented token is not honored.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService signs and verifies RS256 access and refresh tokens.
type TokenService struct {
	keys   *KeyProvider
	issuer string
	now    func() time.Time
}

func NewTokenService(keys *KeyProvider, issuer string) *TokenService {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &TokenService{keys: keys, issuer: issuer, now: time.Now}
}

// GenerateAccessToken signs a one hour token carrying sub and role.
func (s *TokenService) GenerateAccessToken(payload model.TokenPayload) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(AccessTokenTTL)
	claims := s.claims(payload, now, expiresAt)

	token, err := s.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// GenerateRefreshToken signs a one year token whose jti is recordID. The
// record must already be persisted.
func (s *TokenService) GenerateRefreshToken(payload model.TokenPayload, recordID int) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(RefreshTokenTTL)
	claims := s.claims(payload, now, expiresAt)
	claims.ID = strconv.Itoa(recordID)

	token, err := s.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *TokenService) claims(payload model.TokenPayload, now, expiresAt time.Time) *model.AppClaims {
	return &model.AppClaims{
		Role: payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(payload.UserID),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}

func (s *TokenService) sign(claims *model.AppClaims) (string, error) {
	if s.keys == nil || s.keys.SigningKey() == nil {
		return "", ErrKeyUnavailable
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenString, err := token.SignedString(s.keys.SigningKey())
	if err != nil {
		logger.Log.WithError(err).WithField("sub", claims.Subject).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// ParseAccessToken verifies signature, algorithm, issuer and expiry. Tokens
// carrying a jti are refresh tokens and are rejected.
func (s *TokenService) ParseAccessToken(tokenString string) (*model.AppClaims, error) {
	claims, err := s.parseSubject(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.ID != "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseRefreshToken verifies the token like ParseAccessToken but requires a
// numeric jti. It does not consult the store; see AuthService.VerifyRefreshToken.
func (s *TokenService) ParseRefreshToken(tokenString string) (*model.AppClaims, error) {
	claims, err := s.parseSubject(tokenString)
	if err != nil {
		return nil, err
	}
	if _, err := claims.RecordID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) parseSubject(tokenString string) (*model.AppClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) parse(tokenString string) (*model.AppClaims, error) {
	if s.keys == nil {
		return nil, ErrKeyUnavailable
	}

	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.keys.VerificationKey(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		logger.Log.WithFields(logrus.Fields{"reason": errString(err)}).Debug("Rejected token")
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
