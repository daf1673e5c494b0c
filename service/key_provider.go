package service

import (
	"auth-service/logger"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// ErrKeyUnavailable is returned when the signing key cannot be read or parsed.
var ErrKeyUnavailable = errors.New("couldn't read private key")

// KeyProvider holds the RSA key pair used to sign and verify every token.
// It is built once at startup and never mutated, so it can be shared freely.
type KeyProvider struct {
	privateKey *rsa.PrivateKey
}

// NewKeyProvider wraps an already parsed private key.
func NewKeyProvider(privateKey *rsa.PrivateKey) (*KeyProvider, error) {
	if privateKey == nil {
		return nil, ErrKeyUnavailable
	}
	return &KeyProvider{privateKey: privateKey}, nil
}

// LoadKeyProvider reads a PEM encoded RSA private key (PKCS#1 or PKCS#8) from path.
func LoadKeyProvider(path string) (*KeyProvider, error) {
	log := logger.Log.WithField("path", path)

	pemBytes, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Error("Failed to read private key file")
		return nil, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		log.WithError(err).Error("Failed to parse private key")
		return nil, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}

	log.Info("Private key loaded")
	return &KeyProvider{privateKey: privateKey}, nil
}

func (p *KeyProvider) SigningKey() *rsa.PrivateKey {
	return p.privateKey
}

func (p *KeyProvider) VerificationKey() *rsa.PublicKey {
	return &p.privateKey.PublicKey
}
