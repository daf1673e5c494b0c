// cmd/keygen/main.go
package main

import (
	"auth-service/logger"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// keygen writes a fresh RSA key pair used to sign and verify tokens.
func main() {
	out := pflag.StringP("out", "o", "certs", "directory to write private.pem and public.pem into")
	bits := pflag.IntP("bits", "b", 2048, "RSA key size in bits")
	force := pflag.BoolP("force", "f", false, "overwrite an existing private.pem")
	pflag.Parse()

	logger.Init()

	privatePath := filepath.Join(*out, "private.pem")
	if _, err := os.Stat(privatePath); err == nil && !*force {
		logger.Log.Fatalf("%s already exists, use --force to overwrite", privatePath)
	}

	if err := os.MkdirAll(*out, 0o700); err != nil {
		logger.Log.Fatalf("Could not create %s: %v", *out, err)
	}

	key, err := rsa.GenerateKey(rand.Reader, *bits)
	if err != nil {
		logger.Log.Fatalf("Could not generate key: %v", err)
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := os.WriteFile(privatePath, privatePEM, 0o600); err != nil {
		logger.Log.Fatalf("Could not write %s: %v", privatePath, err)
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		logger.Log.Fatalf("Could not encode public key: %v", err)
	}
	publicPath := filepath.Join(*out, "public.pem")
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})
	if err := os.WriteFile(publicPath, publicPEM, 0o644); err != nil {
		logger.Log.Fatalf("Could not write %s: %v", publicPath, err)
	}

	logger.Log.WithField("dir", *out).WithField("bits", *bits).Info("Key pair written")
}
