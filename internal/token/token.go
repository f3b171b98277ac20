// Package token implements the turn-token primitives: a 32-byte random
// secret whose SHA-256 hash the chain advertises as the turn commitment,
// delivered to the next turn holder under RSA PKCS#1 v1.5.
//
// RSA keys are 2048-bit, serialized as PKCS#8 (private) / PKIX (public) PEM
// and base-64 wrapped for transport.
package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// TokenSize is the byte length of the turn-token secret.
const TokenSize = 32

const rsaKeyBits = 2048

// Generate draws a fresh turn-token secret.
func Generate() ([]byte, error) {
	tok := make([]byte, TokenSize)
	if _, err := rand.Read(tok); err != nil {
		return nil, fmt.Errorf("token generation: %v", err)
	}
	return tok, nil
}

// Hash computes the turn commitment SHA-256(token).
func Hash(tok []byte) fleetcore.Digest {
	return fleetcore.Digest(sha256.Sum256(tok))
}

// GenerateRSAKeypair creates a 2048-bit RSA keypair, returning the private
// key as PKCS#8 PEM and the public key as PKIX PEM.
func GenerateRSAKeypair() (privPEM, pubPEM []byte, err error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("rsa keygen: %v", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal private key: %v", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal public key: %v", err)
	}

	privPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privPEM, pubPEM, nil
}

// ParsePublicKey decodes a base-64 wrapped PKIX PEM public key.
func ParsePublicKey(pubB64 string) (*rsa.PublicKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		return nil, fmt.Errorf("invalid base-64 RSA public key: %v", err)
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("RSA public key is not PEM")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse RSA public key: %v", err)
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not RSA")
	}
	return rsaKey, nil
}

// ParsePrivateKey decodes a base-64 wrapped PKCS#8 PEM private key.
func ParsePrivateKey(privB64 string) (*rsa.PrivateKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(privB64)
	if err != nil {
		return nil, fmt.Errorf("invalid base-64 RSA private key: %v", err)
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("RSA private key is not PEM")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse RSA private key: %v", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}
	return rsaKey, nil
}

// Encrypt seals the token secret to the recipient's base-64 PEM public key
// and returns the ciphertext base-64 encoded.
func Encrypt(recipientPubB64 string, tok []byte) (string, error) {
	pub, err := ParsePublicKey(recipientPubB64)
	if err != nil {
		return "", err
	}
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, pub, tok)
	if err != nil {
		return "", fmt.Errorf("token encryption: %v", err)
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// Decrypt recovers the token secret from a base-64 ciphertext with the
// holder's base-64 PEM private key.
func Decrypt(privB64, encTokenB64 string) ([]byte, error) {
	priv, err := ParsePrivateKey(privB64)
	if err != nil {
		return nil, err
	}
	ct, err := base64.StdEncoding.DecodeString(encTokenB64)
	if err != nil {
		return nil, fmt.Errorf("invalid base-64 token ciphertext: %v", err)
	}
	tok, err := rsa.DecryptPKCS1v15(rand.Reader, priv, ct)
	if err != nil {
		return nil, fmt.Errorf("token decryption: %v", err)
	}
	return tok, nil
}

// PrepareTurnToken generates a fresh secret, seals it to the recipient, and
// returns the delivery blob the envelope carries: ciphertext, commitment,
// and the recipient key it was sealed to.
func PrepareTurnToken(recipientPubB64 string) (*fleetcore.EncryptedToken, error) {
	tok, err := Generate()
	if err != nil {
		return nil, err
	}
	enc, err := Encrypt(recipientPubB64, tok)
	if err != nil {
		return nil, err
	}
	return &fleetcore.EncryptedToken{
		EncToken:     enc,
		TokenHash:    Hash(tok),
		RecipientKey: recipientPubB64,
	}, nil
}
