// Package identity binds every chain action to a registered player through
// Dilithium2 detached signatures. Keys and signatures travel base-64 encoded.
package identity

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode2"
)

// Key and signature byte lengths are fixed by Dilithium2.
var (
	PublicKeySize  = mode2.PublicKeySize
	PrivateKeySize = mode2.PrivateKeySize
	SignatureSize  = mode2.SignatureSize
)

// GenerateKeypair draws a fresh Dilithium2 keypair and returns the raw
// public and private key bytes.
func GenerateKeypair() (pub, priv []byte, err error) {
	pk, sk, err := mode2.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("dilithium keygen: %v", err)
	}
	return pk.Bytes(), sk.Bytes(), nil
}

// Sign produces a detached signature over message with the given private
// key bytes.
func Sign(privKey, message []byte) ([]byte, error) {
	if len(privKey) != PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", PrivateKeySize, len(privKey))
	}
	var sk mode2.PrivateKey
	if err := sk.UnmarshalBinary(privKey); err != nil {
		return nil, fmt.Errorf("invalid private key: %v", err)
	}
	sig := make([]byte, SignatureSize)
	mode2.SignTo(&sk, message, sig)
	return sig, nil
}

// Verify reports whether signature is a valid detached Dilithium2 signature
// over message by the holder of pubKey. Malformed keys or signatures verify
// as false rather than erroring, so the caller has a single rejection path.
func Verify(pubKey, message, signature []byte) bool {
	if len(pubKey) != PublicKeySize || len(signature) != SignatureSize {
		return false
	}
	var pk mode2.PublicKey
	if err := pk.UnmarshalBinary(pubKey); err != nil {
		return false
	}
	return mode2.Verify(&pk, message, signature)
}

// ExportKeyBase64 encodes key material for transport.
func ExportKeyBase64(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

// ImportKeyBase64 decodes base-64 key material.
func ImportKeyBase64(key string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("invalid base-64 key: %v", err)
	}
	return b, nil
}
