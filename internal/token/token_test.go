package token

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

func testKeypairB64(t *testing.T) (privB64, pubB64 string) {
	t.Helper()
	privPEM, pubPEM, err := GenerateRSAKeypair()
	if err != nil {
		t.Fatalf("GenerateRSAKeypair: %v", err)
	}
	return base64.StdEncoding.EncodeToString(privPEM),
		base64.StdEncoding.EncodeToString(pubPEM)
}

func TestGenerate(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(a) != TokenSize {
		t.Fatalf("token is %d bytes, want %d", len(a), TokenSize)
	}
	b, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two generated tokens are identical")
	}
}

func TestHash(t *testing.T) {
	tok := []byte("0123456789abcdef0123456789abcdef")
	want := fleetcore.Digest(sha256.Sum256(tok))
	if got := Hash(tok); got != want {
		t.Errorf("Hash() = %s, want %s", got, want)
	}
}

func TestEncryptDecryptRoundtrip(t *testing.T) {
	privB64, pubB64 := testKeypairB64(t)

	tok, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	enc, err := Encrypt(pubB64, tok)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	dec, err := Decrypt(privB64, enc)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(dec, tok) {
		t.Error("decrypted token does not match original")
	}
}

// Only the legitimate recipient can recover a delivered token.
func TestDecryptWithWrongKeyFails(t *testing.T) {
	_, pubB64 := testKeypairB64(t)
	otherPrivB64, _ := testKeypairB64(t)

	tok, _ := Generate()
	enc, err := Encrypt(pubB64, tok)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(otherPrivB64, enc); err == nil {
		t.Error("decryption with an unrelated private key succeeded")
	}
}

func TestPrepareTurnToken(t *testing.T) {
	privB64, pubB64 := testKeypairB64(t)

	blob, err := PrepareTurnToken(pubB64)
	if err != nil {
		t.Fatalf("PrepareTurnToken: %v", err)
	}
	if blob.RecipientKey != pubB64 {
		t.Error("blob does not carry the recipient key")
	}

	tok, err := Decrypt(privB64, blob.EncToken)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if Hash(tok) != blob.TokenHash {
		t.Error("advertised commitment does not match the sealed token")
	}
}

func TestParsePublicKeyRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "not-base64!!", base64.StdEncoding.EncodeToString([]byte("no pem here"))} {
		if _, err := ParsePublicKey(bad); err == nil {
			t.Errorf("ParsePublicKey(%q) accepted invalid input", bad)
		}
	}
}
