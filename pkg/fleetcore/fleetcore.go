// Package fleetcore holds the wire types shared by the chain arbiter, the
// player host, and the guest programs: commands, proof inputs, journals,
// and the signed action envelope.
package fleetcore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Command identifies the action carried by a CommunicationData packet.
type Command string

const (
	CmdJoin    Command = "Join"
	CmdFire    Command = "Fire"
	CmdReport  Command = "Report"
	CmdWave    Command = "Wave"
	CmdWin     Command = "Win"
	CmdContest Command = "Contest"
)

// Digest is a 32-byte SHA-256 output. It is the unit of every commitment in
// the protocol: board commitments and turn-token commitments.
type Digest [32]byte

// ZeroDigest is the null commitment used where an action carries no turn
// token (Join, Win, Contest).
var ZeroDigest Digest

// IsZero reports whether the digest is the null commitment.
func (d Digest) IsZero() bool {
	return d == ZeroDigest
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalJSON encodes the digest as a lowercase hex string.
func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(d[:]))
}

// UnmarshalJSON decodes a 64-character hex string.
func (d *Digest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("digest is not hex: %v", err)
	}
	if len(b) != len(d) {
		return fmt.Errorf("digest must be %d bytes, got %d", len(d), len(b))
	}
	copy(d[:], b)
	return nil
}

// DigestFromBytes copies a 32-byte slice into a Digest.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != len(d) {
		return d, fmt.Errorf("digest must be %d bytes, got %d", len(d), len(b))
	}
	copy(d[:], b)
	return d, nil
}

// ─── Proof inputs ──────────────────────────────────────────────────

// TokenAuth is the private proof-of-turn input: the decrypted token secret
// and the hash the chain currently advertises for it.
type TokenAuth struct {
	Token        []byte `json:"token"`
	ExpectedHash Digest `json:"expectedHash"`
}

// BaseInputs feeds the join, wave, win, and contest guest programs.
// Random is the secret per-player nonce bound into the board commitment.
type BaseInputs struct {
	GameID    string     `json:"gameid"`
	Fleet     string     `json:"fleet"`
	Board     []byte     `json:"board"`
	Random    string     `json:"random"`
	TokenAuth *TokenAuth `json:"tokenAuth,omitempty"`
}

// FireInputs feeds the fire and report guest programs. For report, Target is
// repurposed to carry the claimed outcome, "Hit" or "Miss".
type FireInputs struct {
	GameID    string     `json:"gameid"`
	Fleet     string     `json:"fleet"`
	Board     []byte     `json:"board"`
	Random    string     `json:"random"`
	Target    string     `json:"target"`
	Pos       uint8      `json:"pos"`
	TokenAuth *TokenAuth `json:"tokenAuth,omitempty"`
}

// ─── Journals ──────────────────────────────────────────────────────

// BaseJournal is the public output of the join, wave, win, and contest
// programs. TokenCommitment is the zero digest when no turn proof is
// required (Join, Win, Contest).
type BaseJournal struct {
	GameID          string `json:"gameid"`
	Fleet           string `json:"fleet"`
	Board           Digest `json:"board"`
	TokenCommitment Digest `json:"tokenCommitment"`
}

// FireJournal is the public output of the fire program.
type FireJournal struct {
	GameID          string `json:"gameid"`
	Fleet           string `json:"fleet"`
	Board           Digest `json:"board"`
	Target          string `json:"target"`
	Pos             uint8  `json:"pos"`
	TokenCommitment Digest `json:"tokenCommitment"`
}

// ReportJournal is the public output of the report program. Board is the
// commitment before the shot, NextBoard the commitment after it; for a miss
// the two are equal.
type ReportJournal struct {
	GameID          string `json:"gameid"`
	Fleet           string `json:"fleet"`
	Report          string `json:"report"`
	Pos             uint8  `json:"pos"`
	Board           Digest `json:"board"`
	NextBoard       Digest `json:"nextBoard"`
	TokenCommitment Digest `json:"tokenCommitment"`
}

// ─── Receipts ──────────────────────────────────────────────────────

// Receipt is a verifiable proof that a guest program executed over some
// private inputs and committed Journal as its public output. The seal binds
// the journal to the program identifier; internal/guest owns its
// construction and verification.
type Receipt struct {
	ProgramID string `json:"programId"`
	Journal   []byte `json:"journal"`
	Seal      []byte `json:"seal"`
}

// DecodeBase decodes the journal as a BaseJournal. Fire and report journals
// are field supersets of BaseJournal, so this also serves the
// authenticator's cross-check on any receipt.
func (r *Receipt) DecodeBase() (BaseJournal, error) {
	var j BaseJournal
	if err := json.Unmarshal(r.Journal, &j); err != nil {
		return j, fmt.Errorf("decode base journal: %v", err)
	}
	return j, nil
}

// DecodeFire decodes the journal as a FireJournal.
func (r *Receipt) DecodeFire() (FireJournal, error) {
	var j FireJournal
	if err := json.Unmarshal(r.Journal, &j); err != nil {
		return j, fmt.Errorf("decode fire journal: %v", err)
	}
	return j, nil
}

// DecodeReport decodes the journal as a ReportJournal.
func (r *Receipt) DecodeReport() (ReportJournal, error) {
	var j ReportJournal
	if err := json.Unmarshal(r.Journal, &j); err != nil {
		return j, fmt.Errorf("decode report journal: %v", err)
	}
	return j, nil
}

// ─── Envelope ──────────────────────────────────────────────────────

// EncryptedToken delivers a fresh turn token: the RSA ciphertext of the
// secret (base-64), the SHA-256 commitment the chain will advertise, and
// the recipient's RSA public key (base-64 PEM). It is present on every
// action that hands the turn to a player: Join and Report target the sender
// itself, Fire targets the shot victim, Wave a randomly chosen player.
type EncryptedToken struct {
	EncToken     string `json:"encToken"`
	TokenHash    Digest `json:"tokenHash"`
	RecipientKey string `json:"recipientKey"`
}

// CommunicationData is the payload of every client-to-chain message.
type CommunicationData struct {
	Cmd       Command         `json:"cmd"`
	Receipt   Receipt         `json:"receipt"`
	TokenData *EncryptedToken `json:"tokenData,omitempty"`
}

// SignedMessage wraps a payload with a detached Dilithium2 signature over
// its canonical JSON serialization and the signer's public key.
type SignedMessage struct {
	Payload   CommunicationData `json:"payload"`
	Signature []byte            `json:"signature"`
	PublicKey []byte            `json:"public_key"`
}

// SigningBytes returns the canonical byte serialization of the payload that
// the signature covers. Both signer and verifier marshal the same struct, so
// the encoding is stable.
func (m *SignedMessage) SigningBytes() ([]byte, error) {
	b, err := json.Marshal(m.Payload)
	if err != nil {
		return nil, fmt.Errorf("serialize payload: %v", err)
	}
	return b, nil
}
