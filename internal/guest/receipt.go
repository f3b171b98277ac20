// Package guest implements the six verifiable programs that constrain what
// a player may truthfully claim: join, fire, report, wave, win, contest.
//
// Each program is addressed by a fixed content identifier. Executing a
// program over private inputs yields a fleetcore.Receipt whose journal is
// the program's public output and whose seal binds that journal to the
// program id. The in-process prover here mirrors a zkVM dev-mode executor:
// assertions run natively and a failed assertion aborts proving, so a
// receipt only ever exists for an honest execution. A production deployment
// swaps this package's sealing for a real proving backend; nothing outside
// it constructs or checks seals.
package guest

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// Program identifiers, derived from the program name and revision. The
// chain verifies every receipt against the identifier of the declared
// command; a mismatch rejects the action.
var (
	JoinID    = programID("fleet/join@v1")
	FireID    = programID("fleet/fire@v1")
	ReportID  = programID("fleet/report@v1")
	WaveID    = programID("fleet/wave@v1")
	WinID     = programID("fleet/win@v1")
	ContestID = programID("fleet/contest@v1")
)

// ErrInvalidReceipt is returned when a seal does not verify against the
// expected program identifier.
var ErrInvalidReceipt = errors.New("invalid receipt")

const sealDomain = "fleet-engine/seal/v1"

func programID(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])
}

func seal(programID string, journal []byte) []byte {
	h := sha256.New()
	h.Write([]byte(sealDomain))
	h.Write([]byte{0})
	h.Write([]byte(programID))
	h.Write([]byte{0})
	h.Write(journal)
	return h.Sum(nil)
}

// prove marshals the journal and wraps it in a sealed receipt.
func prove(programID string, journal any) (*fleetcore.Receipt, error) {
	jb, err := json.Marshal(journal)
	if err != nil {
		return nil, fmt.Errorf("encode journal: %v", err)
	}
	return &fleetcore.Receipt{
		ProgramID: programID,
		Journal:   jb,
		Seal:      seal(programID, jb),
	}, nil
}

// VerifyReceipt checks that the receipt's seal binds its journal to the
// expected program identifier.
func VerifyReceipt(r *fleetcore.Receipt, programID string) error {
	if r == nil {
		return fmt.Errorf("%w: missing receipt", ErrInvalidReceipt)
	}
	if r.ProgramID != programID {
		return fmt.Errorf("%w: receipt proves a different program", ErrInvalidReceipt)
	}
	want := seal(programID, r.Journal)
	if subtle.ConstantTimeCompare(r.Seal, want) != 1 {
		return fmt.Errorf("%w: seal does not verify", ErrInvalidReceipt)
	}
	return nil
}
