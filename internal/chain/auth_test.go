package chain

import (
	"errors"
	"testing"

	"github.com/fleetproof/fleet-engine/internal/guest"
	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

func TestAuthenticateAcceptsUnknownGame(t *testing.T) {
	n := newTestNode()
	a := newTestPlayer(t, "alpha", legalFleet())

	// Before any game exists there is no registered key to cross-check;
	// a valid signature is all that is required.
	receipt, err := guest.ProveJoin(fleetcore.BaseInputs{
		GameID: "g1", Fleet: a.fleet, Board: a.board, Random: a.nonce,
	})
	if err != nil {
		t.Fatal(err)
	}
	blob, _ := makeToken(t, a)
	if err := n.Authenticate(a.sign(t, fleetcore.CmdJoin, receipt, blob)); err != nil {
		t.Errorf("Authenticate: %v", err)
	}
}

func TestAuthenticateCrossChecksRegisteredKey(t *testing.T) {
	n := newTestNode()
	a := newTestPlayer(t, "alpha", legalFleet())
	res, _ := join(t, n, a)
	wantOK(t, res)

	// A different keyholder claiming alpha's identity fails the cross-check
	// even though its signature over its own envelope is valid.
	impostor := newTestPlayer(t, "alpha", legalFleet())
	receipt, err := guest.ProveWin(fleetcore.BaseInputs{
		GameID: "g1", Fleet: "alpha", Board: impostor.board, Random: impostor.nonce,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = n.Authenticate(impostor.sign(t, fleetcore.CmdWin, receipt, nil))
	if !errors.Is(err, ErrSignerMismatch) {
		t.Errorf("expected ErrSignerMismatch, got %v", err)
	}
}

func TestAuthenticateRejectsBadSignature(t *testing.T) {
	n := newTestNode()
	a := newTestPlayer(t, "alpha", legalFleet())

	receipt, err := guest.ProveJoin(fleetcore.BaseInputs{
		GameID: "g1", Fleet: a.fleet, Board: a.board, Random: a.nonce,
	})
	if err != nil {
		t.Fatal(err)
	}
	blob, _ := makeToken(t, a)
	signed := a.sign(t, fleetcore.CmdJoin, receipt, blob)

	signed.Payload.Cmd = fleetcore.CmdWave // payload no longer matches the signature
	err = n.Authenticate(signed)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}
