package chain

import (
	"fmt"
	"log"

	"github.com/fleetproof/fleet-engine/internal/guest"
	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// Node is the arbiter: it authenticates envelopes, verifies receipts, and
// applies the per-command state transitions to the store.
type Node struct {
	store *Store
	hub   *Hub
}

func NewNode(store *Store, hub *Hub) *Node {
	return &Node{store: store, hub: hub}
}

// Store exposes the game map for the auxiliary read endpoints and the
// reaper.
func (n *Node) Store() *Store {
	return n.store
}

// HandleAction runs the full pipeline for one signed envelope and returns
// the plain-text body for the HTTP response: "OK" on success, a diagnostic
// sentence otherwise. Signature and proof verification run outside the
// store mutex (the authenticator only holds it briefly to read a registered
// key); only the handler transition runs under it.
func (n *Node) HandleAction(signed *fleetcore.SignedMessage) string {
	if err := n.Authenticate(signed); err != nil {
		return n.reject(signed.Payload.Cmd, err)
	}

	programID, err := guest.ProgramIDFor(signed.Payload.Cmd)
	if err != nil {
		return n.reject(signed.Payload.Cmd, fmt.Errorf("%w: %v", ErrMalformedInput, err))
	}
	if err := guest.VerifyReceipt(&signed.Payload.Receipt, programID); err != nil {
		return n.reject(signed.Payload.Cmd, fmt.Errorf("%w: %v", ErrInvalidProof, err))
	}

	switch signed.Payload.Cmd {
	case fleetcore.CmdJoin:
		err = n.handleJoin(&signed.Payload, signed.PublicKey)
	case fleetcore.CmdFire:
		err = n.handleFire(&signed.Payload)
	case fleetcore.CmdReport:
		err = n.handleReport(&signed.Payload)
	case fleetcore.CmdWave:
		err = n.handleWave(&signed.Payload)
	case fleetcore.CmdWin:
		err = n.handleWin(&signed.Payload)
	case fleetcore.CmdContest:
		err = n.handleContest(&signed.Payload)
	}
	if err != nil {
		return n.reject(signed.Payload.Cmd, err)
	}
	return "OK"
}

func (n *Node) reject(cmd fleetcore.Command, err error) string {
	log.Printf("[Chain] Rejected %s: %v", cmd, err)
	n.hub.Broadcast(fmt.Sprintf("Rejected %s action: %v", cmd, err))
	return err.Error()
}
