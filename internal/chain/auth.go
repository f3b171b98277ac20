package chain

import (
	"bytes"
	"fmt"

	"github.com/fleetproof/fleet-engine/internal/identity"
	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// Authenticate verifies that the signed envelope is what it claims to be:
// the Dilithium2 signature covers the canonical payload bytes, and when the
// journal names a fleet already registered in an existing game, the signer's
// key must be the one frozen at that fleet's join. Runs before the store
// lock is taken; it only reads player keys under a short View.
func (n *Node) Authenticate(signed *fleetcore.SignedMessage) error {
	msg, err := signed.SigningBytes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if !identity.Verify(signed.PublicKey, msg, signed.Signature) {
		return ErrInvalidSignature
	}

	// Fire and report journals are field supersets of BaseJournal, so the
	// cross-check decodes every receipt the same way.
	journal, err := signed.Payload.Receipt.DecodeBase()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	var registered []byte
	n.store.View(journal.GameID, func(g *Game) {
		if g == nil {
			return
		}
		if p, ok := g.Players[journal.Fleet]; ok {
			registered = p.SigningKey
		}
	})
	if registered != nil && !bytes.Equal(registered, signed.PublicKey) {
		return fmt.Errorf("%w: fleet %q", ErrSignerMismatch, journal.Fleet)
	}
	return nil
}
