package chain

import (
	"fmt"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// handleContest challenges a pending victory claim. A contester proves it
// still has ships afloat, which refutes the claim; the claim is cleared and
// play continues. A claimant cannot contest itself.
func (n *Node) handleContest(input *fleetcore.CommunicationData) error {
	journal, err := input.Receipt.DecodeBase()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	n.store.Lock()
	defer n.store.Unlock()

	game := n.store.game(journal.GameID)
	if game == nil {
		return fmt.Errorf("%w: %q", ErrGameNotFound, journal.GameID)
	}
	if game.ShotPosition != nil {
		return ErrPendingShotUnreported
	}
	player, ok := game.Players[journal.Fleet]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlayerNotFound, journal.Fleet)
	}
	if player.CurrentState != journal.Board {
		return ErrStaleCommitment
	}
	if game.PendingWin == nil {
		return ErrNoWinClaim
	}
	if game.PendingWin.Claimant == journal.Fleet {
		return ErrSelfContest
	}

	claimant := game.PendingWin.Claimant
	game.PendingWin = nil

	n.hub.Broadcast(fmt.Sprintf(
		"Victory claim by %s in game %q was contested by %s. Play continues.",
		claimant, journal.GameID, journal.Fleet))
	return nil
}
