package chain

import (
	"fmt"
	"time"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// handleWin opens a victory claim. The claimant proves its fleet still has
// ships afloat and its commitment matches the record; the claim then sits
// in the contest window until another player contests it or the reaper
// finalizes it. Turn state is untouched.
func (n *Node) handleWin(input *fleetcore.CommunicationData) error {
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
	if game.PendingWin != nil {
		return ErrActiveWinClaim
	}

	game.PendingWin = &PendingWin{
		Claimant:  journal.Fleet,
		Board:     journal.Board,
		ClaimedAt: time.Now(),
	}

	n.hub.Broadcast(fmt.Sprintf(
		"%s claims victory in game %q. The claim can be contested for %s.",
		journal.Fleet, journal.GameID, contestWindow))
	return nil
}
