package chain

import (
	"fmt"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// handleWave passes the turn without firing. The waver must hold the turn
// and have nothing pending; the envelope's fresh token, sealed to whichever
// player the client picked, becomes the new turn state.
func (n *Node) handleWave(input *fleetcore.CommunicationData) error {
	journal, err := input.Receipt.DecodeBase()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if input.TokenData == nil {
		return fmt.Errorf("%w: wave must deliver the next turn token", ErrMalformedInput)
	}

	n.store.Lock()
	defer n.store.Unlock()

	game := n.store.game(journal.GameID)
	if game == nil {
		return fmt.Errorf("%w: %q", ErrGameNotFound, journal.GameID)
	}
	if game.TurnCommitment == nil || *game.TurnCommitment != journal.TokenCommitment {
		return ErrNotYourTurn
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

	hash := input.TokenData.TokenHash
	game.TurnCommitment = &hash
	game.EncryptedToken = input.TokenData.EncToken

	n.hub.Broadcast(fmt.Sprintf(
		"%s waved and passed the turn in game %q", journal.Fleet, journal.GameID))
	return nil
}
