package chain

import (
	"fmt"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// handleFire records a shot. The firer must hold the turn, the previous
// shot must be reported, and the journal's board commitment must match the
// firer's recorded state. On success the turn passes to the target: the
// envelope's fresh token (sealed to the target) replaces the game's turn
// state, and the shot position is latched until the target reports.
func (n *Node) handleFire(input *fleetcore.CommunicationData) error {
	journal, err := input.Receipt.DecodeFire()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if input.TokenData == nil {
		return fmt.Errorf("%w: fire must deliver the next turn token", ErrMalformedInput)
	}
	if journal.Pos >= fleetcore.GridCells {
		return fmt.Errorf("%w: shot position %d is outside the grid", ErrMalformedInput, journal.Pos)
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
	if _, ok := game.Players[journal.Target]; !ok {
		return fmt.Errorf("%w: %q", ErrTargetNotFound, journal.Target)
	}

	hash := input.TokenData.TokenHash
	game.TurnCommitment = &hash
	game.EncryptedToken = input.TokenData.EncToken
	pos := journal.Pos
	game.ShotPosition = &pos

	n.hub.Broadcast(fmt.Sprintf(
		"Shots fired! %s fired at %s targeting %s in game %q",
		journal.Fleet, fleetcore.FormatPos(journal.Pos), journal.Target, journal.GameID))
	return nil
}
