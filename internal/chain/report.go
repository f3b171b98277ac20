package chain

import (
	"fmt"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// handleReport resolves a pending shot. Only the token holder (the shot's
// target) can produce the proof, the reported position must be exactly the
// latched shot, and the journal's pre-state commitment must match the
// record. On success the reporter's commitment advances to the post-shot
// board and the reporter keeps the turn via the envelope's fresh token.
func (n *Node) handleReport(input *fleetcore.CommunicationData) error {
	journal, err := input.Receipt.DecodeReport()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if input.TokenData == nil {
		return fmt.Errorf("%w: report must deliver the next turn token", ErrMalformedInput)
	}

	n.store.Lock()
	defer n.store.Unlock()

	game := n.store.game(journal.GameID)
	if game == nil {
		return fmt.Errorf("%w: %q", ErrGameNotFound, journal.GameID)
	}
	player, ok := game.Players[journal.Fleet]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlayerNotFound, journal.Fleet)
	}
	if game.TurnCommitment == nil || *game.TurnCommitment != journal.TokenCommitment {
		return ErrNotYourTurn
	}
	if game.ShotPosition == nil {
		return fmt.Errorf("%w: no shot is awaiting a report", ErrMalformedInput)
	}
	if *game.ShotPosition != journal.Pos {
		return fmt.Errorf("%w: reported %s but the shot was %s", ErrMalformedInput,
			fleetcore.FormatPos(journal.Pos), fleetcore.FormatPos(*game.ShotPosition))
	}
	if player.CurrentState != journal.Board {
		return ErrStaleCommitment
	}

	player.CurrentState = journal.NextBoard
	hash := input.TokenData.TokenHash
	game.TurnCommitment = &hash
	game.EncryptedToken = input.TokenData.EncToken
	game.ShotPosition = nil

	n.hub.Broadcast(fmt.Sprintf(
		"Report received: %s reported %s at %s in game %q. %s now holds the turn.",
		journal.Fleet, journal.Report, fleetcore.FormatPos(journal.Pos),
		journal.GameID, journal.Fleet))
	return nil
}
