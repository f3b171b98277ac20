package chain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// handleJoin registers a fleet in a game, creating the game if needed. The
// first join bootstraps the turn: its envelope carries a token sealed to the
// joiner itself, and that token's hash becomes the game's turn commitment.
// Re-joining with the same fleet id succeeds without mutation only when the
// signing key matches the one frozen at the original join.
func (n *Node) handleJoin(input *fleetcore.CommunicationData, signerKey []byte) error {
	journal, err := input.Receipt.DecodeBase()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if input.TokenData == nil {
		return fmt.Errorf("%w: join must deliver a bootstrap token", ErrMalformedInput)
	}

	n.store.Lock()
	defer n.store.Unlock()

	game := n.store.game(journal.GameID)
	if game == nil {
		game = n.store.createGame(journal.GameID)
		hash := input.TokenData.TokenHash
		game.TurnCommitment = &hash
		game.EncryptedToken = input.TokenData.EncToken
	} else {
		if game.ShotPosition != nil {
			return ErrPendingShotUnreported
		}
		if game.PendingWin != nil {
			return ErrActiveWinClaim
		}
		if existing, ok := game.Players[journal.Fleet]; ok {
			if bytes.Equal(existing.SigningKey, signerKey) {
				return nil // idempotent re-join
			}
			return fmt.Errorf("%w: fleet %q", ErrDuplicatePlayer, journal.Fleet)
		}
	}

	game.Players[journal.Fleet] = &Player{
		Name:         journal.Fleet,
		CurrentState: journal.Board,
		SigningKey:   signerKey,
		RSAKey:       input.TokenData.RecipientKey,
	}

	players := game.PlayerNames()
	n.hub.Broadcast(fmt.Sprintf(
		"Player %q joined game %q. Commitment %s. Players now: [%s]",
		journal.Fleet, journal.GameID, journal.Board, strings.Join(players, ", ")))
	return nil
}
