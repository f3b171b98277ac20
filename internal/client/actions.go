// Package client implements the player host: it assembles action inputs,
// runs the guest programs to obtain receipts, handles turn-token custody,
// and submits signed envelopes to the chain.
package client

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fleetproof/fleet-engine/internal/guest"
	"github.com/fleetproof/fleet-engine/internal/identity"
	"github.com/fleetproof/fleet-engine/internal/token"
	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// Builder turns form submissions into signed chain actions.
type Builder struct {
	chain *ChainClient
}

func NewBuilder(chain *ChainClient) *Builder {
	return &Builder{chain: chain}
}

// fetchTokenAuth recovers the current turn secret: it downloads the game's
// encrypted token and decrypts it with the player's RSA private key.
func (b *Builder) fetchTokenAuth(gameID, rsaPrivB64 string) (*fleetcore.TokenAuth, error) {
	data, err := b.chain.Token(gameID)
	if err != nil {
		return nil, err
	}
	tok, err := token.Decrypt(rsaPrivB64, data.EncToken)
	if err != nil {
		return nil, fmt.Errorf("could not decrypt the turn token (is it your turn?): %v", err)
	}
	return &fleetcore.TokenAuth{Token: tok, ExpectedHash: data.TokenHash}, nil
}

// sendSigned wraps a receipt (and optional token delivery) in a signed
// envelope and submits it.
func (b *Builder) sendSigned(cmd fleetcore.Command, receipt *fleetcore.Receipt,
	tokenData *fleetcore.EncryptedToken, pubB64, privB64 string) string {

	pub, err := identity.ImportKeyBase64(pubB64)
	if err != nil {
		return err.Error()
	}
	priv, err := identity.ImportKeyBase64(privB64)
	if err != nil {
		return err.Error()
	}

	payload := fleetcore.CommunicationData{
		Cmd:       cmd,
		Receipt:   *receipt,
		TokenData: tokenData,
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		return "Failed to serialize payload"
	}
	sig, err := identity.Sign(priv, msg)
	if err != nil {
		return err.Error()
	}

	result, err := b.chain.Submit(&fleetcore.SignedMessage{
		Payload:   payload,
		Signature: sig,
		PublicKey: pub,
	})
	if err != nil {
		return err.Error()
	}
	return result
}

// Join proves a legal fleet placement and registers it. The envelope's
// token is sealed to the joiner itself; for the game's first join it
// becomes the initial turn commitment.
func (b *Builder) Join(f FormData) string {
	gameID, fleetID, board, random, err := f.baseFields()
	if err != nil {
		return err.Error()
	}
	pub, priv, err := f.keyFields()
	if err != nil {
		return err.Error()
	}
	rsaPub, _, err := f.rsaFields()
	if err != nil {
		return err.Error()
	}

	receipt, err := guest.ProveJoin(fleetcore.BaseInputs{
		GameID: gameID,
		Fleet:  fleetID,
		Board:  board,
		Random: random,
	})
	if err != nil {
		return err.Error()
	}

	blob, err := token.PrepareTurnToken(rsaPub)
	if err != nil {
		return err.Error()
	}
	return b.sendSigned(fleetcore.CmdJoin, receipt, blob, pub, priv)
}

// Fire proves turn ownership and a live fleet, then hands the turn to the
// target: a fresh token is sealed to the target's registered RSA key.
func (b *Builder) Fire(f FormData) string {
	gameID, fleetID, board, random, err := f.baseFields()
	if err != nil {
		return err.Error()
	}
	pub, priv, err := f.keyFields()
	if err != nil {
		return err.Error()
	}
	_, rsaPriv, err := f.rsaFields()
	if err != nil {
		return err.Error()
	}
	if f.TargetFleet == "" {
		return "You must provide a Target Fleet ID"
	}
	pos, err := f.firePos()
	if err != nil {
		return err.Error()
	}

	auth, err := b.fetchTokenAuth(gameID, rsaPriv)
	if err != nil {
		return err.Error()
	}

	receipt, err := guest.ProveFire(fleetcore.FireInputs{
		GameID:    gameID,
		Fleet:     fleetID,
		Board:     board,
		Random:    random,
		Target:    f.TargetFleet,
		Pos:       pos,
		TokenAuth: auth,
	})
	if err != nil {
		return err.Error()
	}

	targetKey, err := b.chain.RSAKey(gameID, f.TargetFleet)
	if err != nil {
		return err.Error()
	}
	blob, err := token.PrepareTurnToken(targetKey)
	if err != nil {
		return fmt.Sprintf("Could not seal the turn token to %s: %v", f.TargetFleet, err)
	}
	return b.sendSigned(fleetcore.CmdFire, receipt, blob, pub, priv)
}

// Report answers the pending shot. The board field must already reflect the
// outcome being claimed: unchanged for a miss, with the hit cell removed
// for a hit. The fresh token is sealed back to the reporter, who fires next.
func (b *Builder) Report(f FormData) string {
	gameID, fleetID, board, random, err := f.baseFields()
	if err != nil {
		return err.Error()
	}
	pub, priv, err := f.keyFields()
	if err != nil {
		return err.Error()
	}
	rsaPub, rsaPriv, err := f.rsaFields()
	if err != nil {
		return err.Error()
	}
	if f.Report != "Hit" && f.Report != "Miss" {
		return "Report must be either 'Hit' or 'Miss'"
	}
	pos, err := f.reportPos()
	if err != nil {
		return err.Error()
	}

	auth, err := b.fetchTokenAuth(gameID, rsaPriv)
	if err != nil {
		return err.Error()
	}

	receipt, err := guest.ProveReport(fleetcore.FireInputs{
		GameID:    gameID,
		Fleet:     fleetID,
		Board:     board,
		Random:    random,
		Target:    f.Report,
		Pos:       pos,
		TokenAuth: auth,
	})
	if err != nil {
		return err.Error()
	}

	blob, err := token.PrepareTurnToken(rsaPub)
	if err != nil {
		return err.Error()
	}
	return b.sendSigned(fleetcore.CmdReport, receipt, blob, pub, priv)
}

// Wave passes the turn to a randomly chosen other player.
func (b *Builder) Wave(f FormData) string {
	gameID, fleetID, board, random, err := f.baseFields()
	if err != nil {
		return err.Error()
	}
	pub, priv, err := f.keyFields()
	if err != nil {
		return err.Error()
	}
	_, rsaPriv, err := f.rsaFields()
	if err != nil {
		return err.Error()
	}

	auth, err := b.fetchTokenAuth(gameID, rsaPriv)
	if err != nil {
		return err.Error()
	}

	receipt, err := guest.ProveWave(fleetcore.BaseInputs{
		GameID:    gameID,
		Fleet:     fleetID,
		Board:     board,
		Random:    random,
		TokenAuth: auth,
	})
	if err != nil {
		return err.Error()
	}

	recipient, err := b.pickRandomOpponent(gameID, fleetID)
	if err != nil {
		return err.Error()
	}
	recipientKey, err := b.chain.RSAKey(gameID, recipient)
	if err != nil {
		return err.Error()
	}
	blob, err := token.PrepareTurnToken(recipientKey)
	if err != nil {
		return fmt.Sprintf("Could not seal the turn token to %s: %v", recipient, err)
	}
	return b.sendSigned(fleetcore.CmdWave, receipt, blob, pub, priv)
}

// Win claims victory; no turn token is required and none is passed.
func (b *Builder) Win(f FormData) string {
	return b.claim(f, fleetcore.CmdWin, guest.ProveWin)
}

// Contest challenges a pending victory claim by proving a live fleet.
func (b *Builder) Contest(f FormData) string {
	return b.claim(f, fleetcore.CmdContest, guest.ProveContest)
}

func (b *Builder) claim(f FormData, cmd fleetcore.Command,
	prove func(fleetcore.BaseInputs) (*fleetcore.Receipt, error)) string {

	gameID, fleetID, board, random, err := f.baseFields()
	if err != nil {
		return err.Error()
	}
	pub, priv, err := f.keyFields()
	if err != nil {
		return err.Error()
	}

	receipt, err := prove(fleetcore.BaseInputs{
		GameID: gameID,
		Fleet:  fleetID,
		Board:  board,
		Random: random,
	})
	if err != nil {
		return err.Error()
	}
	return b.sendSigned(cmd, receipt, nil, pub, priv)
}

// pickRandomOpponent draws a uniformly random other player from the game.
func (b *Builder) pickRandomOpponent(gameID, selfFleet string) (string, error) {
	players, err := b.chain.Players(gameID)
	if err != nil {
		return "", err
	}
	others := make([]string, 0, len(players))
	for _, p := range players {
		if p != selfFleet {
			others = append(others, p)
		}
	}
	if len(others) == 0 {
		return "", fmt.Errorf("no other players to wave to")
	}
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(others))))
	if err != nil {
		return "", fmt.Errorf("randomness unavailable: %v", err)
	}
	return others[idx.Int64()], nil
}
