package guest

import (
	"crypto/sha256"
	"fmt"
	"slices"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// checkTokenAuth asserts that the prover holds the turn: the secret in the
// private inputs must hash to the commitment the chain advertises. It
// returns the commitment for the journal.
func checkTokenAuth(auth *fleetcore.TokenAuth) (fleetcore.Digest, error) {
	if auth == nil {
		return fleetcore.ZeroDigest, fmt.Errorf("token authorization is required")
	}
	hash := fleetcore.Digest(sha256.Sum256(auth.Token))
	if hash != auth.ExpectedHash {
		return fleetcore.ZeroDigest, fmt.Errorf("token mismatch: you do not own the turn")
	}
	return hash, nil
}

// ProveJoin runs the join program: the board must be a legal fleet
// placement. No turn token is required; the journal carries the null token
// commitment.
func ProveJoin(in fleetcore.BaseInputs) (*fleetcore.Receipt, error) {
	if !fleetcore.ValidateBoard(in.Board) {
		return nil, fmt.Errorf("invalid fleet layout")
	}
	return prove(JoinID, fleetcore.BaseJournal{
		GameID:          in.GameID,
		Fleet:           in.Fleet,
		Board:           fleetcore.CommitBoard(in.Board, in.Random),
		TokenCommitment: fleetcore.ZeroDigest,
	})
}

// ProveFire runs the fire program: the fleet must not be fully sunk and the
// prover must own the current turn token.
func ProveFire(in fleetcore.FireInputs) (*fleetcore.Receipt, error) {
	if len(in.Board) == 0 {
		return nil, fmt.Errorf("your fleet is fully sunk, cannot fire")
	}
	tokenHash, err := checkTokenAuth(in.TokenAuth)
	if err != nil {
		return nil, err
	}
	return prove(FireID, fleetcore.FireJournal{
		GameID:          in.GameID,
		Fleet:           in.Fleet,
		Board:           fleetcore.CommitBoard(in.Board, in.Random),
		Target:          in.Target,
		Pos:             in.Pos,
		TokenCommitment: tokenHash,
	})
}

// ProveReport runs the report program. The Target field carries the claimed
// outcome. For a miss the board is unchanged and pos must not be in it. For
// a hit the submitted board is the post-shot state, pos must already be
// removed, and the pre-shot board is reconstructed as sort(board + pos).
func ProveReport(in fleetcore.FireInputs) (*fleetcore.Receipt, error) {
	tokenHash, err := checkTokenAuth(in.TokenAuth)
	if err != nil {
		return nil, err
	}

	var boardHash, nextBoardHash fleetcore.Digest
	switch in.Target {
	case "Miss":
		if slices.Contains(in.Board, in.Pos) {
			return nil, fmt.Errorf("claimed miss, but target position was a hit")
		}
		boardHash = fleetcore.CommitBoard(in.Board, in.Random)
		nextBoardHash = boardHash
	case "Hit":
		if slices.Contains(in.Board, in.Pos) {
			return nil, fmt.Errorf("claimed hit, but position still present in updated board")
		}
		preBoard := append(slices.Clone(in.Board), in.Pos)
		slices.Sort(preBoard)
		boardHash = fleetcore.CommitBoard(preBoard, in.Random)
		nextBoardHash = fleetcore.CommitBoard(in.Board, in.Random)
	default:
		return nil, fmt.Errorf("invalid report value: %q", in.Target)
	}

	return prove(ReportID, fleetcore.ReportJournal{
		GameID:          in.GameID,
		Fleet:           in.Fleet,
		Report:          in.Target,
		Pos:             in.Pos,
		Board:           boardHash,
		NextBoard:       nextBoardHash,
		TokenCommitment: tokenHash,
	})
}

// ProveWave runs the wave program: turn ownership only, the board is merely
// recommitted.
func ProveWave(in fleetcore.BaseInputs) (*fleetcore.Receipt, error) {
	tokenHash, err := checkTokenAuth(in.TokenAuth)
	if err != nil {
		return nil, err
	}
	return prove(WaveID, fleetcore.BaseJournal{
		GameID:          in.GameID,
		Fleet:           in.Fleet,
		Board:           fleetcore.CommitBoard(in.Board, in.Random),
		TokenCommitment: tokenHash,
	})
}

// ProveWin runs the win program: the claimant's fleet must still have ships
// afloat. No turn token is required.
func ProveWin(in fleetcore.BaseInputs) (*fleetcore.Receipt, error) {
	if len(in.Board) == 0 {
		return nil, fmt.Errorf("cannot claim victory with an empty fleet")
	}
	return prove(WinID, fleetcore.BaseJournal{
		GameID:          in.GameID,
		Fleet:           in.Fleet,
		Board:           fleetcore.CommitBoard(in.Board, in.Random),
		TokenCommitment: fleetcore.ZeroDigest,
	})
}

// ProveContest runs the contest program: the contester's fleet must still
// have ships afloat. No turn token is required.
func ProveContest(in fleetcore.BaseInputs) (*fleetcore.Receipt, error) {
	if len(in.Board) == 0 {
		return nil, fmt.Errorf("cannot contest with an empty fleet")
	}
	return prove(ContestID, fleetcore.BaseJournal{
		GameID:          in.GameID,
		Fleet:           in.Fleet,
		Board:           fleetcore.CommitBoard(in.Board, in.Random),
		TokenCommitment: fleetcore.ZeroDigest,
	})
}

// ProgramIDFor maps a declared command to the program identifier its
// receipt must verify against.
func ProgramIDFor(cmd fleetcore.Command) (string, error) {
	switch cmd {
	case fleetcore.CmdJoin:
		return JoinID, nil
	case fleetcore.CmdFire:
		return FireID, nil
	case fleetcore.CmdReport:
		return ReportID, nil
	case fleetcore.CmdWave:
		return WaveID, nil
	case fleetcore.CmdWin:
		return WinID, nil
	case fleetcore.CmdContest:
		return ContestID, nil
	default:
		return "", fmt.Errorf("unknown command %q", cmd)
	}
}
