package guest

import (
	"crypto/sha256"
	"testing"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

func legalFleet() []byte {
	return []byte{
		0, 1, 2, 3, 4,
		20, 21, 22, 23,
		40, 41, 42,
		60, 61,
		64, 65,
		80, 83,
	}
}

func turnAuth(tok []byte) *fleetcore.TokenAuth {
	return &fleetcore.TokenAuth{
		Token:        tok,
		ExpectedHash: fleetcore.Digest(sha256.Sum256(tok)),
	}
}

func TestProveJoin(t *testing.T) {
	in := fleetcore.BaseInputs{GameID: "g1", Fleet: "alpha", Board: legalFleet(), Random: "n0nce"}
	receipt, err := ProveJoin(in)
	if err != nil {
		t.Fatalf("ProveJoin: %v", err)
	}
	if err := VerifyReceipt(receipt, JoinID); err != nil {
		t.Fatalf("VerifyReceipt: %v", err)
	}

	journal, err := receipt.DecodeBase()
	if err != nil {
		t.Fatalf("DecodeBase: %v", err)
	}
	if journal.GameID != "g1" || journal.Fleet != "alpha" {
		t.Errorf("journal identity mismatch: %+v", journal)
	}
	if journal.Board != fleetcore.CommitBoard(legalFleet(), "n0nce") {
		t.Error("journal board commitment mismatch")
	}
	if !journal.TokenCommitment.IsZero() {
		t.Error("join journal must carry the null token commitment")
	}
}

func TestProveJoinRejectsIllegalFleet(t *testing.T) {
	in := fleetcore.BaseInputs{GameID: "g1", Fleet: "alpha", Board: []byte{1, 2, 3}, Random: "n"}
	if _, err := ProveJoin(in); err == nil {
		t.Error("join proved over an illegal fleet layout")
	}
}

func TestProveFire(t *testing.T) {
	tok := []byte("0123456789abcdef0123456789abcdef")
	in := fleetcore.FireInputs{
		GameID: "g1", Fleet: "alpha", Board: legalFleet(), Random: "n",
		Target: "bravo", Pos: 34, TokenAuth: turnAuth(tok),
	}
	receipt, err := ProveFire(in)
	if err != nil {
		t.Fatalf("ProveFire: %v", err)
	}
	if err := VerifyReceipt(receipt, FireID); err != nil {
		t.Fatalf("VerifyReceipt: %v", err)
	}

	journal, err := receipt.DecodeFire()
	if err != nil {
		t.Fatalf("DecodeFire: %v", err)
	}
	if journal.Target != "bravo" || journal.Pos != 34 {
		t.Errorf("journal shot mismatch: %+v", journal)
	}
	if journal.TokenCommitment != fleetcore.Digest(sha256.Sum256(tok)) {
		t.Error("journal token commitment mismatch")
	}
}

func TestProveFireRejections(t *testing.T) {
	tok := []byte("0123456789abcdef0123456789abcdef")

	t.Run("sunk fleet", func(t *testing.T) {
		in := fleetcore.FireInputs{GameID: "g", Fleet: "a", Board: nil, Random: "n",
			Target: "b", Pos: 0, TokenAuth: turnAuth(tok)}
		if _, err := ProveFire(in); err == nil {
			t.Error("fire proved with an empty fleet")
		}
	})
	t.Run("missing token", func(t *testing.T) {
		in := fleetcore.FireInputs{GameID: "g", Fleet: "a", Board: legalFleet(), Random: "n",
			Target: "b", Pos: 0}
		if _, err := ProveFire(in); err == nil {
			t.Error("fire proved without token authorization")
		}
	})
	t.Run("token mismatch", func(t *testing.T) {
		auth := turnAuth(tok)
		auth.ExpectedHash[0] ^= 0x01
		in := fleetcore.FireInputs{GameID: "g", Fleet: "a", Board: legalFleet(), Random: "n",
			Target: "b", Pos: 0, TokenAuth: auth}
		if _, err := ProveFire(in); err == nil {
			t.Error("fire proved with a token that does not match the advertised hash")
		}
	})
}

func TestProveReportMiss(t *testing.T) {
	tok := []byte("0123456789abcdef0123456789abcdef")
	board := legalFleet()
	in := fleetcore.FireInputs{
		GameID: "g1", Fleet: "bravo", Board: board, Random: "n",
		Target: "Miss", Pos: 55, TokenAuth: turnAuth(tok), // 55 is water
	}
	receipt, err := ProveReport(in)
	if err != nil {
		t.Fatalf("ProveReport: %v", err)
	}
	journal, err := receipt.DecodeReport()
	if err != nil {
		t.Fatalf("DecodeReport: %v", err)
	}
	if journal.Report != "Miss" {
		t.Errorf("journal report = %q", journal.Report)
	}
	if journal.Board != journal.NextBoard {
		t.Error("a miss must leave the commitment unchanged")
	}
	if journal.Board != fleetcore.CommitBoard(board, "n") {
		t.Error("miss journal board commitment mismatch")
	}
}

func TestProveReportHit(t *testing.T) {
	tok := []byte("0123456789abcdef0123456789abcdef")
	// The prover submits the post-shot board (34 removed) and the program
	// reconstructs the pre-shot board by re-inserting and sorting.
	post := legalFleet()

	in := fleetcore.FireInputs{
		GameID: "g1", Fleet: "bravo", Board: post, Random: "n",
		Target: "Hit", Pos: 34, TokenAuth: turnAuth(tok),
	}
	receipt, err := ProveReport(in)
	if err != nil {
		t.Fatalf("ProveReport: %v", err)
	}
	journal, err := receipt.DecodeReport()
	if err != nil {
		t.Fatalf("DecodeReport: %v", err)
	}

	sortedPre := []byte{0, 1, 2, 3, 4, 20, 21, 22, 23, 34, 40, 41, 42, 60, 61, 64, 65, 80, 83}
	if journal.Board != fleetcore.CommitBoard(sortedPre, "n") {
		t.Error("hit journal pre-board commitment mismatch")
	}
	if journal.NextBoard != fleetcore.CommitBoard(post, "n") {
		t.Error("hit journal post-board commitment mismatch")
	}
	if journal.Board == journal.NextBoard {
		t.Error("a hit must advance the commitment")
	}
}

func TestProveReportRejections(t *testing.T) {
	tok := []byte("0123456789abcdef0123456789abcdef")

	t.Run("miss with pos still on board", func(t *testing.T) {
		in := fleetcore.FireInputs{GameID: "g", Fleet: "b", Board: legalFleet(), Random: "n",
			Target: "Miss", Pos: 0, TokenAuth: turnAuth(tok)}
		if _, err := ProveReport(in); err == nil {
			t.Error("miss proved for an occupied position")
		}
	})
	t.Run("hit with pos still on board", func(t *testing.T) {
		in := fleetcore.FireInputs{GameID: "g", Fleet: "b", Board: legalFleet(), Random: "n",
			Target: "Hit", Pos: 0, TokenAuth: turnAuth(tok)}
		if _, err := ProveReport(in); err == nil {
			t.Error("hit proved while the position is still on the submitted board")
		}
	})
	t.Run("unknown outcome", func(t *testing.T) {
		in := fleetcore.FireInputs{GameID: "g", Fleet: "b", Board: legalFleet(), Random: "n",
			Target: "Splash", Pos: 55, TokenAuth: turnAuth(tok)}
		if _, err := ProveReport(in); err == nil {
			t.Error("report proved with an unknown outcome value")
		}
	})
}

func TestProveWinAndContestRequireShips(t *testing.T) {
	if _, err := ProveWin(fleetcore.BaseInputs{GameID: "g", Fleet: "a", Random: "n"}); err == nil {
		t.Error("win proved with an empty fleet")
	}
	if _, err := ProveContest(fleetcore.BaseInputs{GameID: "g", Fleet: "a", Random: "n"}); err == nil {
		t.Error("contest proved with an empty fleet")
	}

	receipt, err := ProveWin(fleetcore.BaseInputs{GameID: "g", Fleet: "a", Board: []byte{7}, Random: "n"})
	if err != nil {
		t.Fatalf("ProveWin: %v", err)
	}
	journal, _ := receipt.DecodeBase()
	if !journal.TokenCommitment.IsZero() {
		t.Error("win journal must carry the null token commitment")
	}
}

func TestVerifyReceiptRejectsMismatch(t *testing.T) {
	receipt, err := ProveJoin(fleetcore.BaseInputs{GameID: "g", Fleet: "a", Board: legalFleet(), Random: "n"})
	if err != nil {
		t.Fatalf("ProveJoin: %v", err)
	}

	if err := VerifyReceipt(receipt, FireID); err == nil {
		t.Error("join receipt verified against the fire program id")
	}

	tampered := *receipt
	tampered.Journal = append([]byte(nil), receipt.Journal...)
	tampered.Journal[0] ^= 0x01
	if err := VerifyReceipt(&tampered, JoinID); err == nil {
		t.Error("receipt with a tampered journal verified")
	}

	if err := VerifyReceipt(nil, JoinID); err == nil {
		t.Error("nil receipt verified")
	}
}

func TestProgramIDFor(t *testing.T) {
	ids := map[fleetcore.Command]string{
		fleetcore.CmdJoin:    JoinID,
		fleetcore.CmdFire:    FireID,
		fleetcore.CmdReport:  ReportID,
		fleetcore.CmdWave:    WaveID,
		fleetcore.CmdWin:     WinID,
		fleetcore.CmdContest: ContestID,
	}
	for cmd, want := range ids {
		got, err := ProgramIDFor(cmd)
		if err != nil {
			t.Fatalf("ProgramIDFor(%s): %v", cmd, err)
		}
		if got != want {
			t.Errorf("ProgramIDFor(%s) = %s, want %s", cmd, got, want)
		}
	}
	if _, err := ProgramIDFor(fleetcore.Command("Nuke")); err == nil {
		t.Error("unknown command resolved to a program id")
	}
}
