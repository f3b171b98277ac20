package fleetcore

import (
	"crypto/sha256"
	"testing"
)

func TestCommitBoard(t *testing.T) {
	board := []byte{0, 1, 2}
	nonce := "secret-nonce"

	got := CommitBoard(board, nonce)

	h := sha256.New()
	h.Write([]byte(nonce))
	h.Write(board)
	var want Digest
	copy(want[:], h.Sum(nil))

	if got != want {
		t.Errorf("CommitBoard() = %s, want %s", got, want)
	}
}

// The concatenation order nonce || board is normative; the reverse must
// yield a different commitment.
func TestCommitBoardOrderSensitive(t *testing.T) {
	// Chosen so that the byte concatenations actually differ when swapped.
	board := []byte{'a', 'b'}
	nonce := "zz"

	forward := CommitBoard(board, nonce)

	h := sha256.New()
	h.Write(board)
	h.Write([]byte(nonce))
	var reversed Digest
	copy(reversed[:], h.Sum(nil))

	if forward == reversed {
		t.Error("commitment is insensitive to concatenation order")
	}
}

func TestCommitBoardDistinguishesBoards(t *testing.T) {
	a := CommitBoard([]byte{1, 2, 3}, "n")
	b := CommitBoard([]byte{1, 2, 4}, "n")
	c := CommitBoard([]byte{1, 2, 3}, "m")
	if a == b {
		t.Error("different boards produced the same commitment")
	}
	if a == c {
		t.Error("different nonces produced the same commitment")
	}
}
