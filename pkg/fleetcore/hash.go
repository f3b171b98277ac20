package fleetcore

import "crypto/sha256"

// CommitBoard computes the board commitment SHA-256(nonce || board). The
// concatenation order is normative: nonce bytes first, then the flat board.
func CommitBoard(board []byte, nonce string) Digest {
	h := sha256.New()
	h.Write([]byte(nonce))
	h.Write(board)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
