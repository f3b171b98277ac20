package chain

import "errors"

// Rejection kinds. Every chain-side rejection wraps one of these sentinels;
// the transport edge turns the chain of wrapped context into the diagnostic
// sentence returned as the HTTP body.
var (
	ErrInvalidProof          = errors.New("could not verify receipt")
	ErrInvalidSignature      = errors.New("invalid signature")
	ErrSignerMismatch        = errors.New("public key does not match registered player")
	ErrGameNotFound          = errors.New("game not found")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrTargetNotFound        = errors.New("target not found")
	ErrDuplicatePlayer       = errors.New("player already registered with a different key")
	ErrNotYourTurn           = errors.New("invalid token: not your turn")
	ErrStaleCommitment       = errors.New("fleet commitment does not match recorded state")
	ErrPendingShotUnreported = errors.New("the last shot must be reported first")
	ErrActiveWinClaim        = errors.New("a victory claim is already pending")
	ErrNoWinClaim            = errors.New("no active victory claim to contest")
	ErrSelfContest           = errors.New("you cannot contest your own victory")
	ErrMalformedInput        = errors.New("malformed input")
)
