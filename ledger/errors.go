package ledger

import "errors"

// Business outcomes mirrored from the ledger's own validation.
// They are surfaced verbatim to callers and never retried.
var (
	// ErrUnauthorized means the caller lacks the required role.
	ErrUnauthorized = errors.New("caller lacks required role")

	// ErrNotWhitelisted means a sender or recipient is not on the whitelist.
	ErrNotWhitelisted = errors.New("account is not whitelisted")

	// ErrPaused means the operation is blocked by the compliance switch.
	ErrPaused = errors.New("ledger is paused")

	// ErrInsufficientBalance means the holder does not cover the amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount means the amount is not a positive integer.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrAlreadyInState means a duplicate pause/unpause toggle.
	ErrAlreadyInState = errors.New("ledger already in requested state")
)
