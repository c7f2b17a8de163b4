package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, no infrastructure dependency.

var (
	// Profile errors
	ErrNoProfile     = errors.New("no profile exists (run init first)")
	ErrProfileExists = errors.New("profile already exists")

	// Claim errors. ErrInvalidClaim is the base every claim rejection wraps,
	// so callers can match the whole family with errors.Is.
	ErrInvalidClaim        = errors.New("invalid quest claim")
	ErrQuestNotFound       = errors.New("quest not found")
	ErrQuestAlreadyClaimed = errors.New("quest reward already claimed")
	ErrQuestIncomplete     = errors.New("quest target not reached")

	// Gems errors
	ErrInsufficientGems = errors.New("insufficient gems")

	// Content generation errors
	ErrContentService     = errors.New("content generation failed")
	ErrContentUnparseable = errors.New("content generation returned unparseable output")

	// Feed errors
	ErrPostNotFound = errors.New("post not found")
)
