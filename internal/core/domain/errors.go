package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

var (
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	ErrPlanetNotFound  = fmt.Errorf("planet %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
)

// Trade validation failures.
var (
	ErrInsufficientCredits   = errors.New("insufficient credits")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidAmount         = errors.New("amount must be a positive integer")
	ErrUnknownResource       = errors.New("unknown resource kind")
	ErrUnknownTradeKind      = errors.New("trade kind must be buy or sell")
	ErrMissingPrice          = errors.New("missing unit price")
	ErrNegativeQuantity      = errors.New("quantity must not be negative")
	ErrDuplicateTrade        = errors.New("duplicate trade submission")
)

// Storage and concurrency failures.
var (
	// ErrStoreUnavailable wraps any failure of the backing store itself. The
	// write it belongs to may or may not have been applied.
	ErrStoreUnavailable = errors.New("ledger store unavailable")
	// ErrVersionConflict is returned by conditional writes whose expected
	// version no longer matches the stored record. Nothing was written.
	ErrVersionConflict = errors.New("record version conflict")
	// ErrTradeConflict means the engine gave up after repeated version conflicts.
	ErrTradeConflict = errors.New("trade aborted after repeated concurrent updates")
	// ErrPartialTrade means the account was debited but the planet write failed
	// with an unknown outcome. It requires manual reconciliation.
	ErrPartialTrade = errors.New("trade partially applied")
	// ErrTradeNotStarted means a trade was rejected before any write was
	// attempted, for example because the service is shutting down.
	ErrTradeNotStarted = errors.New("trade not started")
)

// Identity failures.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
	ErrTokenRevoked       = errors.New("token revoked")
)

// ShortfallError reports a failed funds/stock/holdings check together with the
// largest amount that would have passed it.
type ShortfallError struct {
	Reason    error // one of the ErrInsufficient* sentinels
	Resource  ResourceKind
	Requested int64 // units asked for
	Required  int64 // credits or units the request needed
	Available int64 // credits or units actually available
	MaxAmount int64 // largest number of units that would have succeeded
}

func (e *ShortfallError) Error() string {
	switch e.Reason {
	case ErrInsufficientCredits:
		return fmt.Sprintf("%s: %d %s costs %d credits but only %d are available (max %d)",
			e.Reason, e.Requested, e.Resource, e.Required, e.Available, e.MaxAmount)
	default:
		return fmt.Sprintf("%s: requested %d %s but only %d are available (max %d)",
			e.Reason, e.Requested, e.Resource, e.Available, e.MaxAmount)
	}
}

func (e *ShortfallError) Unwrap() error { return e.Reason }
