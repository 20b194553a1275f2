package domain

import "fmt"

// The error taxonomy mirrors the failure classes every instruction can
// surface. Each type matches its zero value as a category sentinel via Is,
// and non-empty reasons match exactly, so errors.Is works both ways:
//
//	errors.Is(err, domain.ErrState)         // any lifecycle violation
//	errors.Is(err, domain.ErrAlreadyClaimed) // this one specifically

// NotFoundError represents a missing account or record.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Is(target error) bool {
	t, ok := asType[NotFoundError](target)
	return ok && (t.Resource == "" || t.Resource == e.Resource)
}

// AlreadyExistsError represents an attempt to re-initialize a derived
// account.
type AlreadyExistsError struct {
	Resource string
}

func (e AlreadyExistsError) Error() string {
	if e.Resource == "" {
		return "already exists"
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

func (e AlreadyExistsError) Is(target error) bool {
	t, ok := asType[AlreadyExistsError](target)
	return ok && (t.Resource == "" || t.Resource == e.Resource)
}

// AuthorizationError represents a wrong signer or an unverified identity.
type AuthorizationError struct {
	Reason string
}

func (e AuthorizationError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

func (e AuthorizationError) Is(target error) bool {
	t, ok := asType[AuthorizationError](target)
	return ok && (t.Reason == "" || t.Reason == e.Reason)
}

// SignatureError represents a malformed or mismatched attestation.
type SignatureError struct {
	Reason string
}

func (e SignatureError) Error() string {
	if e.Reason == "" {
		return "signature verification failed"
	}
	return fmt.Sprintf("signature verification failed: %s", e.Reason)
}

func (e SignatureError) Is(target error) bool {
	t, ok := asType[SignatureError](target)
	return ok && (t.Reason == "" || t.Reason == e.Reason)
}

// StateError represents an instruction applied in the wrong lifecycle state.
type StateError struct {
	Reason string
}

func (e StateError) Error() string {
	if e.Reason == "" {
		return "invalid state"
	}
	return e.Reason
}

func (e StateError) Is(target error) bool {
	t, ok := asType[StateError](target)
	return ok && (t.Reason == "" || t.Reason == e.Reason)
}

// ArithmeticError represents overflow, underflow, or insufficient balance.
type ArithmeticError struct {
	Reason string
}

func (e ArithmeticError) Error() string {
	if e.Reason == "" {
		return "arithmetic error"
	}
	return e.Reason
}

func (e ArithmeticError) Is(target error) bool {
	t, ok := asType[ArithmeticError](target)
	return ok && (t.Reason == "" || t.Reason == e.Reason)
}

// SlippageError represents a swap whose output fell below the caller's floor
// or a pool that cannot satisfy the trade.
type SlippageError struct {
	Reason string
}

func (e SlippageError) Error() string {
	if e.Reason == "" {
		return "slippage error"
	}
	return e.Reason
}

func (e SlippageError) Is(target error) bool {
	t, ok := asType[SlippageError](target)
	return ok && (t.Reason == "" || t.Reason == e.Reason)
}

// InvariantError represents corruption that should be unreachable if every
// instruction path is correct. Treated as fatal by callers.
type InvariantError struct {
	Reason string
}

func (e InvariantError) Error() string {
	if e.Reason == "" {
		return "invariant violation"
	}
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}

func (e InvariantError) Is(target error) bool {
	t, ok := asType[InvariantError](target)
	return ok && (t.Reason == "" || t.Reason == e.Reason)
}

func asType[T error](target error) (T, bool) {
	t, ok := target.(T)
	return t, ok
}

// Category sentinels.
var (
	ErrNotFound      = NotFoundError{}
	ErrAlreadyExists = AlreadyExistsError{}
	ErrUnauthorized  = AuthorizationError{}
	ErrSignature     = SignatureError{}
	ErrState         = StateError{}
	ErrArithmetic    = ArithmeticError{}
	ErrSlippage      = SlippageError{}
	ErrInvariant     = InvariantError{}
)

// Instruction-specific failures.
var (
	ErrNothingToRelease          = StateError{Reason: "nothing to release"}
	ErrInsufficientVestedBalance = InvariantError{Reason: "vesting pool cannot cover release"}
	ErrZeroAmount                = ArithmeticError{Reason: "amount must be positive"}
	ErrInsufficientFunds         = ArithmeticError{Reason: "insufficient funds"}
	ErrBalanceOverflow           = ArithmeticError{Reason: "balance overflow"}
	ErrNoStakeFound              = NotFoundError{Resource: "stake"}
	ErrIssueClosed               = StateError{Reason: "issue is closed"}
	ErrAlreadyAccepted           = StateError{Reason: "pull request already accepted"}
	ErrNotAccepted               = StateError{Reason: "pull request not accepted"}
	ErrAlreadyClaimed            = StateError{Reason: "reward already claimed"}
	ErrNotPullRequestCreator     = AuthorizationError{Reason: "only the pull request creator can claim"}
	ErrNotRepositoryCreator      = AuthorizationError{Reason: "only the repository creator may do this"}
	ErrNotVerified               = AuthorizationError{Reason: "identity is not verified under this router"}
	ErrSlippageExceeded          = SlippageError{Reason: "output below slippage floor"}
	ErrInsufficientLiquidity     = SlippageError{Reason: "insufficient liquidity"}
	ErrInsufficientGrantBalance  = ArithmeticError{Reason: "insufficient grant balance"}
	ErrObjectiveTooDeep          = StateError{Reason: "objective tree depth limit exceeded"}
	ErrMalformedSchedule         = StateError{Reason: "malformed vesting schedule"}
	ErrScheduleExceedsAllocation = StateError{Reason: "schedule total exceeds allocated supply"}
)
