package inventory

import (
	"errors"
	"fmt"
)

// ErrValidation is the base error for rejected input.
// All validation sentinels below wrap it, so callers can match the whole
// class with errors.Is(err, ErrValidation) or an individual sentinel.
var ErrValidation = errors.New("validation failed")

var (
	ErrBlankTitle       = fmt.Errorf("%w: title must not be blank", ErrValidation)
	ErrBlankAuthor      = fmt.Errorf("%w: author must not be blank", ErrValidation)
	ErrBlankCategory    = fmt.Errorf("%w: category must not be blank", ErrValidation)
	ErrBlankBorrower    = fmt.Errorf("%w: borrower must not be blank", ErrValidation)
	ErrBlankHandledBy   = fmt.Errorf("%w: handled-by must not be blank", ErrValidation)
	ErrNonPositiveTotal = fmt.Errorf("%w: total quantity must be positive", ErrValidation)
	ErrNonPositiveDays  = fmt.Errorf("%w: loan days must be positive", ErrValidation)
)

// ErrStateConflict is the base error for legitimate business-rule
// violations. These are surfaced for user-facing messaging and must never
// be retried automatically.
var ErrStateConflict = errors.New("state conflict")

var (
	ErrDuplicateLoan    = fmt.Errorf("%w: borrower already has an active loan on this title", ErrStateConflict)
	ErrNoStock          = fmt.Errorf("%w: no healthy copies available to lend", ErrStateConflict)
	ErrNoActiveLoan     = fmt.Errorf("%w: no active loans on this title", ErrStateConflict)
	ErrAmbiguousReturn  = fmt.Errorf("%w: multiple active loans, borrower must be specified", ErrStateConflict)
	ErrBorrowerNotFound = fmt.Errorf("%w: no active loan for this borrower", ErrStateConflict)
)
