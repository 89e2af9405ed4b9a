package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCandidateSet is returned when search candidates mix pairs, repeat ids or include settled transactions.
	ErrInvalidCandidateSet = errors.New("invalid candidate set")
	// ErrUnknownTransaction is returned when a settlement references an id absent from the pool.
	ErrUnknownTransaction = errors.New("unknown transaction")
	// ErrIndexOutOfRange is returned when a selection references a combination that does not exist.
	ErrIndexOutOfRange = errors.New("combination index out of range")
	// ErrInvalidQuery is returned for a negative target or tolerance.
	ErrInvalidQuery = errors.New("invalid search query")
	// ErrCandidateLimitExceeded is returned when an exhaustive search is asked to enumerate too large a pool.
	ErrCandidateLimitExceeded = errors.New("too many candidates for exhaustive search")
	// ErrDuplicateTransaction is returned when a pool is built from rows that repeat an id.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	// ErrInvalidAmount is returned when a pool is built from a row with a negative amount.
	ErrInvalidAmount = errors.New("invalid transaction amount")
	// ErrNoPool is returned by use case operations invoked before any transactions were loaded.
	ErrNoPool = errors.New("no transactions loaded")
)

// UnknownTransactionError lists the ids a settlement referenced that the pool does not hold.
type UnknownTransactionError struct {
	IDs []string
}

func (e *UnknownTransactionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownTransaction, strings.Join(e.IDs, ", "))
}

func (e *UnknownTransactionError) Unwrap() error {
	return ErrUnknownTransaction
}

// IndexOutOfRangeError reports the offending selection indices.
type IndexOutOfRangeError struct {
	Indices []int
	Len     int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %v not in [0, %d)", ErrIndexOutOfRange, e.Indices, e.Len)
}

func (e *IndexOutOfRangeError) Unwrap() error {
	return ErrIndexOutOfRange
}
