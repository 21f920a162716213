package pagination

import (
	"context"
	"errors"
	"fmt"
)

// Operation and Code identify a crashed paginated fetch in every FetchError.
const (
	Operation = "FetchTransactions"
	CrashCode = "CRASH"
)

// Common causes wrapped by FetchError.
var (
	// ErrInvalidRequest is returned when a PageRequest fails validation.
	ErrInvalidRequest = errors.New("invalid page request")

	// ErrUnexpectedResponse is returned for a non-200 status or a missing body.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrEmptyPage is returned when the bank announces more pages but sends no transactions.
	ErrEmptyPage = errors.New("empty list of transactions on a page announcing more")

	// ErrMalformedTransactions is returned when the transaction list cannot be decoded.
	ErrMalformedTransactions = errors.New("malformed transaction list")

	// ErrPageLimitExceeded is returned when a fetch needs more pages than Config.MaxPages.
	ErrPageLimitExceeded = errors.New("page limit exceeded")
)

// ErrorKind classifies why a fetch failed.
type ErrorKind string

const (
	// KindTransport is a failure of the transport itself (network, decoding).
	KindTransport ErrorKind = "transport"

	// KindUnexpectedResponse is a response that is not 200 with a body.
	KindUnexpectedResponse ErrorKind = "unexpected_response"

	// KindEmptyPageAnomaly is a page with hasMore=true and no transactions.
	KindEmptyPageAnomaly ErrorKind = "empty_page_anomaly"

	// KindMalformedTransactionList is a transaction list that failed shape validation.
	// FetchTransactions handles it softly by truncating; FetchPage returns it.
	KindMalformedTransactionList ErrorKind = "malformed_transaction_list"

	// KindInvalidRequest is a PageRequest rejected before sending.
	KindInvalidRequest ErrorKind = "invalid_request"

	// KindCanceled is a fetch aborted by its context.
	KindCanceled ErrorKind = "canceled"

	// KindPageLimitExceeded is a fetch stopped by Config.MaxPages.
	KindPageLimitExceeded ErrorKind = "page_limit_exceeded"
)

// FetchError is the single error type returned by the paginator.
type FetchError struct {
	Op   string
	Code string
	Kind ErrorKind
	// Page is the page being processed when the error occurred
	Page int
	Err  error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %s on page %d: %v", e.Op, e.Code, e.Kind, e.Page, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Soft reports whether the error truncates a fetch instead of failing it.
func (e *FetchError) Soft() bool {
	return e.Kind == KindMalformedTransactionList
}

func newFetchError(kind ErrorKind, page int, err error) *FetchError {
	return &FetchError{
		Op:   Operation,
		Code: CrashCode,
		Kind: kind,
		Page: page,
		Err:  err,
	}
}

// wrapTransportError classifies an error returned by Transport.Send.
func wrapTransportError(ctx context.Context, page int, err error) *FetchError {
	if ctx.Err() != nil {
		return newFetchError(KindCanceled, page, err)
	}
	return newFetchError(KindTransport, page, err)
}

// KindOf returns the kind of a FetchError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}
	return ""
}
