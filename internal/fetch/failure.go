package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// FailureKind classifies why a fetch produced no rows.
type FailureKind string

const (
	// KindUnavailable covers connection refusal, DNS, and timeouts.
	KindUnavailable FailureKind = "unavailable"
	// KindQuery covers SQL errors reported by the server.
	KindQuery FailureKind = "query"
	// KindScan covers rows that could not be decoded.
	KindScan FailureKind = "scan"
)

// Failure is the structured reason a fetch returned an empty result.
type Failure struct {
	Kind  FailureKind
	Query string
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", f.Query, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Message is a short, user-facing description of the failure.
func (f *Failure) Message() string {
	switch f.Kind {
	case KindUnavailable:
		return "The database could not be reached. Results may be incomplete."
	case KindScan:
		return "The database returned data in an unexpected shape."
	default:
		return "The database rejected the query."
	}
}

// classify returns the failure kind for an error raised while executing or
// iterating a query. Connection errors are classified by the caller.
func classify(err error) FailureKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return KindQuery
	}
	if isUnavailable(err) {
		return KindUnavailable
	}
	return KindQuery
}

// isUnavailable reports whether err looks like a network or timeout problem
// rather than a problem with the statement.
func isUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"no such host",
		"i/o timeout",
		"conn closed",
		"unexpected eof",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
