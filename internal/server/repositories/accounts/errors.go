package accounts

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// storeError wraps err as a *common.StoreError for op. Context expiry,
// broken connections and network timeouts are marked retryable; extra
// driver-specific checks may be passed in.
func storeError(op string, err error, retryable ...func(error) bool) error {
	var se *common.StoreError
	if errors.As(err, &se) {
		return err
	}
	return &common.StoreError{Op: op, Err: err, Retryable: isRetryable(err, retryable...)}
}

func isRetryable(err error, extra ...func(error) bool) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	for _, f := range extra {
		if f(err) {
			return true
		}
	}
	return false
}
