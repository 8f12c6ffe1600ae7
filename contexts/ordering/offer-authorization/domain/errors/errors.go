package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrForbidden          = errors.New("caller is not the transaction owner")
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrAlreadyInUse       = errors.New("resource already in use")
	ErrServiceUnavailable = errors.New("provider unavailable")
)

func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Argumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func AlreadyInUsef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAlreadyInUse, fmt.Sprintf(format, args...))
}

func Unavailablef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrServiceUnavailable, fmt.Sprintf(format, args...))
}

// alreadyReservedSentinels are the known provider messages that mean the
// physical resource is taken, as opposed to a generic request failure.
var alreadyReservedSentinels = []string{
	"already reserved",
	"already held",
	"seat taken",
}

// FromProviderStatus reclassifies a provider HTTP status into the domain
// taxonomy. Every provider adapter must apply the same split: statuses below
// the server-error threshold are client-side errors, at or above it the call
// is retryable later.
func FromProviderStatus(status int, message string) error {
	lower := strings.ToLower(message)
	for _, sentinel := range alreadyReservedSentinels {
		if strings.Contains(lower, sentinel) {
			return AlreadyInUsef("%s", message)
		}
	}
	switch {
	case status == http.StatusNotFound:
		return NotFoundf("%s", message)
	case status < http.StatusInternalServerError:
		return Argumentf("%s", message)
	default:
		return Unavailablef("provider returned %d: %s", status, message)
	}
}

// FromVerifierCode classifies a redemption verifier failure code: sub-500
// codes mean the credential is invalid or unavailable, everything else is a
// verifier outage.
func FromVerifierCode(code int, message string) error {
	if code < http.StatusInternalServerError {
		return NotFoundf("redemption credential rejected (%d): %s", code, message)
	}
	return Unavailablef("redemption verifier returned %d: %s", code, message)
}
