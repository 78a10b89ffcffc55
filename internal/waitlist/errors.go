package waitlist

import "errors"

var (
	// ErrNetworkFailure wraps failures to reach the service or decode its reply.
	ErrNetworkFailure = errors.New("network failure")

	// ErrVerificationRejected is returned when the service or a local
	// verification flag refuses the submission.
	ErrVerificationRejected = errors.New("verification rejected")

	// ErrSubmissionInFlight is returned by Join while another submission is
	// still running on the same flow.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)
