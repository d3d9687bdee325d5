package roku

import "errors"

// Failure modes surfaced by the client. Transport-level failures are
// wrapped ad hoc with the failing status and body instead.
var (
	// ErrAmbiguousActiveApp is returned when the active-app query reports
	// more than one entry. The protocol guarantees at most one active app,
	// so multiplicity is a device inconsistency the caller must handle.
	ErrAmbiguousActiveApp = errors.New("device reported more than one active app")

	// ErrMalformedInfoResponse is returned when the device-info query
	// yields a document with no fields.
	ErrMalformedInfoResponse = errors.New("device info response has no fields")

	// ErrInvalidInput is returned before any network call when an input
	// is neither a named key nor a single character.
	ErrInvalidInput = errors.New("input cannot be encoded as a key token")

	// ErrIconFetch is returned when an icon download fails or the response
	// carries an unrecognized content type.
	ErrIconFetch = errors.New("icon fetch failed")

	// ErrChainAlreadySent is returned when a command chain is appended to
	// or sent after its drain has begun.
	ErrChainAlreadySent = errors.New("command chain already sent")
)
