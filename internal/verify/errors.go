package verify

import "errors"

// Sentinel reasons for the five ordered checks in spec.md §4.C, following
// the teacher's errors.Is-based dispatch in determineFinalValidationResult
// (resolver/dnssec/validator.go) rather than distinct error types.
var (
	ErrBadSigner            = errors.New("rrsig signer name invalid")
	ErrNotYetValid          = errors.New("rrsig not yet valid")
	ErrExpired              = errors.New("rrsig expired")
	ErrBadLabels            = errors.New("rrsig labels field invalid")
	ErrUnsupportedAlgorithm = errors.New("unsupported dnssec algorithm")
	ErrKeyMismatch          = errors.New("rrsig/dnskey mismatch")
	ErrSignatureInvalid     = errors.New("signature verification failed")
	ErrNoSignatures         = errors.New("no rrsig available")
)
