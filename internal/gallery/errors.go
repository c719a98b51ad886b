package gallery

import "errors"

var (
	// ErrObjectTooLarge signals that a single upload exceeds the per-object limit.
	ErrObjectTooLarge = errors.New("object too large")
	// ErrQuotaExceeded signals that the upload would push the account over its quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrObjectNotFound signals that the object no longer exists in the store.
	ErrObjectNotFound = errors.New("object not found")
	// ErrUnauthorized signals that the caller may not operate on the object.
	ErrUnauthorized = errors.New("not authorized for object")
)
