package models

import "fmt"

var (
	_ error = new(ErrNoAccountInfo)
	_ error = new(ErrNoSuchBucket)
	_ error = new(ErrMalformedRecord)
	_ error = new(ErrTxConflict)
	_ error = new(ErrStoreUnavailable)
)

// ErrNoAccountInfo is returned when no credential record is stored.
type ErrNoAccountInfo struct{}

func (err *ErrNoAccountInfo) Error() string {
	return "no account info stored"
}

// NewErrNoAccountInfo creates a new ErrNoAccountInfo error.
func NewErrNoAccountInfo() *ErrNoAccountInfo {
	return &ErrNoAccountInfo{}
}

// IsErrNoAccountInfo checks whether a given error is ErrNoAccountInfo.
func IsErrNoAccountInfo(err error) bool {
	_, ok := err.(*ErrNoAccountInfo)
	return ok
}

// ErrNoSuchBucket is returned when a bucket name has no cached ID.
type ErrNoSuchBucket struct {
	Name string
}

func (err *ErrNoSuchBucket) Error() string {
	return fmt.Sprintf("no such bucket: %q", err.Name)
}

// NewErrNoSuchBucket creates a new ErrNoSuchBucket error.
func NewErrNoSuchBucket(name string) *ErrNoSuchBucket {
	return &ErrNoSuchBucket{Name: name}
}

// IsErrNoSuchBucket checks whether a given error is ErrNoSuchBucket.
func IsErrNoSuchBucket(err error) bool {
	_, ok := err.(*ErrNoSuchBucket)
	return ok
}

// ErrMalformedRecord is returned when a stored value cannot be decoded into
// the expected shape. The stored data is never coerced or repaired.
type ErrMalformedRecord struct {
	Field  string
	Reason string
}

func (err *ErrMalformedRecord) Error() string {
	return fmt.Sprintf("malformed record field %q: %s", err.Field, err.Reason)
}

// NewErrMalformedRecord creates a new ErrMalformedRecord error.
func NewErrMalformedRecord(field, reason string) *ErrMalformedRecord {
	return &ErrMalformedRecord{Field: field, Reason: reason}
}

// IsErrMalformedRecord checks whether a given error is ErrMalformedRecord.
func IsErrMalformedRecord(err error) bool {
	_, ok := err.(*ErrMalformedRecord)
	return ok
}

// ErrTxConflict is returned when a transactional write lost a race against
// a concurrent writer. The whole operation was discarded and may be retried.
type ErrTxConflict struct{}

func (err *ErrTxConflict) Error() string {
	return "transaction aborted: concurrent write to a watched key"
}

// NewErrTxConflict creates a new ErrTxConflict error.
func NewErrTxConflict() *ErrTxConflict {
	return &ErrTxConflict{}
}

// IsErrTxConflict checks whether a given error is ErrTxConflict.
func IsErrTxConflict(err error) bool {
	_, ok := err.(*ErrTxConflict)
	return ok
}

// ErrStoreUnavailable wraps a failure to talk to the backing store. The
// cause is preserved and no retry is attempted here.
type ErrStoreUnavailable struct {
	Cause error
}

func (err *ErrStoreUnavailable) Error() string {
	return fmt.Sprintf("backing store unavailable: %v", err.Cause)
}

func (err *ErrStoreUnavailable) Unwrap() error {
	return err.Cause
}

// NewErrStoreUnavailable creates a new ErrStoreUnavailable error.
func NewErrStoreUnavailable(cause error) *ErrStoreUnavailable {
	return &ErrStoreUnavailable{Cause: cause}
}

// IsErrStoreUnavailable checks whether a given error is ErrStoreUnavailable.
func IsErrStoreUnavailable(err error) bool {
	_, ok := err.(*ErrStoreUnavailable)
	return ok
}
