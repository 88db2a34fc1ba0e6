package store

import "b2redis/models"

// AccountStore is the account-info capability an SDK consumes: one credential
// record per store, replaced wholesale on every re-authorization.
type AccountStore interface {
	// SetAccountInfo replaces the entire credential record in one atomic
	// write. Concurrent readers see either the old record or the new one,
	// never a mixture.
	SetAccountInfo(info *models.AccountInfo) error

	// GetAccountInfo returns the last fully-committed record.
	//
	// If no record is stored, it returns an error of ErrNoAccountInfo.
	// If the stored data cannot be decoded, it returns ErrMalformedRecord.
	GetAccountInfo() (*models.AccountInfo, error)

	// Clear atomically removes every key the store owns, credential record
	// and bucket map alike.
	Clear() error
}
