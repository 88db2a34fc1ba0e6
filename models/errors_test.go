package models_test

import (
	"errors"
	"testing"

	"b2redis/models"
	"github.com/stretchr/testify/assert"
)

func TestErrorHelpersMatchOnlyTheirType(t *testing.T) {
	assert.True(t, models.IsErrNoAccountInfo(models.NewErrNoAccountInfo()))
	assert.True(t, models.IsErrNoSuchBucket(models.NewErrNoSuchBucket("bucket-a")))
	assert.True(t, models.IsErrMalformedRecord(models.NewErrMalformedRecord("allowed", "bad json")))
	assert.True(t, models.IsErrTxConflict(models.NewErrTxConflict()))
	assert.True(t, models.IsErrStoreUnavailable(models.NewErrStoreUnavailable(errors.New("refused"))))

	plain := errors.New("plain")
	assert.False(t, models.IsErrNoAccountInfo(plain))
	assert.False(t, models.IsErrNoSuchBucket(plain))
	assert.False(t, models.IsErrTxConflict(models.NewErrNoAccountInfo()))
}

func TestErrStoreUnavailablePreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := models.NewErrStoreUnavailable(cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRedactedMasksSecrets(t *testing.T) {
	info := &models.AccountInfo{
		AccountID:      "acct-1",
		ApplicationKey: "K001secretsecret",
		AuthToken:      "abc",
	}

	redacted := info.Redacted()
	assert.Equal(t, "K001****", redacted.ApplicationKey)
	assert.Equal(t, "****", redacted.AuthToken)
	// the source record is untouched
	assert.Equal(t, "K001secretsecret", info.ApplicationKey)
}
