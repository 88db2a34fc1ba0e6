package store

import (
	"b2redis/models"
	"gopkg.in/redis.v5"
)

// Txn is the view of the store handed to a WithTransaction callback. Reads
// run immediately against watched keys; writes are queued and applied in one
// MULTI/EXEC when the callback returns without error. Writes must never go
// through the tx connection directly, or they would apply before the commit.
type Txn struct {
	store  *RedisAccountInfo
	tx     *redis.Tx
	queued []func(pipe *redis.Pipeline)
}

// GetAccountInfo reads the credential record inside the transaction.
func (t *Txn) GetAccountInfo() (*models.AccountInfo, error) {
	raw, err := t.tx.MGet(t.store.fieldKeys()...).Result()
	if err != nil {
		return nil, wrap(err)
	}
	return decodeAccountInfo(raw)
}

// GetBucketID reads one cached mapping inside the transaction.
func (t *Txn) GetBucketID(name string) (string, error) {
	id, err := t.tx.HGet(t.store.key(bucketMapKey), name).Result()
	if err == redis.Nil {
		return "", models.NewErrNoSuchBucket(name)
	}
	if err != nil {
		return "", wrap(err)
	}
	return id, nil
}

// SetAccountInfo queues a whole-record replace.
func (t *Txn) SetAccountInfo(info *models.AccountInfo) error {
	pairs, err := t.store.encodeAccountInfo(info)
	if err != nil {
		return err
	}
	t.queued = append(t.queued, func(pipe *redis.Pipeline) {
		pipe.MSet(pairs...)
	})
	return nil
}

// SaveBucket queues one mapping upsert.
func (t *Txn) SaveBucket(name, id string) {
	t.queued = append(t.queued, func(pipe *redis.Pipeline) {
		pipe.HSet(t.store.key(bucketMapKey), name, id)
	})
}

// RemoveBucket queues removal of one mapping.
func (t *Txn) RemoveBucket(name string) {
	t.queued = append(t.queued, func(pipe *redis.Pipeline) {
		pipe.HDel(t.store.key(bucketMapKey), name)
	})
}

// RefreshBucketCache queues a full replace of the bucket map.
func (t *Txn) RefreshBucketCache(mappings map[string]string) {
	t.queued = append(t.queued, func(pipe *redis.Pipeline) {
		pipe.Del(t.store.key(bucketMapKey))
		if len(mappings) > 0 {
			pipe.HMSet(t.store.key(bucketMapKey), mappings)
		}
	})
}

// InvalidateAll queues removal of every mapping.
func (t *Txn) InvalidateAll() {
	t.queued = append(t.queued, func(pipe *redis.Pipeline) {
		pipe.Del(t.store.key(bucketMapKey))
	})
}

// Clear queues removal of every key the store owns.
func (t *Txn) Clear() {
	t.queued = append(t.queued, func(pipe *redis.Pipeline) {
		pipe.Del(t.store.allKeys()...)
	})
}

// WithTransaction runs fn with every key the store owns under WATCH and
// commits its queued writes in one MULTI/EXEC: they apply as a unit or not
// at all. If a concurrent writer touches any owned key before the commit,
// the unit is discarded and ErrTxConflict is returned so the caller may
// retry. If fn itself fails, nothing was sent and both stores are unchanged.
func (s *RedisAccountInfo) WithTransaction(fn func(*Txn) error) error {
	var fnErr error
	err := s.client.Watch(func(tx *redis.Tx) error {
		txn := &Txn{store: s, tx: tx}
		if err := fn(txn); err != nil {
			fnErr = err
			return err
		}
		_, err := tx.Pipelined(func(pipe *redis.Pipeline) error {
			for _, apply := range txn.queued {
				apply(pipe)
			}
			return nil
		})
		return err
	}, s.allKeys()...)
	switch {
	case err == nil:
		return nil
	case err == redis.TxFailedErr:
		return models.NewErrTxConflict()
	case err == fnErr:
		return err
	default:
		return wrap(err)
	}
}

// Reauthorize installs a fresh credential record and replaces the bucket map
// with the given mappings in a single atomic unit, so stale mappings never
// outlive the token that produced them. Pass nil mappings to just clear.
func (s *RedisAccountInfo) Reauthorize(info *models.AccountInfo, mappings map[string]string) error {
	return s.WithTransaction(func(t *Txn) error {
		if err := t.SetAccountInfo(info); err != nil {
			return err
		}
		t.RefreshBucketCache(mappings)
		return nil
	})
}
