package activity

import (
	"encoding/json"

	"b2redis/models"
	"gopkg.in/redis.v5"
)

var _ Recorder = new(RedisRecorder)

// RedisRecorder keeps the newest MaxEntries operations per subject in a
// Redis list, trimmed on every write.
type RedisRecorder struct {
	client     *redis.Client
	prefix     string
	maxEntries int
}

// NewRedisRecorder creates a recorder that keeps at most maxEntries
// operations per subject under prefix.
func NewRedisRecorder(client *redis.Client, prefix string, maxEntries int) *RedisRecorder {
	return &RedisRecorder{client: client, prefix: prefix, maxEntries: maxEntries}
}

func (r *RedisRecorder) key(subject string) string {
	return r.prefix + "activity:" + subject
}

func (r *RedisRecorder) Record(subject string, op models.Operation) error {
	entry, err := json.Marshal(op)
	if err != nil {
		return err
	}

	pushCmd := r.client.LPush(r.key(subject), entry)
	if pushCmd.Err() != nil {
		return models.NewErrStoreUnavailable(pushCmd.Err())
	}

	trimCmd := r.client.LTrim(r.key(subject), 0, int64(r.maxEntries-1))
	if trimCmd.Err() != nil {
		return models.NewErrStoreUnavailable(trimCmd.Err())
	}

	return nil
}

func (r *RedisRecorder) Recent(subject string) ([]models.Operation, error) {
	entries, err := r.client.LRange(r.key(subject), 0, int64(r.maxEntries-1)).Result()
	if err != nil {
		return nil, models.NewErrStoreUnavailable(err)
	}

	ops := make([]models.Operation, 0, len(entries))
	for _, entry := range entries {
		var op models.Operation
		if err := json.Unmarshal([]byte(entry), &op); err != nil {
			return nil, models.NewErrMalformedRecord("activity", err.Error())
		}
		ops = append(ops, op)
	}
	return ops, nil
}
