package store

import (
	"encoding/json"
	"strconv"

	"b2redis/models"
	"gopkg.in/redis.v5"
)

// Redis key names owned by a store, each prepended with the instance's key
// prefix. They mirror the fields of b2_authorize_account plus one hash for
// the bucket name map.
const (
	accountIDKey        = "account-id"
	applicationKeyIDKey = "application-key-id"
	applicationKeyKey   = "application-key"
	authTokenKey        = "auth-token"
	apiURLKey           = "api-url"
	downloadURLKey      = "download-url"
	minPartSizeKey      = "min-part-size"
	realmKey            = "realm"
	allowedKey          = "allowed"
	bucketMapKey        = "bucket-map"
)

// accountFieldKeys is the MGET/MSET ordering of the credential record fields.
var accountFieldKeys = []string{
	accountIDKey,
	applicationKeyIDKey,
	applicationKeyKey,
	authTokenKey,
	apiURLKey,
	downloadURLKey,
	minPartSizeKey,
	realmKey,
	allowedKey,
}

// DefaultKeyPrefix is used when no prefix is given to NewRedisAccountInfo.
const DefaultKeyPrefix = "b2:"

var (
	_ AccountStore = new(RedisAccountInfo)
	_ BucketCache  = new(RedisAccountInfo)
)

// RedisAccountInfo stores one account's credential record and bucket name
// map in a Redis database shared by any number of processes. Redis is the
// sole arbiter of ordering: every mutation is a single atomic command or a
// MULTI/EXEC unit, so no in-process locking is needed.
type RedisAccountInfo struct {
	client *redis.Client
	prefix string
}

// NewRedisAccountInfo creates a store over the given client. All keys are
// prepended with prefix so several stores can share one database; an empty
// prefix means DefaultKeyPrefix.
func NewRedisAccountInfo(client *redis.Client, prefix string) *RedisAccountInfo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisAccountInfo{client: client, prefix: prefix}
}

// Prefix returns the key prefix in effect.
func (s *RedisAccountInfo) Prefix() string {
	return s.prefix
}

func (s *RedisAccountInfo) key(name string) string {
	return s.prefix + name
}

func (s *RedisAccountInfo) fieldKeys() []string {
	keys := make([]string, len(accountFieldKeys))
	for i, name := range accountFieldKeys {
		keys[i] = s.key(name)
	}
	return keys
}

// allKeys returns every key this store may have written, so Clear and the
// transaction coordinator can cover them all.
func (s *RedisAccountInfo) allKeys() []string {
	return append(s.fieldKeys(), s.key(bucketMapKey))
}

// encodeAccountInfo flattens a record into MSET pairs in fieldKeys order.
func (s *RedisAccountInfo) encodeAccountInfo(info *models.AccountInfo) ([]interface{}, error) {
	allowed, err := json.Marshal(info.Allowed)
	if err != nil {
		return nil, err
	}
	values := []string{
		info.AccountID,
		info.ApplicationKeyID,
		info.ApplicationKey,
		info.AuthToken,
		info.APIURL,
		info.DownloadURL,
		strconv.Itoa(info.MinimumPartSize),
		info.Realm,
		string(allowed),
	}
	pairs := make([]interface{}, 0, 2*len(values))
	for i, key := range s.fieldKeys() {
		pairs = append(pairs, key, values[i])
	}
	return pairs, nil
}

// decodeAccountInfo rebuilds a record from MGET results in fieldKeys order.
// A record that is entirely absent is ErrNoAccountInfo; one that is present
// but incomplete or undecodable is ErrMalformedRecord.
func decodeAccountInfo(raw []interface{}) (*models.AccountInfo, error) {
	values := make([]string, len(accountFieldKeys))
	present := 0
	for i, v := range raw {
		if v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return nil, models.NewErrMalformedRecord(accountFieldKeys[i], "not a string value")
		}
		values[i] = str
		present++
	}
	if present == 0 {
		return nil, models.NewErrNoAccountInfo()
	}
	if present != len(accountFieldKeys) {
		for i, v := range raw {
			if v == nil {
				return nil, models.NewErrMalformedRecord(accountFieldKeys[i], "missing from stored record")
			}
		}
	}

	minPartSize, err := strconv.Atoi(values[6])
	if err != nil {
		return nil, models.NewErrMalformedRecord(minPartSizeKey, err.Error())
	}
	var allowed models.Allowed
	if err := json.Unmarshal([]byte(values[8]), &allowed); err != nil {
		return nil, models.NewErrMalformedRecord(allowedKey, err.Error())
	}

	return &models.AccountInfo{
		AccountID:        values[0],
		ApplicationKeyID: values[1],
		ApplicationKey:   values[2],
		AuthToken:        values[3],
		APIURL:           values[4],
		DownloadURL:      values[5],
		MinimumPartSize:  minPartSize,
		Realm:            values[7],
		Allowed:          allowed,
	}, nil
}

// wrap turns a backing-store failure into ErrStoreUnavailable, preserving
// the cause. Nil and the nil-reply sentinel pass through.
func wrap(err error) error {
	if err == nil || err == redis.Nil {
		return err
	}
	return models.NewErrStoreUnavailable(err)
}

// SetAccountInfo replaces the whole credential record with one MSET.
func (s *RedisAccountInfo) SetAccountInfo(info *models.AccountInfo) error {
	pairs, err := s.encodeAccountInfo(info)
	if err != nil {
		return err
	}
	return wrap(s.client.MSet(pairs...).Err())
}

// GetAccountInfo reads the whole credential record with one MGET.
func (s *RedisAccountInfo) GetAccountInfo() (*models.AccountInfo, error) {
	raw, err := s.client.MGet(s.fieldKeys()...).Result()
	if err != nil {
		return nil, wrap(err)
	}
	return decodeAccountInfo(raw)
}

// Clear removes the credential record and the bucket map in one DEL.
func (s *RedisAccountInfo) Clear() error {
	return wrap(s.client.Del(s.allKeys()...).Err())
}

// SaveBucket upserts one name-to-ID entry in the bucket map hash.
func (s *RedisAccountInfo) SaveBucket(name, id string) error {
	return wrap(s.client.HSet(s.key(bucketMapKey), name, id).Err())
}

// GetBucketID looks up the cached ID for a bucket name.
func (s *RedisAccountInfo) GetBucketID(name string) (string, error) {
	id, err := s.client.HGet(s.key(bucketMapKey), name).Result()
	if err == redis.Nil {
		return "", models.NewErrNoSuchBucket(name)
	}
	if err != nil {
		return "", wrap(err)
	}
	return id, nil
}

// RemoveBucket ejects one entry from the bucket map.
func (s *RedisAccountInfo) RemoveBucket(name string) error {
	return wrap(s.client.HDel(s.key(bucketMapKey), name).Err())
}

// RefreshBucketCache replaces the entire bucket map in one MULTI/EXEC
// pipeline, so stale entries never leak past a full listing refresh.
func (s *RedisAccountInfo) RefreshBucketCache(mappings map[string]string) error {
	_, err := s.client.TxPipelined(func(pipe *redis.Pipeline) error {
		pipe.Del(s.key(bucketMapKey))
		// HMSET of an empty map is a protocol error
		if len(mappings) > 0 {
			pipe.HMSet(s.key(bucketMapKey), mappings)
		}
		return nil
	})
	return wrap(err)
}

// InvalidateAll drops every mapping in the bucket map.
func (s *RedisAccountInfo) InvalidateAll() error {
	return wrap(s.client.Del(s.key(bucketMapKey)).Err())
}
