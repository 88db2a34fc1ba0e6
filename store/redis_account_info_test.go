package store_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"b2redis/models"
	"b2redis/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"gopkg.in/redis.v5"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redis.Client, *store.RedisAccountInfo) {
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return m, client, store.NewRedisAccountInfo(client, "")
}

func testAccountInfo(tag string) *models.AccountInfo {
	return &models.AccountInfo{
		AccountID:        "acct-" + tag,
		ApplicationKeyID: "key-id-" + tag,
		ApplicationKey:   "secret-" + tag,
		AuthToken:        "token-" + tag,
		APIURL:           "https://api.example.com",
		DownloadURL:      "https://download.example.com",
		MinimumPartSize:  100_000_000,
		Realm:            "production",
		Allowed: models.Allowed{
			Capabilities: []string{"listBuckets", "readFiles"},
			BucketName:   "restricted-bucket",
		},
	}
}

func TestAccountInfoRoundTrip(t *testing.T) {
	_, _, s := newTestStore(t)

	info := testAccountInfo("1")
	assert.NoError(t, s.SetAccountInfo(info))

	stored, err := s.GetAccountInfo()
	assert.NoError(t, err)
	assert.Equal(t, info, stored)
}

func TestGetAccountInfoMissing(t *testing.T) {
	_, _, s := newTestStore(t)

	stored, err := s.GetAccountInfo()
	assert.Nil(t, stored)
	assert.True(t, models.IsErrNoAccountInfo(err))
}

func TestClearRemovesEverything(t *testing.T) {
	_, _, s := newTestStore(t)

	assert.NoError(t, s.SetAccountInfo(testAccountInfo("1")))
	assert.NoError(t, s.SaveBucket("bucket-a", "id-1"))

	assert.NoError(t, s.Clear())

	_, err := s.GetAccountInfo()
	assert.True(t, models.IsErrNoAccountInfo(err))
	_, err = s.GetBucketID("bucket-a")
	assert.True(t, models.IsErrNoSuchBucket(err))
}

func TestGetAccountInfoMalformed(t *testing.T) {
	m, _, s := newTestStore(t)

	assert.NoError(t, s.SetAccountInfo(testAccountInfo("1")))

	m.Set("b2:min-part-size", "one hundred")
	_, err := s.GetAccountInfo()
	assert.True(t, models.IsErrMalformedRecord(err))

	m.Set("b2:min-part-size", "100")
	m.Set("b2:allowed", "{not json")
	_, err = s.GetAccountInfo()
	assert.True(t, models.IsErrMalformedRecord(err))
}

func TestGetAccountInfoPartialIsMalformed(t *testing.T) {
	m, _, s := newTestStore(t)

	assert.NoError(t, s.SetAccountInfo(testAccountInfo("1")))
	m.Del("b2:auth-token")

	_, err := s.GetAccountInfo()
	assert.True(t, models.IsErrMalformedRecord(err))
}

func TestBucketCache(t *testing.T) {
	_, _, s := newTestStore(t)

	_, err := s.GetBucketID("bucket-a")
	assert.True(t, models.IsErrNoSuchBucket(err))

	assert.NoError(t, s.SaveBucket("bucket-a", "id-1"))
	id, err := s.GetBucketID("bucket-a")
	assert.NoError(t, err)
	assert.Equal(t, "id-1", id)

	// last writer wins
	assert.NoError(t, s.SaveBucket("bucket-a", "id-2"))
	id, err = s.GetBucketID("bucket-a")
	assert.NoError(t, err)
	assert.Equal(t, "id-2", id)

	assert.NoError(t, s.RemoveBucket("bucket-a"))
	_, err = s.GetBucketID("bucket-a")
	assert.True(t, models.IsErrNoSuchBucket(err))

	// removing an unknown name is not an error
	assert.NoError(t, s.RemoveBucket("never-cached"))
}

func TestRefreshBucketCacheReplacesEverything(t *testing.T) {
	_, _, s := newTestStore(t)

	assert.NoError(t, s.SaveBucket("stale", "id-0"))
	assert.NoError(t, s.RefreshBucketCache(map[string]string{
		"bucket-a": "id-1",
		"bucket-b": "id-2",
	}))

	_, err := s.GetBucketID("stale")
	assert.True(t, models.IsErrNoSuchBucket(err))

	id, err := s.GetBucketID("bucket-a")
	assert.NoError(t, err)
	assert.Equal(t, "id-1", id)
	id, err = s.GetBucketID("bucket-b")
	assert.NoError(t, err)
	assert.Equal(t, "id-2", id)

	// refreshing with nothing leaves an empty cache
	assert.NoError(t, s.RefreshBucketCache(nil))
	_, err = s.GetBucketID("bucket-a")
	assert.True(t, models.IsErrNoSuchBucket(err))
}

func TestInvalidateAll(t *testing.T) {
	_, _, s := newTestStore(t)

	names := []string{"bucket-a", "bucket-b", "bucket-c"}
	for i, name := range names {
		assert.NoError(t, s.SaveBucket(name, fmt.Sprintf("id-%d", i)))
	}

	assert.NoError(t, s.InvalidateAll())

	for _, name := range names {
		_, err := s.GetBucketID(name)
		assert.True(t, models.IsErrNoSuchBucket(err))
	}
}

func TestConcurrentSetAccountInfo(t *testing.T) {
	_, _, s := newTestStore(t)

	const writers = 16
	submitted := make([]*models.AccountInfo, writers)
	for i := range submitted {
		submitted[i] = testAccountInfo(fmt.Sprintf("%d", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(info *models.AccountInfo) {
			defer wg.Done()
			assert.NoError(t, s.SetAccountInfo(info))
		}(submitted[i])
	}
	wg.Wait()

	stored, err := s.GetAccountInfo()
	assert.NoError(t, err)

	// the final record is exactly one of the submitted ones, no mixed fields
	won := false
	for _, info := range submitted {
		if reflect.DeepEqual(info, stored) {
			won = true
			break
		}
	}
	assert.True(t, won, "stored record is a mixture of submissions: %+v", stored)
}

func TestKeyPrefixIsolation(t *testing.T) {
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	first := store.NewRedisAccountInfo(client, "tenant-1:")
	second := store.NewRedisAccountInfo(client, "tenant-2:")

	assert.NoError(t, first.SaveBucket("bucket-a", "id-1"))
	_, err := second.GetBucketID("bucket-a")
	assert.True(t, models.IsErrNoSuchBucket(err))
}
