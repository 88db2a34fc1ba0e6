package store

// BucketCache is the name-to-ID cache capability an SDK consumes.
type BucketCache interface {
	// SaveBucket remembers the ID for the given bucket name. An existing
	// entry for the same name is overwritten, last writer wins.
	SaveBucket(name, id string) error

	// GetBucketID returns the cached ID for a bucket name.
	//
	// If the name is not cached, it returns an error of ErrNoSuchBucket.
	GetBucketID(name string) (string, error)

	// RemoveBucket ejects one entry from the cache. Removing a name that
	// was never cached is not an error.
	RemoveBucket(name string) error

	// RefreshBucketCache drops every previous mapping and stores the given
	// ones, as one atomic unit. Readers never see a half-refreshed map.
	RefreshBucketCache(mappings map[string]string) error

	// InvalidateAll atomically removes every mapping the cache owns.
	InvalidateAll() error
}
