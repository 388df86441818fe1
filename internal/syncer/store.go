package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ObjectStore is the backend capability a syncer is built on: one bucket,
// flat keys, whole-object reads and writes. Implementations classify
// their backend's "no such object" shapes into ErrObjectNotFound and let
// every other failure through unchanged.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Object key layout per store. Checkpoints, the latest index, and the
// reorg flag live at fixed unprefixed keys; metadata and the announcement
// are namespaced under the store's folder. The asymmetry is load-bearing:
// existing readers resolve these exact keys.
const (
	latestIndexKey  = "gcsLatestIndexKey"
	metadataKey     = "gcsMetadataKey"
	announcementKey = "announcement.json"
	reorgFlagKey    = "gcsReorgFlagKey"
)

// checkpointKey returns the object key for the checkpoint at index.
func checkpointKey(index uint32) string {
	return fmt.Sprintf("checkpoint_%d_with_id.json", index)
}

// DefaultScheme is the URI scheme used in announcement locations unless
// the store identity overrides it. Kept as "gs" for compatibility with
// readers that parse published locations.
const DefaultScheme = "gs"

// StoreIdentity names a logical store: a bucket, an optional folder that
// namespaces the single-slot keys, and the URI scheme used when the
// store's location is published.
type StoreIdentity struct {
	Bucket string
	Folder string
	Scheme string
}

// ValidateBucketName rejects bucket names that would corrupt key layout.
func ValidateBucketName(bucket string) error {
	if strings.Contains(bucket, "/") {
		return fmt.Errorf("bucket name %q has an invalid symbol '/'", bucket)
	}
	return nil
}

// objectPath applies the folder prefix to an object name. A trailing '/'
// on the folder is stripped so keys never contain empty path segments.
func (id StoreIdentity) objectPath(name string) string {
	if id.Folder == "" {
		return name
	}
	return strings.TrimSuffix(id.Folder, "/") + "/" + name
}

func (id StoreIdentity) scheme() string {
	if id.Scheme == "" {
		return DefaultScheme
	}
	return id.Scheme
}

// String renders the identity for error annotation and logs.
func (id StoreIdentity) String() string {
	if id.Folder == "" {
		return id.Bucket
	}
	return id.Bucket + "/" + id.Folder
}

var (
	// ErrObjectNotFound marks absence of an object. Syncer reads
	// translate it to a nil result; it never reaches callers as an error.
	ErrObjectNotFound = errors.New("object not found")
)
