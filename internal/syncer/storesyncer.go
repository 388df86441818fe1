package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/crosslane/checkpointsync/internal/checkpoint"
)

// StoreSyncer implements CheckpointSyncer over any ObjectStore. It holds
// no mutable state beyond the store identity and the backend handle, so a
// single instance is safe for concurrent use.
type StoreSyncer struct {
	store  ObjectStore
	id     StoreIdentity
	logger logr.Logger
}

var _ CheckpointSyncer = (*StoreSyncer)(nil)

// NewStoreSyncer validates the store identity and binds a syncer to the
// given backend. The logger receives write-path success/failure events;
// pass logr.Discard() to silence them.
func NewStoreSyncer(store ObjectStore, id StoreIdentity, logger logr.Logger) (*StoreSyncer, error) {
	if err := ValidateBucketName(id.Bucket); err != nil {
		return nil, err
	}
	return &StoreSyncer{store: store, id: id, logger: logger}, nil
}

// Identity returns the store identity this syncer is bound to.
func (s *StoreSyncer) Identity() StoreIdentity {
	return s.id
}

// getJSON reads and decodes an object. Returns (false, nil) when the
// object does not exist. A decode failure on an existing object is an
// error: a corrupt object is a real problem distinct from a missing one.
func (s *StoreSyncer) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get %q from store %s: %w", key, s.id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %q from store %s: %w", key, s.id, err)
	}
	return true, nil
}

func (s *StoreSyncer) put(ctx context.Context, key string, data []byte) error {
	if err := s.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("put %q to store %s: %w", key, s.id, err)
	}
	return nil
}

// LatestIndex returns the stored latest index, or nil on a fresh store.
func (s *StoreSyncer) LatestIndex(ctx context.Context) (*uint32, error) {
	var index uint32
	ok, err := s.getJSON(ctx, latestIndexKey, &index)
	if err != nil || !ok {
		return nil, err
	}
	return &index, nil
}

// WriteLatestIndex overwrites the latest-index slot.
func (s *StoreSyncer) WriteLatestIndex(ctx context.Context, index uint32) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode latest index: %w", err)
	}
	return s.put(ctx, latestIndexKey, data)
}

// UpdateLatestIndex advances the latest index if index exceeds the stored
// value. Absence reads as 0. Read-then-write with no conditional-write
// token: a concurrent writer's update can be lost, but the stored value
// never decreases.
func (s *StoreSyncer) UpdateLatestIndex(ctx context.Context, index uint32) error {
	var curr uint32
	if stored, err := s.LatestIndex(ctx); err != nil {
		return err
	} else if stored != nil {
		curr = *stored
	}
	if index > curr {
		return s.WriteLatestIndex(ctx, index)
	}
	return nil
}

// FetchCheckpoint returns the signed checkpoint at index, or nil if none
// was published.
func (s *StoreSyncer) FetchCheckpoint(ctx context.Context, index uint32) (*checkpoint.SignedCheckpointWithMessageID, error) {
	var signed checkpoint.SignedCheckpointWithMessageID
	ok, err := s.getJSON(ctx, checkpointKey(index), &signed)
	if err != nil || !ok {
		return nil, err
	}
	return &signed, nil
}

// WriteCheckpoint publishes a signed checkpoint keyed by its embedded index.
func (s *StoreSyncer) WriteCheckpoint(ctx context.Context, signed *checkpoint.SignedCheckpointWithMessageID) error {
	data, err := json.Marshal(signed)
	if err != nil {
		return fmt.Errorf("encode checkpoint %d: %w", signed.Index(), err)
	}
	return s.put(ctx, checkpointKey(signed.Index()), data)
}

// WriteMetadata overwrites the metadata slot and logs the outcome, since
// downstream readers only ever see the store, not this process.
func (s *StoreSyncer) WriteMetadata(ctx context.Context, metadata checkpoint.AgentMetadata) error {
	key := s.id.objectPath(metadataKey)
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := s.put(ctx, key, data); err != nil {
		s.logger.Error(err, "failed to upload metadata", "path", key)
		return err
	}
	s.logger.Info("uploaded metadata", "path", key)
	return nil
}

// WriteAnnouncement overwrites the announcement slot and logs the outcome.
func (s *StoreSyncer) WriteAnnouncement(ctx context.Context, announcement checkpoint.SignedAnnouncement) error {
	key := s.id.objectPath(announcementKey)
	data, err := json.Marshal(announcement)
	if err != nil {
		return fmt.Errorf("encode announcement: %w", err)
	}
	if err := s.put(ctx, key, data); err != nil {
		s.logger.Error(err, "failed to upload announcement", "path", key)
		return err
	}
	s.logger.Info("uploaded announcement", "path", key)
	return nil
}

// AnnouncementLocation returns the announcement slot's URI. The string is
// the same before and after the announcement is written.
func (s *StoreSyncer) AnnouncementLocation() string {
	return fmt.Sprintf("%s://%s/%s", s.id.scheme(), s.id.Bucket, s.id.objectPath(announcementKey))
}

// WriteReorgStatus overwrites the reorg-flag slot.
func (s *StoreSyncer) WriteReorgStatus(ctx context.Context, event checkpoint.ReorgEvent) error {
	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reorg event: %w", err)
	}
	if err := s.put(ctx, reorgFlagKey, data); err != nil {
		s.logger.Error(err, "failed to upload reorg flag", "path", reorgFlagKey)
		return err
	}
	s.logger.Info("uploaded reorg flag", "path", reorgFlagKey, "index", event.Index)
	return nil
}

// ReorgStatus returns the flagged reorg event, or nil if none was written.
func (s *StoreSyncer) ReorgStatus(ctx context.Context) (*checkpoint.ReorgEvent, error) {
	var event checkpoint.ReorgEvent
	ok, err := s.getJSON(ctx, reorgFlagKey, &event)
	if err != nil || !ok {
		return nil, err
	}
	return &event, nil
}
