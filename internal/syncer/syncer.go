// Package syncer provides durable publishing and retrieval of signed
// checkpoints, agent metadata, announcements, and reorg flags over
// pluggable object-storage backends.
package syncer

import (
	"context"

	"github.com/crosslane/checkpointsync/internal/checkpoint"
)

// CheckpointSyncer is the contract every storage backend satisfies.
//
// Absence of an object is never an error: reads return a nil pointer for
// objects that were never written. All other backend failures propagate
// to the caller; no retries happen at this layer.
type CheckpointSyncer interface {
	// LatestIndex returns the highest index this store claims to have
	// published, or nil if no index was ever written.
	LatestIndex(ctx context.Context) (*uint32, error)

	// WriteLatestIndex unconditionally overwrites the latest-index slot.
	WriteLatestIndex(ctx context.Context, index uint32) error

	// UpdateLatestIndex writes index only if it exceeds the currently
	// stored value (absence counts as 0). Read-then-write, not atomic:
	// concurrent callers may lose a write but the stored value never
	// decreases.
	UpdateLatestIndex(ctx context.Context, index uint32) error

	// FetchCheckpoint returns the signed checkpoint at index, or nil if
	// none was published.
	FetchCheckpoint(ctx context.Context, index uint32) (*checkpoint.SignedCheckpointWithMessageID, error)

	// WriteCheckpoint publishes a signed checkpoint keyed by its
	// embedded index. Checkpoints are immutable once written; callers
	// must not publish two different payloads at the same index.
	WriteCheckpoint(ctx context.Context, signed *checkpoint.SignedCheckpointWithMessageID) error

	// WriteMetadata overwrites the single agent-metadata slot.
	WriteMetadata(ctx context.Context, metadata checkpoint.AgentMetadata) error

	// WriteAnnouncement overwrites the single announcement slot.
	WriteAnnouncement(ctx context.Context, announcement checkpoint.SignedAnnouncement) error

	// AnnouncementLocation returns the URI of the announcement slot.
	// Pure function of the store identity; the same string is returned
	// whether or not an announcement was ever written.
	AnnouncementLocation() string

	// WriteReorgStatus overwrites the single reorg-flag slot.
	WriteReorgStatus(ctx context.Context, event checkpoint.ReorgEvent) error

	// ReorgStatus returns the currently flagged reorg event, or nil if
	// none was written.
	ReorgStatus(ctx context.Context) (*checkpoint.ReorgEvent, error)
}
