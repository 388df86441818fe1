// Package checkpoint defines the signed values published through a
// checkpoint store: checkpoints with message ids, agent metadata,
// announcements, and reorg events.
package checkpoint

import (
	"time"

	"github.com/google/uuid"
)

// Checkpoint is a snapshot of a merkle tree at a given leaf index.
type Checkpoint struct {
	MerkleTreeAddress string `json:"merkle_tree_hook_address"`
	OriginDomain      uint32 `json:"mailbox_domain"`
	Root              string `json:"root"`
	Index             uint32 `json:"index"`
}

// CheckpointWithMessageID pairs a checkpoint with the id of the message
// inserted at its index.
type CheckpointWithMessageID struct {
	Checkpoint
	MessageID string `json:"message_id"`
}

// SignedCheckpointWithMessageID is the value a validator publishes.
// The signature covers SigningDigest of the embedded value.
type SignedCheckpointWithMessageID struct {
	Value     CheckpointWithMessageID `json:"value"`
	Signature string                  `json:"signature"`
}

// Index returns the checkpoint index this value is keyed by.
func (s SignedCheckpointWithMessageID) Index() uint32 {
	return s.Value.Index
}

// AgentMetadata describes the agent instance that owns a store. One slot
// per store, overwritten on each write.
type AgentMetadata struct {
	GitSHA     string `json:"git_sha"`
	InstanceID string `json:"instance_id"`
}

// NewAgentMetadata returns metadata for this process with a fresh
// instance id.
func NewAgentMetadata(gitSHA string) AgentMetadata {
	return AgentMetadata{
		GitSHA:     gitSHA,
		InstanceID: uuid.NewString(),
	}
}

// Announcement states where a validator's signed checkpoints can be found.
type Announcement struct {
	Validator       string `json:"validator"`
	MailboxAddress  string `json:"mailbox_address"`
	MailboxDomain   uint32 `json:"mailbox_domain"`
	StorageLocation string `json:"storage_location"`
}

// SignedAnnouncement is an announcement plus the validator's signature
// over it.
type SignedAnnouncement struct {
	Value     Announcement `json:"value"`
	Signature string       `json:"signature"`
}

// ReorgEvent signals that the origin chain's history diverged from what
// was checkpointed. Checkpoints at or after Index are suspect.
type ReorgEvent struct {
	LocalRoot     string `json:"local_merkle_root"`
	CanonicalRoot string `json:"canonical_merkle_root"`
	Index         uint32 `json:"checkpoint_index"`
	UnixTimestamp int64  `json:"unix_timestamp"`
}

// NewReorgEvent records a divergence observed now.
func NewReorgEvent(localRoot, canonicalRoot string, index uint32) ReorgEvent {
	return ReorgEvent{
		LocalRoot:     localRoot,
		CanonicalRoot: canonicalRoot,
		Index:         index,
		UnixTimestamp: time.Now().Unix(),
	}
}
