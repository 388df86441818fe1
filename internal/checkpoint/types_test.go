package checkpoint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() SignedCheckpointWithMessageID {
	return SignedCheckpointWithMessageID{
		Value: CheckpointWithMessageID{
			Checkpoint: Checkpoint{
				MerkleTreeAddress: "0x59b0a0264115b4ed4e0d47a97c08bd64cc2a2e01",
				OriginDomain:      1,
				Root:              "0x4a8c9e3f0b2d715c6e8d44b1a0f3927e5c6b8d41a2f09e7c3b5d8a1f4e62c90b",
				Index:             12,
			},
			MessageID: "0x7d5b1a9e3c48f02b6d41e8a0c93f57d2b48e01a6c39f74b5d28e610a4c9f3b7e",
		},
		Signature: "0xababab",
	}
}

func TestSignedCheckpointJSONRoundTrip(t *testing.T) {
	want := sample()
	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got SignedCheckpointWithMessageID
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want, got)
	assert.Equal(t, uint32(12), got.Index())
}

func TestSigningDigestDeterministic(t *testing.T) {
	v := sample().Value
	d1, err := v.SigningDigest()
	require.NoError(t, err)
	d2, err := v.SigningDigest()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.NotEqual(t, [32]byte{}, d1)
}

func TestSigningDigestSensitivity(t *testing.T) {
	base := sample().Value
	d1, err := base.SigningDigest()
	require.NoError(t, err)

	changed := base
	changed.Index++
	d2, err := changed.SigningDigest()
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2)

	changed = base
	changed.OriginDomain = 2
	d3, err := changed.SigningDigest()
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestSigningDigestRejectsBadHex(t *testing.T) {
	v := sample().Value
	v.Root = "0xzzzz"
	_, err := v.SigningDigest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root")
}

func TestNewAgentMetadata(t *testing.T) {
	a := NewAgentMetadata("deadbeef")
	b := NewAgentMetadata("deadbeef")
	assert.Equal(t, "deadbeef", a.GitSHA)
	assert.NotEmpty(t, a.InstanceID)
	assert.NotEqual(t, a.InstanceID, b.InstanceID)
}

func TestNewReorgEvent(t *testing.T) {
	e := NewReorgEvent("0xlocal", "0xcanonical", 42)
	assert.Equal(t, uint32(42), e.Index)
	assert.NotZero(t, e.UnixTimestamp)
}
