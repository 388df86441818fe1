package checkpoint

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// SigningDigest returns the keccak-256 digest a signer commits to for
// this checkpoint: domain digest, then root, index, and message id.
// Signing itself happens outside this module.
func (c CheckpointWithMessageID) SigningDigest() ([32]byte, error) {
	var digest [32]byte

	addr, err := decodeHexField("merkle_tree_hook_address", c.MerkleTreeAddress)
	if err != nil {
		return digest, err
	}
	root, err := decodeHexField("root", c.Root)
	if err != nil {
		return digest, err
	}
	msgID, err := decodeHexField("message_id", c.MessageID)
	if err != nil {
		return digest, err
	}

	var domain [4]byte
	binary.BigEndian.PutUint32(domain[:], c.OriginDomain)
	var index [4]byte
	binary.BigEndian.PutUint32(index[:], c.Index)

	h := sha3.NewLegacyKeccak256()
	h.Write(domain[:])
	h.Write(addr)
	h.Write(root)
	h.Write(index[:])
	h.Write(msgID)
	copy(digest[:], h.Sum(nil))
	return digest, nil
}

func decodeHexField(name, value string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(value, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode %s %q: %w", name, value, err)
	}
	return b, nil
}
