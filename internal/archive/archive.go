// Package archive bundles ranges of published checkpoints into
// zstd-compressed JSONL archives for offline transfer, and re-publishes
// archives into a store.
package archive

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/crosslane/checkpointsync/internal/checkpoint"
	"github.com/crosslane/checkpointsync/internal/syncer"
)

// Export fetches checkpoints in [from, to] from s and writes them to w
// as zstd-compressed JSONL, one signed checkpoint per line. Indices with
// no published checkpoint are skipped, matching fresh-store read
// semantics. Returns the number of checkpoints written.
func Export(ctx context.Context, s syncer.CheckpointSyncer, from, to uint32, w io.Writer) (int, error) {
	if to < from {
		return 0, fmt.Errorf("invalid range: %d..%d", from, to)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("open zstd writer: %w", err)
	}

	enc := json.NewEncoder(zw)
	count := 0
	for i := from; ; i++ {
		signed, err := s.FetchCheckpoint(ctx, i)
		if err != nil {
			zw.Close()
			return count, err
		}
		if signed != nil {
			if err := enc.Encode(signed); err != nil {
				zw.Close()
				return count, fmt.Errorf("encode checkpoint %d: %w", i, err)
			}
			count++
		}
		if i == to {
			break
		}
	}
	if err := zw.Close(); err != nil {
		return count, fmt.Errorf("close zstd writer: %w", err)
	}
	return count, nil
}

// Import reads a zstd JSONL archive from r and publishes every
// checkpoint into s, then advances the store's latest index to the
// highest imported index. Returns the number of checkpoints published.
func Import(ctx context.Context, s syncer.CheckpointSyncer, r io.Reader) (int, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("open zstd reader: %w", err)
	}
	defer zr.Close()

	count := 0
	var maxIndex uint32
	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var signed checkpoint.SignedCheckpointWithMessageID
		if err := json.Unmarshal(line, &signed); err != nil {
			return count, fmt.Errorf("decode archive line %d: %w", count+1, err)
		}
		if err := s.WriteCheckpoint(ctx, &signed); err != nil {
			return count, err
		}
		if signed.Index() > maxIndex {
			maxIndex = signed.Index()
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("read archive: %w", err)
	}

	if count > 0 {
		if err := s.UpdateLatestIndex(ctx, maxIndex); err != nil {
			return count, err
		}
	}
	return count, nil
}
