package vcs

import (
	"errors"
	"fmt"
	"os"
)

// CompactResult reports a compaction pass. Sizes cover the whole object
// directory, before and after.
type CompactResult struct {
	Processed    int     `json:"processed" yaml:"processed"`
	Packed       int     `json:"packed" yaml:"packed"`
	OriginalSize int64   `json:"original_size" yaml:"original_size"`
	NewSize      int64   `json:"new_size" yaml:"new_size"`
	Saved        int64   `json:"saved" yaml:"saved"`
	SavedPercent float64 `json:"saved_percent" yaml:"saved_percent"`
}

// Compact rewrites every raw blob larger than the configured threshold in
// packed (compressed) form. Get decodes packed blobs transparently, so
// callers never see the difference. Blobs that do not shrink stay raw.
// No qualifying blob is a success with zero processed.
func (r *Repository) Compact() (*CompactResult, error) {
	digests, err := r.Store.List()
	if err != nil {
		return nil, err
	}
	original, err := r.Store.DiskUsage()
	if err != nil {
		return nil, err
	}

	res := &CompactResult{OriginalSize: original}
	codec := r.Config.Compaction.Codec
	for _, d := range digests {
		info, err := r.Store.Stat(d)
		if err != nil {
			return nil, err
		}
		if info.Packed || info.Size <= r.Config.Compaction.Threshold {
			continue
		}

		res.Processed++
		packed, err := r.packObject(d, codec)
		if err != nil {
			return nil, err
		}
		if packed {
			res.Packed++
		}
	}

	res.NewSize, err = r.Store.DiskUsage()
	if err != nil {
		return nil, err
	}
	res.Saved = res.OriginalSize - res.NewSize
	if res.OriginalSize > 0 {
		res.SavedPercent = float64(res.Saved) / float64(res.OriginalSize) * 100
	}
	r.logger.Debug("compacted objects", "processed", res.Processed, "packed", res.Packed, "saved", res.Saved)
	return res, nil
}

// packObject replaces one raw blob with its packed encoding. It reports
// false, leaving the blob alone, when compression does not pay off.
func (r *Repository) packObject(d Digest, codec Codec) (bool, error) {
	raw, err := os.ReadFile(r.Store.path(d))
	if err != nil {
		return false, fmt.Errorf("read object %s: %w", d, err)
	}
	if !r.Store.matches(d, raw) {
		r.logger.Warn("not packing corrupt object", "hash", d)
		return false, nil
	}
	encoded, err := pack(raw, codec)
	if errors.Is(err, errIncompressible) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("pack object %s: %w", d, err)
	}
	if err := r.Store.rewrite(d, encoded); err != nil {
		return false, err
	}
	return true, nil
}
