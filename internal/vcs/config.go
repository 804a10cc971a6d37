package vcs

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// DefaultCompactionThreshold is the on-disk size a blob must exceed before
// the compactor touches it.
const DefaultCompactionThreshold = 1024

// Config is the per-repository configuration stored in .svcs/config.json.
// The file may contain // and /* */ comments and trailing commas.
type Config struct {
	V           int              `json:"v"`
	Hash        HashAlgorithm    `json:"hash"`
	Compaction  CompactionConfig `json:"compaction"`
	SnapshotDir string           `json:"snapshot_dir,omitempty"`
}

// CompactionConfig controls the object compactor.
type CompactionConfig struct {
	Threshold int64 `json:"threshold"`
	Codec     Codec `json:"codec"`
}

// DefaultConfig returns the configuration a fresh repository gets.
func DefaultConfig() Config {
	return Config{
		V:    schemaVersion,
		Hash: HashSHA256,
		Compaction: CompactionConfig{
			Threshold: DefaultCompactionThreshold,
			Codec:     CodecZstd,
		},
	}
}

// ParseConfig decodes JSONC config bytes on top of the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the config file at path. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	data, err := readMeta(path)
	if err != nil {
		return Config{}, err
	}
	if data == nil {
		return DefaultConfig(), nil
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields and the schema version.
func (c Config) Validate() error {
	if c.V > schemaVersion {
		return fmt.Errorf("config version %d: %w", c.V, ErrUnsupportedVersion)
	}
	if _, err := NewHasher(c.Hash); err != nil {
		return err
	}
	if !c.Compaction.Codec.valid() {
		return fmt.Errorf("unknown compaction codec %q", c.Compaction.Codec)
	}
	if c.Compaction.Threshold < 0 {
		return fmt.Errorf("compaction threshold must not be negative, got %d", c.Compaction.Threshold)
	}
	return nil
}
