package vcs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig_JSONC(t *testing.T) {
	data := []byte(`{
  // switch to blake3 for new repositories
  "hash": "blake3",
  "compaction": {
    "threshold": 4096, /* bytes */
    "codec": "lz4",
  },
}`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Hash != HashBLAKE3 || cfg.Compaction.Threshold != 4096 || cfg.Compaction.Codec != CodecLZ4 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.V != schemaVersion {
		t.Errorf("v = %d, want default %d", cfg.V, schemaVersion)
	}
}

func TestParseConfig_PartialKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"snapshot_dir": "snaps"}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	def := DefaultConfig()
	if cfg.Hash != def.Hash || cfg.Compaction != def.Compaction || cfg.SnapshotDir != "snaps" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"hash":      `{"hash": "md5"}`,
		"codec":     `{"compaction": {"codec": "gzip"}}`,
		"threshold": `{"compaction": {"threshold": -1}}`,
		"syntax":    `{"hash": `,
	}
	for name, in := range tests {
		if _, err := ParseConfig([]byte(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	_, err := ParseConfig([]byte(`{"v": 3}`))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("future version: err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestLoadConfig_MissingFileIsDefault(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestOpen_RepositoryWithoutConfig(t *testing.T) {
	r := openTestRepo(t)
	os.Remove(filepath.Join(r.MetaPath(), configName))
	reopened, err := Open(r.Root(), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if reopened.Config.Hash != HashSHA256 {
		t.Errorf("hash = %s", reopened.Config.Hash)
	}
}
