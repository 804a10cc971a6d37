package vcs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// readMeta returns the raw bytes of a metadata file, or nil if it does not
// exist yet.
func readMeta(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeMeta rewrites a metadata file wholesale as indented JSON.
func writeMeta(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := SafeWrite(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// schemaOf reports the "v" field of a JSON object, or ok=false when data
// is not an object carrying one.
func schemaOf(data []byte) (v int, ok bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return 0, false
	}
	raw, found := fields["v"]
	if !found {
		return 0, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

func checkSchema(path string, v int) error {
	if v > schemaVersion {
		return fmt.Errorf("%s: version %d: %w", path, v, ErrUnsupportedVersion)
	}
	return nil
}
