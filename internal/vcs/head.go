package vcs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Head stores the current commit id as a single-line file. 0 means no
// commit yet.
type Head struct {
	path string
}

// Read returns the HEAD commit id. A missing or unparsable file reads as 0.
func (h Head) Read() (int, error) {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read HEAD: %w", err)
	}
	id, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || id < 0 {
		return 0, nil
	}
	return id, nil
}

// Write points HEAD at id.
func (h Head) Write(id int) error {
	if err := SafeWrite(h.path, []byte(strconv.Itoa(id)+"\n"), 0644); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	return nil
}
