package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

// File persists credential slots as a single JSON file, written atomically
// via rename. This is the default store for a single-lane terminal.
type File struct {
	mu   sync.Mutex
	path string
}

var _ ports.CredentialStore = (*File)(nil)

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Get(_ context.Context, slot ports.Slot) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, err := f.load()
	if err != nil {
		return "", err
	}
	return slots[slot], nil
}

func (f *File) Set(_ context.Context, slot ports.Slot, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, err := f.load()
	if err != nil {
		return err
	}
	slots[slot] = value
	return f.save(slots)
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (f *File) load() (map[ports.Slot]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[ports.Slot]string, len(ports.Slots)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	slots := make(map[ports.Slot]string, len(ports.Slots))
	if err := json.Unmarshal(raw, &slots); err != nil {
		// A corrupt file is treated as empty; the operator logs in again.
		return make(map[ports.Slot]string, len(ports.Slots)), nil
	}
	return slots, nil
}

func (f *File) save(slots map[ports.Slot]string) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("commit credentials: %w", err)
	}
	return nil
}
