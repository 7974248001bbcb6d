// Package credstore provides the credential slot stores the gateway client
// and session service persist tokens through: in-memory (tests, ephemeral
// kiosks), file-backed (single-lane terminals), and Redis-backed (several
// lanes sharing a till server).
package credstore

import (
	"context"
	"sync"

	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

// Memory is a process-local credential store.
type Memory struct {
	mu    sync.RWMutex
	slots map[ports.Slot]string
}

var _ ports.CredentialStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{slots: make(map[ports.Slot]string, len(ports.Slots))}
}

func (m *Memory) Get(_ context.Context, slot ports.Slot) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[slot], nil
}

func (m *Memory) Set(_ context.Context, slot ports.Slot, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = value
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = make(map[ports.Slot]string, len(ports.Slots))
	return nil
}
