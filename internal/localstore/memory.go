package localstore

import (
	"encoding/json"
	"sync"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

// Memory is an in-process Store for tests. Payloads round-trip through
// JSON so corrupt-state behavior can be exercised by seeding raw bytes.
type Memory struct {
	mu      sync.Mutex
	buckets map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{buckets: make(map[string][]byte)}
}

// Seed stores raw bytes directly, bypassing encoding. Tests use it to
// plant malformed payloads.
func (m *Memory) Seed(bucket string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[bucket] = raw
}

func (m *Memory) Get(bucket string, v any) (bool, error) {
	m.mu.Lock()
	payload, ok := m.buckets[bucket]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, model.NewParseError("bucket "+bucket, err)
	}
	return true, nil
}

func (m *Memory) Put(bucket string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.buckets[bucket] = payload
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(bucket string) error {
	m.mu.Lock()
	delete(m.buckets, bucket)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
