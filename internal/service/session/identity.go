package session

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/zhouzirui/resume-console/internal/model/device"
)

// DefaultKey is the storage key the identifier lives under.
const DefaultKey = "sessionId"

// Identity hands out the durable per-device session identifier used to
// correlate chat turns across visits.
type Identity struct {
	store    device.Store
	key      string
	generate func() string

	mu    sync.Mutex
	token string
}

// NewIdentity binds an Identity to store. An empty key falls back to DefaultKey.
func NewIdentity(store device.Store, key string) *Identity {
	if key == "" {
		key = DefaultKey
	}
	return &Identity{
		store:    store,
		key:      key,
		generate: uuid.NewString,
	}
}

// Get returns the device identifier, creating and persisting it on first use.
// A store failure is logged and a freshly generated token is still returned,
// so chat keeps working for the lifetime of the process. When the read fails
// the fresh token is kept in memory only; the stored one may still be valid.
func (i *Identity) Get() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.token != "" {
		return i.token
	}

	ctx := context.Background()
	stored, ok, err := i.store.Get(ctx, i.key)
	if err != nil {
		log.Printf("[session] read %q failed, using a process-local token: %v", i.key, err)
		i.token = i.generate()
		return i.token
	}
	if ok && stored != "" {
		i.token = stored
		return i.token
	}

	token := i.generate()
	if err := i.store.Set(ctx, i.key, token); err != nil {
		log.Printf("[session] persist %q failed: %v", i.key, err)
	}
	i.token = token
	return i.token
}
