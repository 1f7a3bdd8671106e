package session

import (
	"sync"

	"github.com/mindease-app/edge/internal/tokenstore"
	"github.com/mindease-app/edge/pkg/apiclient"
)

// Manager hands out the per-device resolver and the device-bound API client.
// It is the process-wide owner of session state.
type Manager struct {
	mu        sync.Mutex
	resolvers map[string]*Resolver

	client *apiclient.Client
	store  tokenstore.Store
}

func NewManager(client *apiclient.Client, store tokenstore.Store) *Manager {
	return &Manager{
		resolvers: make(map[string]*Resolver),
		client:    client,
		store:     store,
	}
}

// For returns the resolver for a device, creating it on first contact.
func (m *Manager) For(deviceID string) *Resolver {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.resolvers[deviceID]; ok {
		return r
	}
	r := NewResolver(m.Client(deviceID), tokenstore.ForDevice(m.store, deviceID))
	m.resolvers[deviceID] = r
	return r
}

// Client returns the API client bound to a device's token storage.
func (m *Manager) Client(deviceID string) *apiclient.Client {
	return m.client.WithTokens(tokenstore.ForDevice(m.store, deviceID))
}

// Drop forgets a device's resolver, e.g. after its tokens were cleared and
// the device went quiet. The next request recreates it.
func (m *Manager) Drop(deviceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resolvers, deviceID)
}
