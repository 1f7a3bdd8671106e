package tokenstore

import "context"

// Tokens is the persisted credential pair for one device. Both fields are
// opaque strings issued by the backend; the edge never inspects them.
type Tokens struct {
	Access  string
	Refresh string
}

func (t Tokens) Present() bool { return t.Access != "" }

// Store persists the token pair per device. A missing pair is a valid state,
// not a failure: Load returns zero Tokens and no error, Clear on an empty
// store succeeds.
type Store interface {
	Save(ctx context.Context, deviceID string, t Tokens) error
	Load(ctx context.Context, deviceID string) (Tokens, error)
	Clear(ctx context.Context, deviceID string) error
}

// Scoped binds a Store to a single device.
type Scoped struct {
	store    Store
	deviceID string
}

func ForDevice(s Store, deviceID string) *Scoped {
	return &Scoped{store: s, deviceID: deviceID}
}

func (s *Scoped) Save(ctx context.Context, access, refresh string) error {
	return s.store.Save(ctx, s.deviceID, Tokens{Access: access, Refresh: refresh})
}

func (s *Scoped) Load(ctx context.Context) (Tokens, error) {
	return s.store.Load(ctx, s.deviceID)
}

func (s *Scoped) Clear(ctx context.Context) error {
	return s.store.Clear(ctx, s.deviceID)
}
