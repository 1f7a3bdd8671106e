// Package session owns the answer to "who is authenticated on this device".
// One Resolver exists per device; consumers receive it through the Manager
// instead of re-reading token storage ad hoc.
package session

import (
	"context"
	"sync"

	"github.com/mindease-app/edge/internal/logging"
	"github.com/mindease-app/edge/internal/models"
	"github.com/mindease-app/edge/internal/tokenstore"
)

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Snapshot is the read-only view handed to consumers. User is nil unless
// State is StateAuthenticated.
type Snapshot struct {
	State State
	User  *models.User
}

// Backend is the slice of the API client the resolver uses.
type Backend interface {
	GetProfile(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
}

// TokenStore is the device-scoped token storage.
type TokenStore interface {
	Load(ctx context.Context) (tokenstore.Tokens, error)
	Save(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

type Resolver struct {
	mu      sync.Mutex
	state   State
	user    *models.User
	pending chan struct{}

	backend Backend
	tokens  TokenStore
}

func NewResolver(backend Backend, tokens TokenStore) *Resolver {
	return &Resolver{state: StateLoading, backend: backend, tokens: tokens}
}

func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{State: r.state, User: r.user}
}

// Resolve brings the session to a terminal state. A state already resolved
// is returned as is; use Refresh to force re-resolution. A cached
// authenticated state is only trusted while the token pair still exists:
// the API client clears the store out-of-band when a refresh fails, and a
// device whose tokens were revoked must not keep its session.
func (r *Resolver) Resolve(ctx context.Context) Snapshot {
	r.mu.Lock()
	if r.state != StateLoading && r.pending == nil {
		snap := Snapshot{State: r.state, User: r.user}
		r.mu.Unlock()
		if snap.State == StateAuthenticated {
			if t, err := r.tokens.Load(ctx); err != nil || !t.Present() {
				return r.Refresh(ctx)
			}
		}
		return snap
	}
	r.mu.Unlock()
	return r.Refresh(ctx)
}

// Refresh re-runs resolution. Concurrent callers are coalesced into the
// in-flight resolution; none of them observes StateLoading as a result.
func (r *Resolver) Refresh(ctx context.Context) Snapshot {
	r.mu.Lock()
	if ch := r.pending; ch != nil {
		r.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
		}
		return r.Snapshot()
	}
	ch := make(chan struct{})
	r.pending = ch
	r.mu.Unlock()

	state, user := r.resolve(ctx)

	r.mu.Lock()
	r.state, r.user = state, user
	r.pending = nil
	r.mu.Unlock()
	close(ch)

	return Snapshot{State: state, User: user}
}

// resolve maps every failure to StateUnauthenticated: passive session checks
// never surface raw errors, they land the user on the login page.
func (r *Resolver) resolve(ctx context.Context) (State, *models.User) {
	l := logging.FromContext(ctx).With("svc", "session.resolve")

	t, err := r.tokens.Load(ctx)
	if err != nil {
		l.Warn("token_load_failed", "error", err)
		return StateUnauthenticated, nil
	}
	if !t.Present() {
		return StateUnauthenticated, nil
	}

	user, err := r.backend.GetProfile(ctx)
	if err != nil {
		l.Warn("profile_fetch_failed", "error", err)
		_ = r.tokens.Clear(ctx)
		return StateUnauthenticated, nil
	}
	return StateAuthenticated, user
}

// Establish persists a session payload from login or OTP verification and
// resolves it into an authenticated state.
func (r *Resolver) Establish(ctx context.Context, access, refresh string) (Snapshot, error) {
	if err := r.tokens.Save(ctx, access, refresh); err != nil {
		return Snapshot{}, err
	}

	// wait out an in-flight resolution so a stale result cannot overwrite
	// the fresh session
	for {
		r.mu.Lock()
		ch := r.pending
		r.mu.Unlock()
		if ch == nil {
			break
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return r.Snapshot(), ctx.Err()
		}
	}

	return r.Refresh(ctx), nil
}

// SignOut revokes the backend session best-effort, clears stored tokens and
// lands in StateUnauthenticated. Safe to call repeatedly.
func (r *Resolver) SignOut(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "session.signout")

	if err := r.backend.Logout(ctx); err != nil {
		l.Debug("backend_logout_skipped", "error", err)
	}
	if err := r.tokens.Clear(ctx); err != nil {
		l.Warn("token_clear_failed", "error", err)
	}

	r.mu.Lock()
	r.state = StateUnauthenticated
	r.user = nil
	r.mu.Unlock()
}
