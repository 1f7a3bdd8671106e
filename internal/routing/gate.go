package routing

import "github.com/mindease-app/edge/internal/session"

type Outcome int

const (
	// OutcomeLoading: session not yet resolved, show a placeholder.
	OutcomeLoading Outcome = iota
	// OutcomeRender: the caller may produce the route's content.
	OutcomeRender
	// OutcomeRedirectLogin: no session where one is required.
	OutcomeRedirectLogin
	// OutcomeRedirectHome: authenticated but the wrong role; Target is that
	// user's own role home.
	OutcomeRedirectHome
)

type Decision struct {
	Outcome Outcome
	Target  string
}

// Decide implements the gate's decision table. It is the only place the
// (session state, required role) mapping lives.
func Decide(snap session.Snapshot, route Route) Decision {
	switch snap.State {
	case session.StateLoading:
		return Decision{Outcome: OutcomeLoading}

	case session.StateUnauthenticated:
		if route.Role == "" && route.Anonymous {
			return Decision{Outcome: OutcomeRender}
		}
		return Decision{Outcome: OutcomeRedirectLogin, Target: LoginPath}
	}

	if route.Role == "" || route.Role == snap.User.Role {
		return Decision{Outcome: OutcomeRender}
	}
	return Decision{Outcome: OutcomeRedirectHome, Target: RoleHome(snap.User.Role)}
}
