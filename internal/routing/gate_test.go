package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindease-app/edge/internal/models"
	"github.com/mindease-app/edge/internal/session"
)

func authed(role string) session.Snapshot {
	return session.Snapshot{
		State: session.StateAuthenticated,
		User:  &models.User{ID: "u1", Role: role},
	}
}

func TestDecide_DecisionTable(t *testing.T) {
	t.Parallel()

	var (
		loading = session.Snapshot{State: session.StateLoading}
		unauth  = session.Snapshot{State: session.StateUnauthenticated}
	)

	tests := []struct {
		name       string
		snap       session.Snapshot
		route      Route
		want       Outcome
		wantTarget string
	}{
		{name: "loading, no role", snap: loading, route: Route{Path: "/profile"}, want: OutcomeLoading},
		{name: "loading, role required", snap: loading, route: Route{Path: "/admin", Role: models.RoleAdmin}, want: OutcomeLoading},

		{name: "unauthenticated, anonymous route", snap: unauth, route: Route{Path: "/login", Anonymous: true}, want: OutcomeRender},
		{name: "unauthenticated, authenticated-only route", snap: unauth, route: Route{Path: "/profile"}, want: OutcomeRedirectLogin, wantTarget: LoginPath},
		{name: "unauthenticated, role-gated route", snap: unauth, route: Route{Path: "/admin", Role: models.RoleAdmin}, want: OutcomeRedirectLogin, wantTarget: LoginPath},

		{name: "matching role", snap: authed(models.RoleAdmin), route: Route{Path: "/admin", Role: models.RoleAdmin}, want: OutcomeRender},
		{name: "authenticated, role-agnostic route", snap: authed(models.RoleCounselor), route: Route{Path: "/settings"}, want: OutcomeRender},
		{name: "authenticated, anonymous route", snap: authed(models.RoleStudent), route: Route{Path: "/login", Anonymous: true}, want: OutcomeRender},

		{name: "student requesting admin", snap: authed(models.RoleStudent), route: Route{Path: "/admin", Role: models.RoleAdmin}, want: OutcomeRedirectHome, wantTarget: "/"},
		{name: "admin requesting student root", snap: authed(models.RoleAdmin), route: Route{Path: "/", Role: models.RoleStudent}, want: OutcomeRedirectHome, wantTarget: "/admin"},
		{name: "counselor requesting student root", snap: authed(models.RoleCounselor), route: Route{Path: "/", Role: models.RoleStudent}, want: OutcomeRedirectHome, wantTarget: "/counselor-dashboard"},
		{name: "counselor requesting admin", snap: authed(models.RoleCounselor), route: Route{Path: "/admin", Role: models.RoleAdmin}, want: OutcomeRedirectHome, wantTarget: "/counselor-dashboard"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Decide(tt.snap, tt.route)
			assert.Equal(t, tt.want, got.Outcome)
			assert.Equal(t, tt.wantTarget, got.Target)
		})
	}
}

func TestRoleHome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/admin", RoleHome(models.RoleAdmin))
	assert.Equal(t, "/counselor-dashboard", RoleHome(models.RoleCounselor))
	assert.Equal(t, "/", RoleHome(models.RoleStudent))
}

func TestTable_RootIsStudentOnly(t *testing.T) {
	t.Parallel()

	root, ok := Lookup("/")
	require.True(t, ok)
	assert.Equal(t, models.RoleStudent, root.Role)
	assert.False(t, root.Anonymous)
}

func TestTable_LoginAndSignupAreAnonymous(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/login", "/signup"} {
		route, ok := Lookup(path)
		require.True(t, ok, path)
		assert.True(t, route.Anonymous, path)
		assert.Empty(t, route.Role, path)
	}
}

func TestLookup_UnknownPath(t *testing.T) {
	t.Parallel()

	_, ok := Lookup("/nope")
	assert.False(t, ok)
}
