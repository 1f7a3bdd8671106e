package routing

import "github.com/mindease-app/edge/internal/models"

// Route declares the access requirement for one navigable path. A route has
// at most one required role; Anonymous marks routes reachable without a
// session.
type Route struct {
	Path      string
	Role      string
	Anonymous bool
}

const LoginPath = "/login"

// Table is the single declaration of who may see what. The root path is
// student content: admins and counselors are bounced to their own homes from
// it rather than shown the student landing page.
var Table = []Route{
	{Path: "/", Role: models.RoleStudent},
	{Path: "/wellness", Role: models.RoleStudent},
	{Path: "/campus", Role: models.RoleStudent},
	{Path: "/peers", Role: models.RoleStudent},
	{Path: "/profile"},
	{Path: "/settings"},
	{Path: "/admin", Role: models.RoleAdmin},
	{Path: "/admin/counselors", Role: models.RoleAdmin},
	{Path: "/admin/assign-counselor", Role: models.RoleAdmin},
	{Path: "/counselor-dashboard", Role: models.RoleCounselor},
	{Path: "/login", Anonymous: true},
	{Path: "/signup", Anonymous: true},
}

var byPath = func() map[string]Route {
	m := make(map[string]Route, len(Table))
	for _, r := range Table {
		m[r.Path] = r
	}
	return m
}()

func Lookup(path string) (Route, bool) {
	r, ok := byPath[path]
	return r, ok
}

// RoleHome maps a role to its landing route after authentication.
func RoleHome(role string) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleCounselor:
		return "/counselor-dashboard"
	default:
		return "/"
	}
}
