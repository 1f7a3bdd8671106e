package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/mindease-app/edge/internal/events"
	"github.com/mindease-app/edge/internal/session"
	"github.com/mindease-app/edge/pkg/apiclient"
)

// Deps bundles everything the HTTP layer needs. Search, Events and Logger may
// be nil when the corresponding infrastructure is not configured.
type Deps struct {
	Sessions     *session.Manager
	Client       *apiclient.Client
	DeviceSecret []byte
	Events       *events.Producer
	Search       *elasticsearch.Client
	SearchIndex  string
	Logger       *slog.Logger
}

func Register(e *echo.Echo, d Deps) {
	e.Use(Common()...)
	if d.Logger != nil {
		e.Use(withLogger(d.Logger))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	gate := &Gate{Sessions: d.Sessions, DeviceSecret: d.DeviceSecret, Events: d.Events}
	auth := &AuthHandler{Sessions: d.Sessions, Client: d.Client, Events: d.Events}
	pages := &PageHandler{Sessions: d.Sessions, Search: d.Search, Index: d.SearchIndex, Events: d.Events}

	app := e.Group("", gate.Device)

	// page routes, each behind the role gate
	app.GET("/", pages.Home, gate.Page)
	app.GET("/wellness", pages.Wellness, gate.Page)
	app.GET("/campus", pages.Campus, gate.Page)
	app.GET("/peers", pages.Peers, gate.Page)
	app.GET("/profile", pages.Profile, gate.Page)
	app.GET("/settings", pages.Settings, gate.Page)
	app.GET("/admin", pages.Admin, gate.Page)
	app.GET("/counselor-dashboard", pages.CounselorDashboard, gate.Page)
	app.GET("/login", pages.Login, gate.Page)
	app.GET("/signup", pages.Signup, gate.Page)

	// auth actions answer 401/403 instead of redirecting, so they stay
	// outside the page gate and lean on the backend client's auth checks
	app.POST("/login", auth.Login)
	app.POST("/auth/otp/request", auth.RequestOTP)
	app.POST("/auth/otp/verify-signup", auth.VerifyOTPSignup)
	app.POST("/auth/otp/verify-login", auth.VerifyOTPLogin)
	app.POST("/logout", auth.Logout)
	app.PUT("/profile", auth.UpdateProfile)
	app.POST("/mood", pages.LogMood, gate.Page)
	app.POST("/admin/counselors", pages.CreateCounselor, gate.Page)
	app.POST("/admin/assign-counselor", pages.AssignCounselor, gate.Page)
}
