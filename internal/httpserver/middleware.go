package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/mindease-app/edge/internal/events"
	"github.com/mindease-app/edge/internal/logging"
	"github.com/mindease-app/edge/internal/models"
	"github.com/mindease-app/edge/internal/routing"
	"github.com/mindease-app/edge/internal/session"
)

const (
	CtxDeviceID = "device_id"
	CtxUser     = "user"
)

func Common() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		ecM.Logger(),
		ecM.Secure(),
	}
}

// withLogger carries the process logger, tagged with the request ID, into the
// request context for handlers and downstream services.
func withLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
			return next(c)
		}
	}
}

type Gate struct {
	Sessions     *session.Manager
	DeviceSecret []byte
	Events       *events.Producer
}

// Device establishes the per-browser identity every other layer keys on.
func (g *Gate) Device(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := ensureDevice(c, g.DeviceSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "device identity error")
		}
		c.Set(CtxDeviceID, id)
		return next(c)
	}
}

// Page applies the role gate to a page route: the session is resolved to a
// terminal state first, then the declarative decision runs. Redirects use
// 303 so the disallowed URL never becomes a resubmittable history entry.
func (g *Gate) Page(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		deviceID, _ := c.Get(CtxDeviceID).(string)
		route, ok := routing.Lookup(c.Path())
		if !ok {
			route = routing.Route{Path: c.Path()}
		}

		snap := g.Sessions.For(deviceID).Resolve(c.Request().Context())
		decision := routing.Decide(snap, route)

		switch decision.Outcome {
		case routing.OutcomeLoading:
			return c.JSON(http.StatusOK, echo.Map{"status": "loading"})
		case routing.OutcomeRedirectLogin, routing.OutcomeRedirectHome:
			return c.Redirect(http.StatusSeeOther, decision.Target)
		}

		c.Set(CtxUser, snap.User)
		g.publishPageView(c, deviceID, snap.User)
		return next(c)
	}
}

func (g *Gate) publishPageView(c echo.Context, deviceID string, user *models.User) {
	e := events.Event{
		DeviceID: deviceID,
		Kind:     events.KindPageView,
		Path:     c.Path(),
	}
	if user != nil {
		e.UserID = user.ID
		e.Role = user.Role
	}
	publishAsync(c, g.Events, e)
}

// publishAsync fires an engagement event without holding up the response.
// Delivery failures are logged, never surfaced.
func publishAsync(c echo.Context, p *events.Producer, e events.Event) {
	l := logging.FromContext(c.Request().Context())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, e); err != nil {
			l.Warn("event_publish_failed", "kind", e.Kind, "error", err)
		}
	}()
}

func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(CtxUser).(*models.User)
	return u
}

func deviceID(c echo.Context) string {
	id, _ := c.Get(CtxDeviceID).(string)
	return id
}
