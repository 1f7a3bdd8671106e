package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindease-app/edge/internal/events"
	"github.com/mindease-app/edge/internal/logging"
	"github.com/mindease-app/edge/internal/routing"
	"github.com/mindease-app/edge/internal/session"
	"github.com/mindease-app/edge/pkg/apiclient"
)

type AuthHandler struct {
	Sessions *session.Manager
	Client   *apiclient.Client
	Events   *events.Producer
}

// apiError maps client failures onto user-facing responses. Explicit user
// actions surface the backend's own message inline; infrastructure failures
// get a generic one.
func apiError(err error) error {
	var reqErr *apiclient.RequestError
	switch {
	case errors.As(err, &reqErr):
		return echo.NewHTTPError(reqErr.Status, reqErr.Message)
	case errors.Is(err, apiclient.ErrUnauthenticated), errors.Is(err, apiclient.ErrSessionExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "Session expired. Please login again.")
	case errors.Is(err, apiclient.ErrNetworkUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Cannot connect to server. Please check your connection and try again.")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	payload, err := h.Client.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return apiError(err)
	}

	return h.establish(c, payload, req.Role)
}

func (h *AuthHandler) RequestOTP(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email   string `json:"email"`
		Purpose string `json:"purpose"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}
	if req.Purpose == "" {
		req.Purpose = "signup"
	}

	if err := h.Client.RequestOTP(ctx, req.Email, req.Purpose); err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent"})
}

func (h *AuthHandler) VerifyOTPSignup(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email      string `json:"email"`
		OTPCode    string `json:"otp_code"`
		Name       string `json:"name"`
		Username   string `json:"username"`
		University string `json:"university"`
		Password   string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.OTPCode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and code are required")
	}

	payload, err := h.Client.VerifyOTPSignup(ctx, req.Email, req.OTPCode, apiclient.SignupData{
		Name:       req.Name,
		Username:   req.Username,
		University: req.University,
		Password:   req.Password,
	})
	if err != nil {
		return apiError(err)
	}
	return h.establish(c, payload, "")
}

func (h *AuthHandler) VerifyOTPLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email   string `json:"email"`
		OTPCode string `json:"otp_code"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.OTPCode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and code are required")
	}

	payload, err := h.Client.VerifyOTPLogin(ctx, req.Email, req.OTPCode)
	if err != nil {
		return apiError(err)
	}
	return h.establish(c, payload, "")
}

// establish persists a fresh session payload for this device and answers
// with the user's role-home redirect.
func (h *AuthHandler) establish(c echo.Context, payload *apiclient.SessionPayload, wantRole string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establish_session")

	if payload.Access == "" || payload.User == nil {
		l.Error("session_payload_incomplete")
		return echo.NewHTTPError(http.StatusBadGateway, "incomplete session payload")
	}
	if wantRole != "" && payload.User.Role != wantRole {
		return echo.NewHTTPError(http.StatusForbidden,
			fmt.Sprintf("This account is not a %s account", wantRole))
	}

	resolver := h.Sessions.For(deviceID(c))
	snap, err := resolver.Establish(ctx, payload.Access, payload.Refresh)
	if err != nil {
		l.Error("establish_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if snap.State != session.StateAuthenticated {
		return echo.NewHTTPError(http.StatusUnauthorized, "Session expired. Please login again.")
	}

	publishAsync(c, h.Events, events.Event{
		DeviceID: deviceID(c),
		UserID:   snap.User.ID,
		Role:     snap.User.Role,
		Kind:     events.KindLogin,
	})
	l.Info("login_successful", "role", snap.User.Role)

	return c.JSON(http.StatusOK, echo.Map{
		"user":     snap.User,
		"redirect": routing.RoleHome(snap.User.Role),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "logout")

	resolver := h.Sessions.For(deviceID(c))
	snap := resolver.Snapshot()
	resolver.SignOut(ctx)

	e := events.Event{DeviceID: deviceID(c), Kind: events.KindLogout}
	if snap.User != nil {
		e.UserID = snap.User.ID
		e.Role = snap.User.Role
	}
	publishAsync(c, h.Events, e)
	l.Info("logout_successful")

	// the resolver holds nothing useful after sign-out; the next request
	// recreates it
	h.Sessions.Drop(deviceID(c))

	return c.Redirect(http.StatusSeeOther, routing.LoginPath)
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name       string `json:"name"`
		Username   string `json:"username"`
		University string `json:"university"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	client := h.Sessions.Client(deviceID(c))
	user, err := client.UpdateProfile(ctx, apiclient.ProfileUpdate{
		Name:       req.Name,
		Username:   req.Username,
		University: req.University,
	})
	if err != nil {
		return apiError(err)
	}

	// re-derive the current-user snapshot from the updated profile
	h.Sessions.For(deviceID(c)).Refresh(ctx)

	return c.JSON(http.StatusOK, user)
}

