package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindease-app/edge/pkg/apiclient"
)

// Admin serves the admin dashboard view model: the backend's analytics
// sections aggregated into one payload, plus the user lists the management
// panels need. All sections honor the same time_filter.
func (h *PageHandler) Admin(c echo.Context) error {
	ctx := c.Request().Context()
	client := h.Sessions.Client(deviceID(c))
	filter := c.QueryParam("time_filter")

	out := echo.Map{"page": "admin", "user": currentUser(c)}

	sections := []struct {
		key   string
		fetch func() (json.RawMessage, error)
	}{
		{"stats", func() (json.RawMessage, error) { return client.DashboardStats(ctx, filter) }},
		{"mood_metrics", func() (json.RawMessage, error) { return client.MoodMetrics(ctx, filter) }},
		{"feature_usage", func() (json.RawMessage, error) { return client.FeatureUsage(ctx, filter) }},
		{"risk_assessment", func() (json.RawMessage, error) { return client.RiskAssessment(ctx, filter) }},
		{"campus_distribution", func() (json.RawMessage, error) { return client.CampusDistribution(ctx, filter) }},
		{"students_requiring_counseling", func() (json.RawMessage, error) { return client.StudentsRequiringCounseling(ctx, filter) }},
	}
	for _, s := range sections {
		raw, err := s.fetch()
		if err != nil {
			return apiError(err)
		}
		out[s.key] = raw
	}

	users, err := client.ListUsers(ctx)
	if err != nil {
		return apiError(err)
	}
	out["users"] = users

	counselors, err := client.Counselors(ctx)
	if err != nil {
		return apiError(err)
	}
	out["counselors"] = counselors

	return c.JSON(http.StatusOK, out)
}

func (h *PageHandler) CreateCounselor(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		Password   string `json:"password"`
		Username   string `json:"username"`
		University string `json:"university"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Name == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email, name and password are required")
	}

	user, err := h.Sessions.Client(deviceID(c)).CreateCounselor(ctx, apiclient.CounselorData{
		Email:      req.Email,
		Name:       req.Name,
		Password:   req.Password,
		Username:   req.Username,
		University: req.University,
	})
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// AssignCounselor pairs a student with a counselor. An empty counselor_id
// lets the backend pick the least loaded one.
func (h *PageHandler) AssignCounselor(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		StudentID   string `json:"student_id"`
		CounselorID string `json:"counselor_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.StudentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "student_id is required")
	}

	if err := h.Sessions.Client(deviceID(c)).AssignCounselor(ctx, req.StudentID, req.CounselorID); err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Counselor assigned"})
}
