package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/mindease-app/edge/internal/models"
)

// Admin analytics payloads are computed and shaped by the backend; the edge
// forwards them verbatim, so they stay raw JSON here.

func (c *Client) adminGet(ctx context.Context, path, timeFilter string) (json.RawMessage, error) {
	var q url.Values
	if timeFilter != "" {
		q = url.Values{"time_filter": []string{timeFilter}}
	}

	var raw json.RawMessage
	if err := c.doAuth(ctx, http.MethodGet, path, q, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) DashboardStats(ctx context.Context, timeFilter string) (json.RawMessage, error) {
	return c.adminGet(ctx, "/admin/stats/", timeFilter)
}

func (c *Client) MoodMetrics(ctx context.Context, timeFilter string) (json.RawMessage, error) {
	return c.adminGet(ctx, "/admin/mood-metrics/", timeFilter)
}

func (c *Client) FeatureUsage(ctx context.Context, timeFilter string) (json.RawMessage, error) {
	return c.adminGet(ctx, "/admin/feature-usage/", timeFilter)
}

func (c *Client) RiskAssessment(ctx context.Context, timeFilter string) (json.RawMessage, error) {
	return c.adminGet(ctx, "/admin/risk-assessment/", timeFilter)
}

func (c *Client) CampusDistribution(ctx context.Context, timeFilter string) (json.RawMessage, error) {
	return c.adminGet(ctx, "/admin/campus-distribution/", timeFilter)
}

func (c *Client) StudentsRequiringCounseling(ctx context.Context, timeFilter string) (json.RawMessage, error) {
	return c.adminGet(ctx, "/admin/students-requiring-counseling/", timeFilter)
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doAuth(ctx, http.MethodGet, "/auth/users/", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Counselors(ctx context.Context) ([]models.User, error) {
	var counselors []models.User
	if err := c.doAuth(ctx, http.MethodGet, "/admin/counselors/", nil, nil, &counselors); err != nil {
		return nil, err
	}
	return counselors, nil
}

type CounselorData struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Username   string `json:"username,omitempty"`
	University string `json:"university,omitempty"`
}

func (c *Client) CreateCounselor(ctx context.Context, data CounselorData) (*models.User, error) {
	var user models.User
	if err := c.doAuth(ctx, http.MethodPost, "/auth/create-counselor/", nil, data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) AssignCounselor(ctx context.Context, studentID, counselorID string) error {
	body := map[string]string{"student_id": studentID}
	if counselorID != "" {
		body["counselor_id"] = counselorID
	}
	return c.doAuth(ctx, http.MethodPost, "/admin/assign-counselor/", nil, body, nil)
}
