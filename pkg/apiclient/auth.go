package apiclient

import (
	"context"
	"net/http"

	"github.com/mindease-app/edge/internal/models"
)

// SessionPayload is returned by login and OTP verification. The client does
// not persist it; the session resolver does.
type SessionPayload struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *models.User `json:"user"`
}

type SignupData struct {
	Name       string `json:"name"`
	Username   string `json:"username,omitempty"`
	University string `json:"university,omitempty"`
	Password   string `json:"password,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*SessionPayload, error) {
	var res SessionPayload
	err := c.do(ctx, http.MethodPost, "/auth/login/", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// RequestOTP asks the backend to mail a one-time code. Purpose is one of
// "login", "signup" or "password_reset".
func (c *Client) RequestOTP(ctx context.Context, email, purpose string) error {
	return c.do(ctx, http.MethodPost, "/auth/otp/request/", nil, map[string]string{
		"email":   email,
		"purpose": purpose,
	}, nil)
}

func (c *Client) VerifyOTPSignup(ctx context.Context, email, code string, data SignupData) (*SessionPayload, error) {
	body := map[string]string{
		"email":    email,
		"otp_code": code,
		"name":     data.Name,
	}
	if data.Username != "" {
		body["username"] = data.Username
	}
	if data.University != "" {
		body["university"] = data.University
	}
	if data.Password != "" {
		body["password"] = data.Password
	}

	var res SessionPayload
	if err := c.do(ctx, http.MethodPost, "/auth/otp/verify-signup/", nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) VerifyOTPLogin(ctx context.Context, email, code string) (*SessionPayload, error) {
	var res SessionPayload
	err := c.do(ctx, http.MethodPost, "/auth/otp/verify-login/", nil, map[string]string{
		"email":    email,
		"otp_code": code,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doAuth(ctx, http.MethodGet, "/auth/profile/", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type ProfileUpdate struct {
	Name       string `json:"name,omitempty"`
	Username   string `json:"username,omitempty"`
	University string `json:"university,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.doAuth(ctx, http.MethodPut, "/auth/profile/update/", nil, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the session server side. Callers treat failures as
// best-effort; local token state is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.doAuth(ctx, http.MethodPost, "/auth/logout/", nil, nil, nil)
}
