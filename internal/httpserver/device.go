package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// The edge identifies each browser with a signed device cookie. The device
// ID scopes token storage, standing in for the browser's local storage.

const (
	deviceCookieName = "mindease_device"
	deviceCookieTTL  = 180 * 24 * time.Hour
)

func deviceIDFromToken(tokenStr string, secret []byte) (string, error) {
	var claims jwt.RegisteredClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", errors.New("invalid device token")
	}
	return claims.Subject, nil
}

func signDeviceToken(deviceID string, secret []byte, exp time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   deviceID,
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func createCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ensureDevice returns the device ID for the request, minting a new identity
// and cookie on first contact.
func ensureDevice(c echo.Context, secret []byte) (string, error) {
	if cookie, err := c.Cookie(deviceCookieName); err == nil && cookie.Value != "" {
		if id, err := deviceIDFromToken(cookie.Value, secret); err == nil {
			return id, nil
		}
	}

	id := uuid.NewString()
	exp := time.Now().Add(deviceCookieTTL)
	token, err := signDeviceToken(id, secret, exp)
	if err != nil {
		return "", err
	}
	c.SetCookie(createCookie(deviceCookieName, token, "/", exp))
	return id, nil
}
