package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/vakit-app/vakit/internal/db"
	"github.com/vakit-app/vakit/internal/model"
)

const currentDeviceKey = "currentDevice"

// GenerateDeviceToken signs a token embedding the device ID in the "sub"
// claim. Devices are long-lived installs, so the token lasts 30 days;
// re-registering is cheap when it expires.
func GenerateDeviceToken(deviceID int, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": deviceID,
		"exp": time.Now().Add(30 * 24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// parseToken verifies the JWT and returns the device ID.
func parseToken(tokenString, secret string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("invalid sub claim")
	}
	return int(sub), nil
}

// DeviceAuth checks "Authorization: Bearer <token>", verifies it, loads
// the device and sets it in the context.
func DeviceAuth(secret string, store db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth header"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth header"})
			return
		}

		deviceID, err := parseToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		device, err := store.GetDeviceByID(deviceID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "device not found"})
			return
		}
		c.Set(currentDeviceKey, device)
		c.Next()
	}
}

// GetCurrentDevice pulls the authenticated device out of the context.
func GetCurrentDevice(c *gin.Context) (*model.Device, bool) {
	v, ok := c.Get(currentDeviceKey)
	if !ok {
		return nil, false
	}
	device, ok := v.(*model.Device)
	return device, ok
}
