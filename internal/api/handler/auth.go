package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"

	"beeb/backend/internal/session"
)

const sessionKey = "beebSession"

// generateJWT signs a token carrying the anonymous session id.
func (h *Handler) generateJWT(anonID string) (string, error) {
	claims := jwt.MapClaims{
		"anon_id": anonID,
		"exp":     time.Now().Add(h.JWTTTL).Unix(),
		"iss":     "beeb-service",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}

// validateAndGetAnonID checks the signature and expiry and extracts the
// anonymous id.
func (h *Handler) validateAndGetAnonID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	anonID, ok := claims["anon_id"].(string)
	if !ok || anonID == "" {
		return "", errors.New("anon_id missing")
	}
	return anonID, nil
}

// CreateSession mints an anonymous id and returns a JWT for it. There is no
// identity behind it; it only keys the in-memory session.
func (h *Handler) CreateSession(c *gin.Context) {
	anonUUID, _ := uuid.NewRandom()
	anonID := anonUUID.String()

	token, err := h.generateJWT(anonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	h.Registry.GetOrCreate(anonID)
	c.JSON(http.StatusOK, gin.H{"token": token, "anon_id": anonID})
}

// bearerToken pulls the token out of the Authorization header, falling back
// to the query string for websocket upgrades.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

// Authenticated resolves the bearer token into a session controller and
// stores it on the request context.
func (h *Handler) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		anonID, err := h.validateAndGetAnonID(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set(sessionKey, h.Registry.GetOrCreate(anonID))
		c.Next()
	}
}

// sessionFrom fetches the controller stored by Authenticated.
func sessionFrom(c *gin.Context) *session.Controller {
	return c.MustGet(sessionKey).(*session.Controller)
}
