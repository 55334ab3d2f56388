package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/auth"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the request and auth logger
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Context keys set by Authenticate
const (
	ContextUserID   = "userID"
	ContextUser     = "user"
	ContextIsAdmin  = "isAdmin"
	ContextClientID = "clientID"
	ContextAuthType = "auth_type"
)

// SessionCookie carries the identity provider token for browser clients
const SessionCookie = "session"

// Authenticate resolves the caller from a Bearer token or the session cookie.
// Identity provider tokens upsert the local user mirror; our own access tokens
// must name an existing user. The user row is reloaded on every request so
// the admin flag is always current.
func Authenticate(verifier auth.TokenVerifier, users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := extractToken(c)
		if !ok {
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			log.WithError(err).WithField("path", c.Request.URL.Path).Debug("Token rejected")
			respondWithOAuth2Error(c, http.StatusUnauthorized, models.ErrInvalidToken, "Token is invalid or expired")
			return
		}

		user, err := resolveUser(c, identity, users)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				respondWithOAuth2Error(c, http.StatusUnauthorized, models.ErrInvalidToken, "Token subject is not a known user")
				return
			}
			log.WithError(err).WithField("subject", identity.Subject).Error("Failed to load user")
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				models.NewAPIError(models.ErrInternalServer, "Failed to load user"))
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Set(ContextIsAdmin, user.IsAdmin)
		if identity.External {
			c.Set(ContextAuthType, "oidc")
		} else {
			c.Set(ContextAuthType, "oauth2")
			c.Set(ContextClientID, identity.ClientID)
		}

		c.Next()
	}
}

func resolveUser(c *gin.Context, identity *auth.Identity, users services.UserService) (*models.User, error) {
	if !identity.External {
		return users.GetUserByID(c.Request.Context(), identity.Subject)
	}
	return users.UpsertUser(c.Request.Context(), &models.User{
		ID:              identity.Subject,
		Email:           identity.Email,
		FirstName:       identity.FirstName,
		LastName:        identity.LastName,
		ProfileImageURL: identity.Picture,
	})
}

// extractToken reads the Bearer token, falling back to the session cookie.
// It writes the 401 itself when neither is usable.
func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		// RFC 6750
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_request",
				"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", "Bearer token is empty")
			return "", false
		}
		return token, true
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, true
	}

	respondWithOAuth2Error(c, http.StatusUnauthorized, "authorization_required",
		"Missing Authorization header. A valid Bearer token is required.")
	return "", false
}

// respondWithOAuth2Error responds with RFC 6750 compliant error format
func respondWithOAuth2Error(c *gin.Context, status int, errorCode, description string) {
	c.Header("WWW-Authenticate", `Bearer error="`+errorCode+`"`)
	c.AbortWithStatusJSON(status, models.NewOAuth2Error(errorCode, description))
}

// CurrentUser returns the user stored by Authenticate
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
