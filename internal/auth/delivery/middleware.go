package delivery

import (
	"net/http"
	"strings"
	"time"

	"dairytale/internal/auth/usecase"
	"dairytale/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	CookieName   = "dairytale_profile"
	ProfileIDKey = "profileID"
)

// ProfileMiddleware resolves the caller's profile from the profile cookie or a
// Bearer token. A missing or invalid token is not an error: a new profile is
// issued and the cookie is (re)set, the way a fresh browser starts with empty
// local storage.
func ProfileMiddleware(profileUsecase usecase.ProfileUsecase, log *logger.Logger) gin.HandlerFunc {
	log = log.With("component", "ProfileMiddleware")
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			profile, err := profileUsecase.Validate(c.Request.Context(), token)
			if err == nil {
				c.Set(ProfileIDKey, profile.ID)
				c.Next()
				return
			}
			log.Debug("discarding profile token", "error", err)
		}

		issued, err := profileUsecase.Issue(c.Request.Context())
		if err != nil {
			log.Error("failed to issue profile", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
			c.Abort()
			return
		}

		maxAge := int(time.Until(issued.ExpiresAt).Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, issued.Token, maxAge, "/", "", false, true)
		c.Set(ProfileIDKey, issued.Profile.ID)
		c.Next()
	}
}

// ProfileID returns the profile resolved by ProfileMiddleware
func ProfileID(c *gin.Context) string {
	return c.GetString(ProfileIDKey)
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}
