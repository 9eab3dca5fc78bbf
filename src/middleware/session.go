package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/KwameAlfred37/MedFinderNew/src/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the session middleware.
const (
	ContextAccountID    = "account_id"
	ContextSessionToken = "session_token"
)

const sessionCookieName = "medfinder_session"

// Cookie lifetime for anonymous session tokens, in seconds (180 days).
const sessionCookieMaxAge = 180 * 24 * 60 * 60

// Session assigns every request a stable anonymous session token (cookie,
// created on first contact) and, when a valid Bearer token is presented,
// the authenticated account ID. Handlers resolve the two into an Identity.
func Session(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil || token == "" {
			token = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookieName, token, sessionCookieMaxAge, "/", "", false, true)
			log.Printf("INFO: [Session] Assigned new anonymous session %s to %s", token, c.ClientIP())
		}
		c.Set(ContextSessionToken, token)

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				if accountID, parseErr := auth.ParseToken(parts[1]); parseErr == nil {
					c.Set(ContextAccountID, accountID)
				} else {
					// An invalid token downgrades the request to anonymous
					// rather than rejecting it; protected handlers enforce
					// authentication themselves.
					log.Printf("WARN: [Session] Rejected bearer token from %s: %v", c.ClientIP(), parseErr)
				}
			}
		}

		c.Next()
	}
}

// IdentityFrom resolves the request's Identity from the values the Session
// middleware stored on the context.
func IdentityFrom(c *gin.Context) services.Identity {
	return services.ResolveIdentity(c.GetString(ContextAccountID), c.GetString(ContextSessionToken))
}

// RequireAccount aborts with 401 unless the request carries a valid account
// token.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextAccountID) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}
		c.Next()
	}
}
