package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/security"
)

const clientIDKey = "clientID"

// SessionConfig configures the client identity cookie.
type SessionConfig struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Secure     bool
}

// ClientSessionMiddleware identifies the browser by a signed cookie carrying
// a client ID. A missing or invalid cookie gets a fresh ID, which starts the
// client with default theme and zero counters.
func ClientSessionMiddleware(cfg SessionConfig, logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cfg.CookieName); err == nil && token != "" {
			if clientID, err := security.ClientIDFromToken(token, cfg.Secret); err == nil {
				c.Set(clientIDKey, clientID)
				c.Next()
				return
			}
			logger.Session().Debug("Discarding invalid session cookie", "path", c.Request.URL.Path)
		}

		clientID := security.GenerateULID()
		token, err := security.GenerateClientToken(clientID, cfg.Secret, cfg.TTL)
		if err != nil {
			logger.LogError(logging.ChannelSession, "issue session cookie", err, clientID, nil)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, token, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
		logger.Session().Info("Issued new client identity", "sessionId", clientID)

		c.Set(clientIDKey, clientID)
		c.Next()
	}
}

// GetClientID returns the client ID established by ClientSessionMiddleware.
func GetClientID(c *gin.Context) (string, bool) {
	value, exists := c.Get(clientIDKey)
	if !exists {
		return "", false
	}
	clientID, ok := value.(string)
	return clientID, ok && clientID != ""
}
