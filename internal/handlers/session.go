package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/textlens/textlens-api/internal/apierror"
	"github.com/textlens/textlens-api/internal/logger"
	"github.com/textlens/textlens-api/internal/token"
)

// SessionHandler issues session tokens and guards the analysis routes.
type SessionHandler struct {
	manager *token.Manager
	logger  *logger.Logger
}

func NewSessionHandler(log *logger.Logger, manager *token.Manager) *SessionHandler {
	if log == nil {
		log = logger.Production()
	}
	return &SessionHandler{
		manager: manager,
		logger:  log,
	}
}

// CreateSession handles GET /api/session. No auth required.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sess, err := h.manager.Issue()
	if err != nil {
		h.logger.Error("Failed to issue session token", "error", err)
		apierror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": sess.Token})
}

// RequireSession verifies the bearer credential before protected handlers
// run. A missing header or a non-bearer scheme counts as a missing token.
func (h *SessionHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			apierror.Abort(c, err)
			return
		}

		if err := h.manager.Verify(c.Request.Context(), raw); err != nil {
			h.logger.Warn("Session verification failed", "error", err)
			apierror.Abort(c, err)
			return
		}

		c.Next()
	}
}

// RevokeSession handles DELETE /api/session. Registered only when a
// revocation store is configured.
func (h *SessionHandler) RevokeSession(c *gin.Context) {
	raw, err := bearerToken(c)
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	if err := h.manager.Revoke(c.Request.Context(), raw); err != nil {
		h.logger.Error("Failed to revoke session", "error", err)
		apierror.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", token.ErrMissingToken
	}

	raw, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return "", token.ErrMissingToken
	}

	return strings.TrimSpace(raw), nil
}
