package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/SscSPs/budget_tracker_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type sessionHandler struct {
	sessions portssvc.SessionSvcFacade
}

func newSessionHandler(sessions portssvc.SessionSvcFacade) *sessionHandler {
	return &sessionHandler{sessions: sessions}
}

func registerSessionRoutes(rg *gin.RouterGroup, sessions portssvc.SessionSvcFacade) {
	h := newSessionHandler(sessions)

	session := rg.Group("/session")
	{
		session.POST("/logout", h.logout)
	}
}

// logout godoc
// @Summary End the ledger session
// @Description Stops the scheduled rate refresh and billing checks of the caller's session
// @Tags session
// @Produce  json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /session/logout [post]
func (h *sessionHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	closed := h.sessions.Close(c.Request.Context(), userID)
	logger.Info("Logout processed", slog.Bool("session_closed", closed))
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}
