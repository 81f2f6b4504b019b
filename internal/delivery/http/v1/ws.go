package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleNotificationsWS upgrades an authenticated request to a
// websocket subscribed to due-task events.
func (h *handlerImpl) HandleNotificationsWS(c *gin.Context) {
	if _, ok := getStringFromContext(c, userIDCtxKey); !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	err := h.notifier.Subscribe(c.Writer, c.Request)
	if err != nil {
		// Subscribe already wrote the handshake failure.
		c.Abort()
		return
	}
}
