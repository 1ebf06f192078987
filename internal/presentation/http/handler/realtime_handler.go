package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/session"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/response"
)

// SessionResolver turns an access token into a session
type SessionResolver interface {
	SessionFromToken(token string) (session.Session, error)
}

// Upgrader registers a websocket connection
type Upgrader interface {
	Serve(w http.ResponseWriter, r *http.Request) error
}

// RealtimeHandler upgrades authenticated clients to the event stream
type RealtimeHandler struct {
	resolver SessionResolver
	hub      Upgrader
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(resolver SessionResolver, hub Upgrader) *RealtimeHandler {
	return &RealtimeHandler{resolver: resolver, hub: hub}
}

// Connect upgrades the request to a websocket. Browsers cannot set headers
// on the handshake, so the token comes in the query string.
// @Summary Event stream
// @Tags realtime
// @Param token query string true "Access token"
// @Success 101
// @Failure 401 {object} response.APIResponse
// @Router /ws [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Unauthorized(c, "token query parameter is required")
		return
	}
	sess, err := h.resolver.SessionFromToken(token)
	if err != nil {
		response.Unauthorized(c, "Invalid or expired token")
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request); err != nil {
		// the upgrader has already written the error response
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Str("user_id", sess.UserID.String()).Msg("websocket upgrade failed")
	}
}
