// README: Chat handler (quota-guarded caption pipeline).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"roam/internal/modules/convo"
	"roam/internal/modules/usage"
	"roam/internal/types"
)

type ChatHandler struct {
	convo *convo.Service
	usage *usage.Service
}

func NewChatHandler(convoSvc *convo.Service, usageSvc *usage.Service) *ChatHandler {
	return &ChatHandler{convo: convoSvc, usage: usageSvc}
}

type chatReq struct {
	SessionID       string `json:"session_id"`
	Caption         string `json:"caption"`
	SelectedPlaceID string `json:"selected_place_id"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.Caption = strings.TrimSpace(req.Caption)
	if req.Caption == "" {
		writeError(c, http.StatusBadRequest, "missing caption")
		return
	}

	sess := h.convo.Session(types.ID(req.SessionID))
	if err := h.usage.UseLookup(c.Request.Context(), sess.ID); err != nil {
		writeChatError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	turn, err := h.convo.HandleCaption(ctx, sess, req.Caption, types.ID(req.SelectedPlaceID))
	if err != nil {
		writeChatError(c, err)
		return
	}

	results, err := h.convo.Results(sess)
	if err != nil {
		writeChatError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, gin.H{
		"session_id": sess.ID,
		"intent_id":  turn.ID,
		"kind":       turn.Kind,
		"results":    results,
	})
}
