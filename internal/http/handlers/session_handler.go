// README: Session handlers for history and current results.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roam/internal/modules/convo"
	"roam/internal/modules/intent"
	"roam/internal/types"
)

type SessionHandler struct {
	convo *convo.Service
}

func NewSessionHandler(convoSvc *convo.Service) *SessionHandler {
	return &SessionHandler{convo: convoSvc}
}

type turnView struct {
	ID       types.ID    `json:"id"`
	Caption  string      `json:"caption"`
	Kind     intent.Kind `json:"kind"`
	Results  int         `json:"results"`
	Enriched bool        `json:"enriched"`
}

// History handles GET /api/sessions/:id/history.
func (h *SessionHandler) History(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing session id")
		return
	}

	sess := h.convo.Session(types.ID(id))
	turns := sess.History.Turns()
	views := make([]turnView, 0, len(turns))
	for _, t := range turns {
		views = append(views, turnView{
			ID:       t.ID,
			Caption:  t.Caption,
			Kind:     t.Kind,
			Results:  len(t.Candidates),
			Enriched: t.DetailsList != nil,
		})
	}
	writeJSON(c, http.StatusOK, gin.H{"session_id": sess.ID, "turns": views})
}

// Suggest handles GET /api/sessions/:id/suggest.
func (h *SessionHandler) Suggest(c *gin.Context) {
	id := c.Param("id")
	text := c.Query("q")
	if id == "" || text == "" {
		writeError(c, http.StatusBadRequest, "missing session id or query")
		return
	}

	sess := h.convo.Session(types.ID(id))
	candidates, err := h.convo.Suggest(c.Request.Context(), sess, text)
	if err != nil {
		writeChatError(c, err)
		return
	}

	type suggestion struct {
		PlaceID types.ID `json:"place_id"`
		Name    string   `json:"name"`
	}
	out := make([]suggestion, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, suggestion{PlaceID: cand.PlaceID, Name: cand.Name})
	}
	writeJSON(c, http.StatusOK, gin.H{"session_id": sess.ID, "suggestions": out})
}

// Results handles GET /api/sessions/:id/results.
func (h *SessionHandler) Results(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing session id")
		return
	}

	sess := h.convo.Session(types.ID(id))
	results, err := h.convo.Results(sess)
	if err != nil {
		writeChatError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"session_id": sess.ID, "results": results})
}
