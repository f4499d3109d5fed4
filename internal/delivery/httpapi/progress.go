package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

func (h *Handler) getProgress(c *gin.Context) {
	summary, err := h.progression.GetProgress(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	success(c, summary)
}

type masteryResponse struct {
	*entities.WordMastery
	Learned bool `json:"learned"`
}

func (h *Handler) getMastery(c *gin.Context) {
	wordID, ok := h.wordID(c)
	if !ok {
		return
	}

	m, err := h.progression.WordMastery(c.Request.Context(), currentUserID(c), wordID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	success(c, masteryResponse{WordMastery: m, Learned: m.IsLearned()})
}

func (h *Handler) listAchievements(c *gin.Context) {
	list, err := h.progression.ListAchievements(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	success(c, gin.H{"achievements": list})
}
