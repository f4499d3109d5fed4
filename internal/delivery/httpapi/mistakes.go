package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

type recordMistakeRequest struct {
	WordID int64 `json:"word_id"`
}

type adjustMistakeRequest struct {
	Action entities.MistakeAction `json:"action"`
	Value  int                    `json:"value"`
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) wordID(c *gin.Context) (int64, bool) {
	id, ok := parseID(c, "wordID")
	if !ok {
		h.writeError(c, entities.InvalidInput("word_id", "must be a positive integer"))
	}
	return id, ok
}

func (h *Handler) listMistakes(c *gin.Context) {
	list, err := h.mistakes.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	if list == nil {
		list = []*entities.MistakeEntry{}
	}
	success(c, gin.H{"mistakes": list})
}

func (h *Handler) recordMistake(c *gin.Context) {
	var req recordMistakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	n, err := h.mistakes.Record(c.Request.Context(), currentUserID(c), req.WordID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	success(c, gin.H{"word_id": req.WordID, "mistakes": n})
}

func (h *Handler) mistakeExists(c *gin.Context) {
	wordID, ok := h.wordID(c)
	if !ok {
		return
	}

	exists, err := h.mistakes.Exists(c.Request.Context(), currentUserID(c), wordID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	success(c, gin.H{"word_id": wordID, "exists": exists})
}

func (h *Handler) adjustMistake(c *gin.Context) {
	wordID, ok := h.wordID(c)
	if !ok {
		return
	}

	var req adjustMistakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	n, found, err := h.mistakes.Adjust(c.Request.Context(), currentUserID(c), wordID, entities.MistakeAdjustment{
		Action: req.Action,
		Value:  req.Value,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	success(c, gin.H{"word_id": wordID, "mistakes": n, "found": found})
}

func (h *Handler) removeMistake(c *gin.Context) {
	wordID, ok := h.wordID(c)
	if !ok {
		return
	}

	removed, err := h.mistakes.Remove(c.Request.Context(), currentUserID(c), wordID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	success(c, gin.H{"word_id": wordID, "removed": removed})
}

func (h *Handler) clearMistakes(c *gin.Context) {
	n, err := h.mistakes.ClearAll(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	success(c, gin.H{"deleted_count": n})
}
