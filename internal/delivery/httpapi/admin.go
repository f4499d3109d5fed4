package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

type grantXPRequest struct {
	Amount int64 `json:"amount"`
}

// grantXP awards out-of-band XP, e.g. event bonuses, bypassing session ingestion.
func (h *Handler) grantXP(c *gin.Context) {
	userID, ok := parseID(c, "userID")
	if !ok {
		h.writeError(c, entities.InvalidInput("user_id", "must be a positive integer"))
		return
	}

	var req grantXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	res, err := h.progression.GrantXP(c.Request.Context(), userID, req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.Info("xp granted",
		zap.Int64("admin_id", currentUserID(c)),
		zap.Int64("user_id", userID),
		zap.Int64("amount", req.Amount),
	)
	success(c, res)
}
