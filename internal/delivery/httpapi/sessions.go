package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
	"github.com/aliskhannn/vocab-quest/internal/service"
)

type submitSessionRequest struct {
	SessionToken     string                `json:"session_token"`
	GameType         string                `json:"game_type"`
	TotalQuestions   int                   `json:"total_questions"`
	CorrectAnswers   *int                  `json:"correct_answers"`
	TimeSpentSeconds int                   `json:"time_spent_seconds"`
	WordsLearned     *int                  `json:"words_learned"`
	Results          []entities.WordResult `json:"results"`
}

func (h *Handler) submitSession(c *gin.Context) {
	var req submitSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	res, err := h.sessions.Ingest(c.Request.Context(), service.IngestRequest{
		UserID:           currentUserID(c),
		SessionToken:     req.SessionToken,
		GameType:         req.GameType,
		TotalQuestions:   req.TotalQuestions,
		CorrectAnswers:   req.CorrectAnswers,
		TimeSpentSeconds: req.TimeSpentSeconds,
		WordsLearned:     req.WordsLearned,
		Results:          req.Results,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	if res.Duplicate {
		success(c, res)
		return
	}
	created(c, res)
}

func (h *Handler) listSessions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(c, entities.InvalidInput("limit", "must be a non-negative integer"))
			return
		}
		limit = n
	}

	list, err := h.sessions.History(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	success(c, gin.H{"sessions": list})
}
