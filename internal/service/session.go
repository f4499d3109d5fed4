package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Upper bounds for a single session report.
const (
	MaxSessionQuestions = 10_000
	MaxSessionSeconds   = 24 * 60 * 60
)

// IngestRequest is a finished game session as reported by the client.
// Pointer fields distinguish "absent" from zero.
type IngestRequest struct {
	UserID           int64
	SessionToken     string
	GameType         string
	TotalQuestions   int
	CorrectAnswers   *int
	TimeSpentSeconds int
	WordsLearned     *int
	Results          []entities.WordResult
}

// IngestResult is returned for both fresh and replayed submissions.
type IngestResult struct {
	SessionID      int64              `json:"session_id"`
	XPEarned       int64              `json:"xp_earned"`
	CorrectAnswers int                `json:"correct_answers"`
	Duplicate      bool               `json:"duplicate"`
	WordsMastered  int                `json:"words_mastered"`
	MistakesAdded  int                `json:"mistakes_recorded"`
	SkippedResults int                `json:"skipped_results"`
	Level          entities.LevelInfo `json:"level"`
}

type SessionService struct {
	tr           Transactor
	sessions     SessionRepository
	metrics      Metrics
	logger       *zap.Logger
	allowedTypes map[string]struct{}
	now          func() time.Time
}

// NewSessionService creates the session ingester. An empty allowedTypes
// accepts any non-empty game type.
func NewSessionService(
	tr Transactor,
	sessions SessionRepository,
	metrics Metrics,
	logger *zap.Logger,
	allowedTypes []string,
) *SessionService {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		if t = strings.TrimSpace(t); t != "" {
			allowed[t] = struct{}{}
		}
	}

	return &SessionService{
		tr:           tr,
		sessions:     sessions,
		metrics:      metrics,
		logger:       logger,
		allowedTypes: allowed,
		now:          time.Now,
	}
}

// Ingest records a finished session: it appends the session row, credits XP
// and counters to the ledger, bumps mastery for every correct word and queues
// every missed word for practice, all in one transaction. A token that was
// already processed returns the stored outcome without applying anything.
func (s *SessionService) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	start := s.now()
	gameType := strings.TrimSpace(req.GameType)

	token, err := s.validate(req, gameType)
	if err != nil {
		s.metrics.SessionIngested(GameTypeInvalid, OutcomeInvalid, time.Since(start))
		return nil, err
	}
	label := s.gameTypeLabel(gameType)

	correct := *req.CorrectAnswers
	wordsLearned := countCorrectWords(req.Results)
	if req.WordsLearned != nil {
		wordsLearned = *req.WordsLearned
	}

	session := entities.NewGameSession(token, req.UserID, gameType, req.TotalQuestions, correct, wordsLearned, req.TimeSpentSeconds)
	session.CreatedAt = start

	var result IngestResult
	err = s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		result = IngestResult{}

		created, err := repos.Sessions.Create(ctx, session)
		if err != nil {
			return err
		}
		if !created {
			return s.replay(ctx, repos, req.UserID, token, &result)
		}

		_, info, err := applyProgress(ctx, repos.Progress, req.UserID, entities.ProgressDelta{
			GamesPlayed:    1,
			CorrectAnswers: correct,
			XP:             session.XPEarned,
		})
		if err != nil {
			return err
		}

		for _, r := range req.Results {
			if r.WordID == nil || *r.WordID <= 0 {
				result.SkippedResults++
				continue
			}

			if r.WasCorrect {
				if _, err := repos.Mastery.RecordCorrect(ctx, req.UserID, *r.WordID, start); err != nil {
					return err
				}
				result.WordsMastered++
				continue
			}

			if _, err := repos.Mistakes.Record(ctx, req.UserID, *r.WordID, start); err != nil {
				return err
			}
			result.MistakesAdded++
		}

		result.SessionID = session.ID
		result.XPEarned = session.XPEarned
		result.CorrectAnswers = correct
		result.Level = info
		return nil
	})
	if err != nil {
		if _, ok := entities.AsValidation(err); ok {
			s.metrics.SessionIngested(GameTypeInvalid, OutcomeInvalid, time.Since(start))
			return nil, err
		}

		s.metrics.SessionIngested(label, OutcomeFailed, time.Since(start))
		s.logger.Error("session ingestion failed",
			zap.Int64("user_id", req.UserID),
			zap.String("session_token", token.String()),
			zap.Error(err),
		)
		return nil, entities.Persistence("ingest session", err)
	}

	if result.Duplicate {
		s.metrics.SessionIngested(label, OutcomeDuplicate, time.Since(start))
		s.logger.Info("duplicate session submission",
			zap.Int64("user_id", req.UserID),
			zap.Int64("session_id", result.SessionID),
		)
		return &result, nil
	}

	s.metrics.SessionIngested(label, OutcomeApplied, time.Since(start))
	s.metrics.XPAwarded(XPSourceSession, result.XPEarned)
	s.metrics.MistakesRecorded(result.MistakesAdded)

	s.logger.Info("session ingested",
		zap.Int64("user_id", req.UserID),
		zap.Int64("session_id", result.SessionID),
		zap.String("game_type", gameType),
		zap.Int64("xp_earned", result.XPEarned),
		zap.Int("level", result.Level.Level),
		zap.Int("skipped_results", result.SkippedResults),
	)

	return &result, nil
}

// gameTypeLabel bounds the metric label set to the configured types.
func (s *SessionService) gameTypeLabel(gameType string) string {
	if _, ok := s.allowedTypes[gameType]; ok {
		return gameType
	}
	return GameTypeOther
}

// replay fills result from a session stored earlier under the same token.
func (s *SessionService) replay(ctx context.Context, repos Repositories, userID int64, token uuid.UUID, result *IngestResult) error {
	existing, err := repos.Sessions.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return entities.InvalidInput("session_token", "already used by another session")
	}

	progress, err := repos.Progress.Get(ctx, userID)
	if err != nil {
		return err
	}

	*result = IngestResult{
		SessionID:      existing.ID,
		XPEarned:       existing.XPEarned,
		CorrectAnswers: existing.CorrectAnswers,
		Duplicate:      true,
		Level:          progress.LevelInfo(),
	}
	return nil
}

func (s *SessionService) validate(req IngestRequest, gameType string) (uuid.UUID, error) {
	if req.UserID <= 0 {
		return uuid.Nil, entities.MissingField("user_id")
	}
	if req.CorrectAnswers == nil {
		return uuid.Nil, entities.MissingField("correct_answers")
	}
	if strings.TrimSpace(req.SessionToken) == "" {
		return uuid.Nil, entities.MissingField("session_token")
	}

	token, err := uuid.Parse(req.SessionToken)
	if err != nil || token == uuid.Nil {
		return uuid.Nil, entities.InvalidInput("session_token", "must be a UUID")
	}

	if gameType == "" {
		return uuid.Nil, entities.MissingField("game_type")
	}
	if len(s.allowedTypes) > 0 {
		if _, ok := s.allowedTypes[gameType]; !ok {
			return uuid.Nil, entities.InvalidGameType(gameType)
		}
	}

	switch correct := *req.CorrectAnswers; {
	case req.TotalQuestions < 0:
		return uuid.Nil, entities.InvalidInput("total_questions", "must not be negative")
	case req.TotalQuestions > MaxSessionQuestions:
		return uuid.Nil, entities.InvalidInput("total_questions", fmt.Sprintf("must not exceed %d", MaxSessionQuestions))
	case correct < 0:
		return uuid.Nil, entities.InvalidInput("correct_answers", "must not be negative")
	case correct > req.TotalQuestions:
		return uuid.Nil, entities.InvalidInput("correct_answers", "must not exceed total_questions")
	case req.TimeSpentSeconds < 0:
		return uuid.Nil, entities.InvalidInput("time_spent_seconds", "must not be negative")
	case req.TimeSpentSeconds > MaxSessionSeconds:
		return uuid.Nil, entities.InvalidInput("time_spent_seconds", fmt.Sprintf("must not exceed %d", MaxSessionSeconds))
	case req.WordsLearned != nil && *req.WordsLearned < 0:
		return uuid.Nil, entities.InvalidInput("words_learned", "must not be negative")
	case req.WordsLearned != nil && *req.WordsLearned > MaxSessionQuestions:
		return uuid.Nil, entities.InvalidInput("words_learned", fmt.Sprintf("must not exceed %d", MaxSessionQuestions))
	}

	return token, nil
}

// History returns the user's most recent sessions, newest first.
func (s *SessionService) History(ctx context.Context, userID int64, limit int) ([]*entities.GameSession, error) {
	if userID <= 0 {
		return nil, entities.MissingField("user_id")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)

	sessions, err := s.sessions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, entities.Persistence("list sessions", err)
	}

	return sessions, nil
}

// countCorrectWords is the default words-learned figure when the client sends no hint.
func countCorrectWords(results []entities.WordResult) int {
	seen := make(map[int64]struct{})
	for _, r := range results {
		if r.WasCorrect && r.WordID != nil && *r.WordID > 0 {
			seen[*r.WordID] = struct{}{}
		}
	}
	return len(seen)
}
