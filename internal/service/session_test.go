package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

func newTestSessionService(allowed ...string) (*SessionService, *memStore, *recordingMetrics) {
	store := newMemStore()
	metrics := newRecordingMetrics()
	svc := NewSessionService(store, store.sessions(), metrics, zap.NewNop(), allowed)
	return svc, store, metrics
}

func validRequest(userID int64) IngestRequest {
	return IngestRequest{
		UserID:           userID,
		SessionToken:     uuid.NewString(),
		GameType:         "multiple_choice",
		TotalQuestions:   10,
		CorrectAnswers:   intPtr(7),
		TimeSpentSeconds: 95,
	}
}

func TestIngest_LevelsUpFromPriorProgress(t *testing.T) {
	svc, store, metrics := newTestSessionService()
	store.seed(func(st *memState) {
		st.progress[1] = &entities.UserProgress{UserID: 1, GamesPlayed: 3, CorrectAnswers: 20, TotalXP: 200, Level: 1}
	})

	res, err := svc.Ingest(context.Background(), validRequest(1))
	require.NoError(t, err)

	assert.False(t, res.Duplicate)
	assert.Equal(t, int64(70), res.XPEarned)
	assert.Equal(t, 7, res.CorrectAnswers)
	assert.Equal(t, 2, res.Level.Level)
	assert.Equal(t, int64(20), res.Level.XPInCurrentLevel)
	assert.Equal(t, int64(350), res.Level.XPForNextLevel)
	assert.Equal(t, int64(330), res.Level.XPNeeded)

	st := store.snapshot()
	p := st.progress[1]
	assert.Equal(t, int64(270), p.TotalXP)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 4, p.GamesPlayed)
	assert.Equal(t, 27, p.CorrectAnswers)
	require.Len(t, st.sessions, 1)
	assert.Equal(t, int64(70), st.sessions[0].XPEarned)

	assert.Equal(t, []ingestEvent{{"multiple_choice", OutcomeApplied}}, metrics.ingested)
	assert.Equal(t, int64(70), metrics.xp[XPSourceSession])
}

func TestIngest_CreatesProgressForNewUser(t *testing.T) {
	svc, store, _ := newTestSessionService()

	req := validRequest(5)
	req.TotalQuestions = 30
	req.CorrectAnswers = intPtr(25)

	res, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(250), res.XPEarned)
	assert.Equal(t, 2, res.Level.Level)
	p := store.snapshot().progress[5]
	assert.Equal(t, 1, p.GamesPlayed)
	assert.Equal(t, 2, p.Level)
}

func TestIngest_DuplicateTokenAppliesOnce(t *testing.T) {
	svc, store, metrics := newTestSessionService()
	req := validRequest(1)
	req.Results = []entities.WordResult{
		{WordID: wordPtr(10), WasCorrect: true},
		{WordID: wordPtr(11), WasCorrect: false},
	}

	first, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)

	second, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, second.Duplicate)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.XPEarned, second.XPEarned)
	assert.Equal(t, first.Level, second.Level)

	st := store.snapshot()
	assert.Len(t, st.sessions, 1)
	assert.Equal(t, int64(70), st.progress[1].TotalXP)
	assert.Equal(t, 1, st.progress[1].GamesPlayed)
	assert.Equal(t, 1, st.mastery[pairKey{1, 10}].TimesCorrect)
	assert.Equal(t, 1, st.mistakes[pairKey{1, 11}].Mistakes)

	assert.Equal(t, OutcomeDuplicate, metrics.ingested[1].outcome)
	assert.Equal(t, int64(70), metrics.xp[XPSourceSession])
}

func TestIngest_TokenOfAnotherUserIsRejected(t *testing.T) {
	svc, store, _ := newTestSessionService()
	req := validRequest(1)

	_, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)

	req.UserID = 2
	_, err = svc.Ingest(context.Background(), req)
	require.ErrorIs(t, err, entities.ErrValidation)

	_, ok := store.snapshot().progress[2]
	assert.False(t, ok)
}

func TestIngest_FailureRollsBackEverything(t *testing.T) {
	for _, op := range []string{"progress.Increment", "mastery.RecordCorrect", "mistakes.Record"} {
		t.Run(op, func(t *testing.T) {
			svc, store, metrics := newTestSessionService()
			store.seed(func(st *memState) {
				st.progress[1] = &entities.UserProgress{UserID: 1, GamesPlayed: 1, TotalXP: 100, Level: 1}
			})
			store.fail(op)

			req := validRequest(1)
			req.Results = []entities.WordResult{
				{WordID: wordPtr(10), WasCorrect: true},
				{WordID: wordPtr(11), WasCorrect: false},
			}

			_, err := svc.Ingest(context.Background(), req)
			require.ErrorIs(t, err, entities.ErrPersistence)
			assert.ErrorIs(t, err, errBoom)
			assert.NotErrorIs(t, err, entities.ErrValidation)

			st := store.snapshot()
			assert.Empty(t, st.sessions)
			assert.Empty(t, st.mastery)
			assert.Empty(t, st.mistakes)
			assert.Equal(t, int64(100), st.progress[1].TotalXP)
			assert.Equal(t, 1, st.progress[1].GamesPlayed)
			assert.Equal(t, OutcomeFailed, metrics.ingested[0].outcome)
		})
	}
}

func TestIngest_RetryAfterFailureApplies(t *testing.T) {
	svc, store, _ := newTestSessionService()
	store.fail("mistakes.Record")

	req := validRequest(1)
	req.Results = []entities.WordResult{{WordID: wordPtr(3), WasCorrect: false}}

	_, err := svc.Ingest(context.Background(), req)
	require.Error(t, err)

	delete(store.failOn, "mistakes.Record")

	res, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, int64(70), store.snapshot().progress[1].TotalXP)
}

func TestIngest_WordResults(t *testing.T) {
	svc, store, metrics := newTestSessionService()

	req := validRequest(1)
	req.Results = []entities.WordResult{
		{WordID: wordPtr(1), WasCorrect: true},
		{WordID: wordPtr(1), WasCorrect: true},
		{WordID: wordPtr(2), WasCorrect: true},
		{WordID: wordPtr(3), WasCorrect: false},
		{WordID: wordPtr(3), WasCorrect: false},
		{WordID: nil, WasCorrect: true},
		{WordID: wordPtr(0), WasCorrect: false},
		{WordID: wordPtr(-4), WasCorrect: true},
	}

	res, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 3, res.WordsMastered)
	assert.Equal(t, 2, res.MistakesAdded)
	assert.Equal(t, 3, res.SkippedResults)

	st := store.snapshot()
	assert.Equal(t, 2, st.mastery[pairKey{1, 1}].TimesCorrect)
	assert.True(t, st.mastery[pairKey{1, 1}].IsLearned())
	assert.Equal(t, 1, st.mastery[pairKey{1, 2}].TimesCorrect)
	assert.Len(t, st.mastery, 2)
	assert.Equal(t, 2, st.mistakes[pairKey{1, 3}].Mistakes)
	assert.Len(t, st.mistakes, 1)

	require.Len(t, st.sessions, 1)
	assert.Equal(t, 2, st.sessions[0].WordsLearned)
	assert.Equal(t, 2, metrics.mistakes)
}

func TestIngest_WordsLearnedHint(t *testing.T) {
	svc, store, _ := newTestSessionService()

	req := validRequest(1)
	req.WordsLearned = intPtr(6)
	req.Results = []entities.WordResult{{WordID: wordPtr(1), WasCorrect: true}}

	_, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 6, store.snapshot().sessions[0].WordsLearned)
}

func TestIngest_ZeroCorrectStillCountsGame(t *testing.T) {
	svc, store, _ := newTestSessionService()

	req := validRequest(1)
	req.CorrectAnswers = intPtr(0)

	res, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.XPEarned)
	assert.Equal(t, 1, res.Level.Level)
	assert.Equal(t, 1, store.snapshot().progress[1].GamesPlayed)
}

func TestIngest_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *IngestRequest)
		code   entities.ValidationCode
		field  string
	}{
		{"missing user", func(r *IngestRequest) { r.UserID = 0 }, entities.CodeMissingField, "user_id"},
		{"missing correct answers", func(r *IngestRequest) { r.CorrectAnswers = nil }, entities.CodeMissingField, "correct_answers"},
		{"missing token", func(r *IngestRequest) { r.SessionToken = " " }, entities.CodeMissingField, "session_token"},
		{"malformed token", func(r *IngestRequest) { r.SessionToken = "abc" }, entities.CodeInvalidInput, "session_token"},
		{"nil token", func(r *IngestRequest) { r.SessionToken = uuid.Nil.String() }, entities.CodeInvalidInput, "session_token"},
		{"missing game type", func(r *IngestRequest) { r.GameType = "" }, entities.CodeMissingField, "game_type"},
		{"unknown game type", func(r *IngestRequest) { r.GameType = "crossword" }, entities.CodeInvalidGameType, "game_type"},
		{"negative total", func(r *IngestRequest) { r.TotalQuestions = -1 }, entities.CodeInvalidInput, "total_questions"},
		{"negative correct", func(r *IngestRequest) { r.CorrectAnswers = intPtr(-1) }, entities.CodeInvalidInput, "correct_answers"},
		{"correct above total", func(r *IngestRequest) { r.CorrectAnswers = intPtr(11) }, entities.CodeInvalidInput, "correct_answers"},
		{"negative time", func(r *IngestRequest) { r.TimeSpentSeconds = -5 }, entities.CodeInvalidInput, "time_spent_seconds"},
		{"negative words learned", func(r *IngestRequest) { r.WordsLearned = intPtr(-2) }, entities.CodeInvalidInput, "words_learned"},
		{"total above int32", func(r *IngestRequest) { r.TotalQuestions = math.MaxInt32 + 1 }, entities.CodeInvalidInput, "total_questions"},
		{"total above cap", func(r *IngestRequest) { r.TotalQuestions = MaxSessionQuestions + 1 }, entities.CodeInvalidInput, "total_questions"},
		{"time above cap", func(r *IngestRequest) { r.TimeSpentSeconds = math.MaxInt32 + 1 }, entities.CodeInvalidInput, "time_spent_seconds"},
		{"words learned above cap", func(r *IngestRequest) { r.WordsLearned = intPtr(MaxSessionQuestions + 1) }, entities.CodeInvalidInput, "words_learned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, metrics := newTestSessionService("multiple_choice", "typing")

			req := validRequest(1)
			tt.mutate(&req)

			_, err := svc.Ingest(context.Background(), req)
			require.ErrorIs(t, err, entities.ErrValidation)

			ve, ok := entities.AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, ve.Code)
			assert.Equal(t, tt.field, ve.Field)

			st := store.snapshot()
			assert.Empty(t, st.sessions)
			assert.Empty(t, st.progress)
			assert.Equal(t, OutcomeInvalid, metrics.ingested[0].outcome)
			assert.Equal(t, GameTypeInvalid, metrics.ingested[0].gameType)
		})
	}
}

func TestIngest_AnyGameTypeWhenUnrestricted(t *testing.T) {
	svc, _, _ := newTestSessionService()

	req := validRequest(1)
	req.GameType = "listening"

	_, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)
}

func TestIngest_AcceptsCaps(t *testing.T) {
	svc, _, _ := newTestSessionService()

	req := validRequest(1)
	req.TotalQuestions = MaxSessionQuestions
	req.CorrectAnswers = intPtr(MaxSessionQuestions)
	req.TimeSpentSeconds = MaxSessionSeconds

	res, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxSessionQuestions*10), res.XPEarned)
}

func TestIngest_MetricLabelsStayBounded(t *testing.T) {
	ctx := context.Background()

	t.Run("unrestricted types collapse to other", func(t *testing.T) {
		svc, _, metrics := newTestSessionService()

		for i := range 50 {
			req := validRequest(1)
			req.GameType = fmt.Sprintf("junk-%d", i)
			_, err := svc.Ingest(ctx, req)
			require.NoError(t, err)
		}

		labels := map[string]bool{}
		for _, e := range metrics.ingested {
			labels[e.gameType] = true
		}
		assert.Equal(t, map[string]bool{GameTypeOther: true}, labels)
	})

	t.Run("configured types keep their label", func(t *testing.T) {
		svc, _, metrics := newTestSessionService("multiple_choice")

		_, err := svc.Ingest(ctx, validRequest(1))
		require.NoError(t, err)

		req := validRequest(1)
		req.GameType = "junk"
		_, err = svc.Ingest(ctx, req)
		require.ErrorIs(t, err, entities.ErrValidation)

		require.Len(t, metrics.ingested, 2)
		assert.Equal(t, ingestEvent{"multiple_choice", OutcomeApplied}, metrics.ingested[0])
		assert.Equal(t, ingestEvent{GameTypeInvalid, OutcomeInvalid}, metrics.ingested[1])
	})
}

func TestHistory(t *testing.T) {
	svc, _, _ := newTestSessionService()
	ctx := context.Background()

	var tokens []string
	for range 3 {
		req := validRequest(1)
		tokens = append(tokens, req.SessionToken)
		_, err := svc.Ingest(ctx, req)
		require.NoError(t, err)
	}
	_, err := svc.Ingest(ctx, validRequest(2))
	require.NoError(t, err)

	list, err := svc.History(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, tokens[2], list[0].Token.String())
	assert.Equal(t, tokens[1], list[1].Token.String())

	list, err = svc.History(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = svc.History(ctx, 0, 10)
	assert.ErrorIs(t, err, entities.ErrValidation)
}
