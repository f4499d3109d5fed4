package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres/repository"
)

var errBoom = errors.New("boom")

type pairKey struct{ userID, wordID int64 }

type wordInfo struct{ word, translation, example string }

// memState is the whole database of the in-memory store.
type memState struct {
	sessions      []*entities.GameSession
	progress      map[int64]*entities.UserProgress
	mastery       map[pairKey]*entities.WordMastery
	mistakes      map[pairKey]*entities.MistakeRecord
	words         map[int64]wordInfo
	achievements  map[int64][]*entities.Achievement
	users         map[int64]*entities.User
	nextSessionID int64
}

func newMemState() *memState {
	return &memState{
		progress:      make(map[int64]*entities.UserProgress),
		mastery:       make(map[pairKey]*entities.WordMastery),
		mistakes:      make(map[pairKey]*entities.MistakeRecord),
		words:         make(map[int64]wordInfo),
		achievements:  make(map[int64][]*entities.Achievement),
		users:         make(map[int64]*entities.User),
		nextSessionID: 1,
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.nextSessionID = s.nextSessionID
	for _, gs := range s.sessions {
		cp := *gs
		c.sessions = append(c.sessions, &cp)
	}
	for k, v := range s.progress {
		cp := *v
		c.progress[k] = &cp
	}
	for k, v := range s.mastery {
		cp := *v
		c.mastery[k] = &cp
	}
	for k, v := range s.mistakes {
		cp := *v
		c.mistakes[k] = &cp
	}
	for k, v := range s.words {
		c.words[k] = v
	}
	for k, v := range s.achievements {
		c.achievements[k] = slices.Clone(v)
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// memStore is a transactional in-memory stand-in for Postgres. WithinTx
// works on a copy and swaps it in on success; the mutex plays the part of
// row locks.
type memStore struct {
	mu     sync.Mutex
	state  *memState
	failOn map[string]bool
}

func newMemStore() *memStore {
	return &memStore{state: newMemState(), failOn: make(map[string]bool)}
}

func (m *memStore) fail(op string) { m.failOn[op] = true }

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := m.state.clone()
	r := memRepo{store: m, tx: tx}
	repos := Repositories{
		Sessions: memSessions{r},
		Progress: memProgress{r},
		Mastery:  memMastery{r},
		Mistakes: memMistakes{r},
	}

	if err := fn(ctx, repos); err != nil {
		return err
	}

	m.state = tx
	return nil
}

// snapshot returns a copy of the committed state for assertions.
func (m *memStore) snapshot() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *memStore) seed(fn func(st *memState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.state)
}

func (m *memStore) sessions() memSessions         { return memSessions{memRepo{store: m}} }
func (m *memStore) progress() memProgress         { return memProgress{memRepo{store: m}} }
func (m *memStore) mastery() memMastery           { return memMastery{memRepo{store: m}} }
func (m *memStore) mistakes() memMistakes         { return memMistakes{memRepo{store: m}} }
func (m *memStore) achievements() memAchievements { return memAchievements{memRepo{store: m}} }
func (m *memStore) users() memUsers               { return memUsers{memRepo{store: m}} }

// memRepo runs against the transaction copy when tx is set, and against the
// committed state under the store lock otherwise.
type memRepo struct {
	store *memStore
	tx    *memState
}

func (r memRepo) with(op string, fn func(st *memState) error) error {
	if r.tx == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	if r.store.failOn[op] {
		return errBoom
	}
	if r.tx != nil {
		return fn(r.tx)
	}
	return fn(r.store.state)
}

type memSessions struct{ memRepo }

func (r memSessions) Create(_ context.Context, s *entities.GameSession) (bool, error) {
	created := false
	err := r.with("sessions.Create", func(st *memState) error {
		for _, existing := range st.sessions {
			if existing.Token == s.Token {
				return nil
			}
		}
		s.ID = st.nextSessionID
		st.nextSessionID++
		cp := *s
		st.sessions = append(st.sessions, &cp)
		created = true
		return nil
	})
	return created, err
}

func (r memSessions) GetByToken(_ context.Context, token uuid.UUID) (*entities.GameSession, error) {
	var out *entities.GameSession
	err := r.with("sessions.GetByToken", func(st *memState) error {
		for _, s := range st.sessions {
			if s.Token == token {
				cp := *s
				out = &cp
				return nil
			}
		}
		return repository.ErrSessionNotFound
	})
	return out, err
}

func (r memSessions) ListByUser(_ context.Context, userID int64, limit int) ([]*entities.GameSession, error) {
	var out []*entities.GameSession
	err := r.with("sessions.ListByUser", func(st *memState) error {
		for i := len(st.sessions) - 1; i >= 0 && len(out) < limit; i-- {
			if s := st.sessions[i]; s.UserID == userID {
				cp := *s
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

type memProgress struct{ memRepo }

func (r memProgress) Increment(_ context.Context, userID int64, d entities.ProgressDelta) (*entities.UserProgress, error) {
	var out *entities.UserProgress
	err := r.with("progress.Increment", func(st *memState) error {
		p, ok := st.progress[userID]
		if !ok {
			p = &entities.UserProgress{UserID: userID, Level: 1}
			st.progress[userID] = p
		}
		p.GamesPlayed += d.GamesPlayed
		p.CorrectAnswers += d.CorrectAnswers
		p.TotalXP += d.XP
		cp := *p
		out = &cp
		return nil
	})
	return out, err
}

func (r memProgress) SetLevel(_ context.Context, userID int64, level int) error {
	return r.with("progress.SetLevel", func(st *memState) error {
		p, ok := st.progress[userID]
		if !ok {
			return repository.ErrProgressNotFound
		}
		p.Level = level
		return nil
	})
}

func (r memProgress) Get(_ context.Context, userID int64) (*entities.UserProgress, error) {
	var out *entities.UserProgress
	err := r.with("progress.Get", func(st *memState) error {
		p, ok := st.progress[userID]
		if !ok {
			return repository.ErrProgressNotFound
		}
		cp := *p
		out = &cp
		return nil
	})
	return out, err
}

type memMastery struct{ memRepo }

func (r memMastery) RecordCorrect(_ context.Context, userID, wordID int64, at time.Time) (int, error) {
	var n int
	err := r.with("mastery.RecordCorrect", func(st *memState) error {
		k := pairKey{userID, wordID}
		m, ok := st.mastery[k]
		if !ok {
			m = &entities.WordMastery{UserID: userID, WordID: wordID}
			st.mastery[k] = m
		}
		m.TimesCorrect++
		m.LastPracticedAt = at
		n = m.TimesCorrect
		return nil
	})
	return n, err
}

func (r memMastery) Get(_ context.Context, userID, wordID int64) (*entities.WordMastery, error) {
	var out *entities.WordMastery
	err := r.with("mastery.Get", func(st *memState) error {
		m, ok := st.mastery[pairKey{userID, wordID}]
		if !ok {
			return repository.ErrMasteryNotFound
		}
		cp := *m
		out = &cp
		return nil
	})
	return out, err
}

func (r memMastery) CountLearned(_ context.Context, userID int64, threshold int) (int, error) {
	var n int
	err := r.with("mastery.CountLearned", func(st *memState) error {
		for k, m := range st.mastery {
			if k.userID == userID && m.TimesCorrect >= threshold {
				n++
			}
		}
		return nil
	})
	return n, err
}

type memMistakes struct{ memRepo }

func (r memMistakes) Record(_ context.Context, userID, wordID int64, at time.Time) (int, error) {
	var n int
	err := r.with("mistakes.Record", func(st *memState) error {
		k := pairKey{userID, wordID}
		m, ok := st.mistakes[k]
		if !ok {
			m = &entities.MistakeRecord{UserID: userID, WordID: wordID, CreatedAt: at}
			st.mistakes[k] = m
		}
		m.Mistakes++
		m.LastPracticedAt = at
		n = m.Mistakes
		return nil
	})
	return n, err
}

func (r memMistakes) Adjust(
	_ context.Context, userID, wordID int64, adj entities.MistakeAdjustment, at time.Time,
) (int, bool, error) {
	var (
		n     int
		found bool
	)
	err := r.with("mistakes.Adjust", func(st *memState) error {
		m, ok := st.mistakes[pairKey{userID, wordID}]
		if !ok {
			return nil
		}
		switch adj.Action {
		case entities.MistakeIncrement:
			m.Mistakes++
		case entities.MistakeSet:
			m.Mistakes = adj.Value
		}
		m.LastPracticedAt = at
		n, found = m.Mistakes, true
		return nil
	})
	return n, found, err
}

func (r memMistakes) Remove(_ context.Context, userID, wordID int64) (bool, error) {
	var removed bool
	err := r.with("mistakes.Remove", func(st *memState) error {
		k := pairKey{userID, wordID}
		_, removed = st.mistakes[k]
		delete(st.mistakes, k)
		return nil
	})
	return removed, err
}

func (r memMistakes) ClearAll(_ context.Context, userID int64) (int64, error) {
	var n int64
	err := r.with("mistakes.ClearAll", func(st *memState) error {
		for k := range st.mistakes {
			if k.userID == userID {
				delete(st.mistakes, k)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r memMistakes) Exists(_ context.Context, userID, wordID int64) (bool, error) {
	var ok bool
	err := r.with("mistakes.Exists", func(st *memState) error {
		_, ok = st.mistakes[pairKey{userID, wordID}]
		return nil
	})
	return ok, err
}

func (r memMistakes) List(_ context.Context, userID int64, limit int) ([]*entities.MistakeEntry, error) {
	var out []*entities.MistakeEntry
	err := r.with("mistakes.List", func(st *memState) error {
		for k, m := range st.mistakes {
			if k.userID != userID {
				continue
			}
			w := st.words[k.wordID]
			out = append(out, &entities.MistakeEntry{
				MistakeRecord: *m,
				Word:          w.word,
				Translation:   w.translation,
				Example:       w.example,
			})
		}
		slices.SortFunc(out, func(a, b *entities.MistakeEntry) int {
			return cmp.Or(
				cmp.Compare(b.Mistakes, a.Mistakes),
				a.LastPracticedAt.Compare(b.LastPracticedAt),
				cmp.Compare(a.WordID, b.WordID),
			)
		})
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

type memAchievements struct{ memRepo }

func (r memAchievements) CountUnlocked(_ context.Context, userID int64) (int, error) {
	var n int
	err := r.with("achievements.CountUnlocked", func(st *memState) error {
		n = len(st.achievements[userID])
		return nil
	})
	return n, err
}

func (r memAchievements) ListUnlocked(_ context.Context, userID int64) ([]*entities.Achievement, error) {
	var out []*entities.Achievement
	err := r.with("achievements.ListUnlocked", func(st *memState) error {
		out = slices.Clone(st.achievements[userID])
		return nil
	})
	return out, err
}

type memUsers struct{ memRepo }

func (r memUsers) GetByTelegramID(_ context.Context, telegramID int64) (*entities.User, error) {
	var out *entities.User
	err := r.with("users.GetByTelegramID", func(st *memState) error {
		u, ok := st.users[telegramID]
		if !ok {
			return repository.ErrUserNotFound
		}
		out = u
		return nil
	})
	return out, err
}

type ingestEvent struct {
	gameType, outcome string
}

// recordingMetrics captures what the services report.
type recordingMetrics struct {
	mu       sync.Mutex
	ingested []ingestEvent
	xp       map[string]int64
	mistakes int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{xp: make(map[string]int64)}
}

func (m *recordingMetrics) SessionIngested(gameType, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingested = append(m.ingested, ingestEvent{gameType, outcome})
}

func (m *recordingMetrics) XPAwarded(source string, xp int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.xp[source] += xp
}

func (m *recordingMetrics) MistakesRecorded(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mistakes += n
}

func intPtr(v int) *int      { return &v }
func wordPtr(v int64) *int64 { return &v }
