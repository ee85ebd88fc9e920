package quiz

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/database"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/repository"
)

// testEnv wires the full service stack against an in-memory sqlite database.
// Redis-backed pieces run in their nil (disabled) mode.
type testEnv struct {
	db        *gorm.DB
	accounts  *repository.Accounts
	questions *repository.Questions
	sessions  *repository.Sessions
	reviews   *repository.ReviewSessions
	attempts  *repository.Attempts
	streaks   *repository.Streaks

	mastery   *MasteryService
	streakSvc *StreakService
	svc       *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	log := zap.NewNop()
	if err := database.Migrate(db, log); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	env := &testEnv{
		db:        db,
		accounts:  repository.NewAccounts(db),
		questions: repository.NewQuestions(db),
		sessions:  repository.NewSessions(db),
		reviews:   repository.NewReviewSessions(db),
		attempts:  repository.NewAttempts(db),
		streaks:   repository.NewStreaks(db),
	}

	board := repository.NewLeaderboard(nil)
	guard := repository.NewSubmitGuard(nil)
	analytics := repository.NewAnalytics(db)

	env.mastery = NewMasteryService(log, analytics, env.attempts, env.sessions, env.streaks, false)
	env.streakSvc = NewStreakService(log, env.streaks, board)
	env.svc = NewSessionService(log, env.accounts, env.questions, env.sessions,
		env.reviews, env.attempts, env.mastery, env.streakSvc, guard, 0)
	return env
}

func (e *testEnv) createAccount(t *testing.T, id int64) {
	t.Helper()
	a := models.Account{ID: id, Username: fmt.Sprintf("user%d", id), PasswordHash: "x"}
	if err := e.db.Create(&a).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
}

func (e *testEnv) createQuestion(t *testing.T, id int64, topic, source, correct string) {
	t.Helper()
	q := models.Question{
		ID:            id,
		Text:          fmt.Sprintf("question %d", id),
		OptionA:       "a", OptionB: "b", OptionC: "c", OptionD: "d",
		CorrectOption: correct,
		Topic:         topic,
		Source:        source,
	}
	if err := e.db.Create(&q).Error; err != nil {
		t.Fatalf("failed to create question: %v", err)
	}
}

// recordAttempt seeds the general ledger directly with an explicit timestamp.
func (e *testEnv) recordAttempt(t *testing.T, accountID, sessionID, questionID int64, selected, correct string, at time.Time) {
	t.Helper()
	a := models.QuestionAttempt{
		SessionID:      sessionID,
		QuestionID:     questionID,
		AccountID:      accountID,
		SelectedOption: selected,
		CorrectOption:  correct,
		IsCorrect:      selected == correct,
		CreatedAt:      at,
	}
	if err := e.attempts.Record(context.Background(), &a); err != nil {
		t.Fatalf("failed to record attempt: %v", err)
	}
}

// freezeAt pins the session service clock.
func (e *testEnv) freezeAt(ts time.Time) {
	e.svc.now = func() time.Time { return ts }
}
