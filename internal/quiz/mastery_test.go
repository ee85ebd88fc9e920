package quiz

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/repository"
)

func TestAccuracyByTopic(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)
	env.createQuestion(t, 1, "medicine", "smle", "A")
	env.createQuestion(t, 2, "medicine", "smle", "B")
	env.createQuestion(t, 3, "surgery", "smle", "C")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env.recordAttempt(t, 1, 10, 1, "A", "A", base)
	env.recordAttempt(t, 1, 10, 2, "C", "B", base.Add(time.Minute))
	env.recordAttempt(t, 1, 10, 3, "C", "C", base.Add(2*time.Minute))

	byTopic, err := env.mastery.AccuracyByTopic(context.Background(), 1)
	if err != nil {
		t.Fatalf("AccuracyByTopic failed: %v", err)
	}
	med := byTopic["medicine"]
	if med.Total != 2 || med.Correct != 1 || med.Accuracy != 0.5 {
		t.Fatalf("medicine = %+v, want 1/2 at 0.5", med)
	}
	if s := byTopic["surgery"]; s.Total != 1 || s.Correct != 1 || s.Accuracy != 1.0 {
		t.Fatalf("surgery = %+v, want 1/1 at 1.0", s)
	}
}

func TestAccuracyByTopicNoHistory(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)

	byTopic, err := env.mastery.AccuracyByTopic(context.Background(), 1)
	if err != nil {
		t.Fatalf("AccuracyByTopic failed: %v", err)
	}
	if len(byTopic) != 0 {
		t.Fatalf("expected empty map for an account with no attempts, got %v", byTopic)
	}

	ids, err := env.mastery.WrongQuestionIDs(context.Background(), 1, WrongFilters{LatestOnly: true})
	if err != nil {
		t.Fatalf("WrongQuestionIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no wrong questions, got %v", ids)
	}
}

func TestWrongQuestionIDsLatestOnly(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 42)
	env.createQuestion(t, 7, "medicine", "smle", "A")
	env.createQuestion(t, 8, "medicine", "smle", "B")
	env.createQuestion(t, 9, "surgery", "smle", "C")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	// Question 7: missed on Monday, answered correctly on Tuesday.
	env.recordAttempt(t, 42, 100, 7, "B", "A", base)
	env.recordAttempt(t, 42, 101, 7, "A", "A", base.Add(24*time.Hour))
	// Question 8: still wrong on the latest attempt.
	env.recordAttempt(t, 42, 100, 8, "A", "B", base)
	env.recordAttempt(t, 42, 101, 8, "C", "B", base.Add(24*time.Hour))
	// Question 9: answered once, correctly.
	env.recordAttempt(t, 42, 100, 9, "C", "C", base)

	latest, err := env.mastery.WrongQuestionIDs(context.Background(), 42, WrongFilters{LatestOnly: true})
	if err != nil {
		t.Fatalf("WrongQuestionIDs failed: %v", err)
	}
	if len(latest) != 1 || latest[0] != 8 {
		t.Fatalf("latest-only wrong set = %v, want [8]", latest)
	}

	// Without the latest-only rule the redeemed question comes back.
	ever, err := env.mastery.WrongQuestionIDs(context.Background(), 42, WrongFilters{})
	if err != nil {
		t.Fatalf("WrongQuestionIDs failed: %v", err)
	}
	if len(ever) != 2 || ever[0] != 7 || ever[1] != 8 {
		t.Fatalf("ever-wrong set = %v, want [7 8]", ever)
	}
}

func TestWrongQuestionIDsTopicFilter(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)
	env.createQuestion(t, 1, "medicine", "smle", "A")
	env.createQuestion(t, 2, "surgery", "smle", "B")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env.recordAttempt(t, 1, 10, 1, "B", "A", base)
	env.recordAttempt(t, 1, 10, 2, "A", "B", base)

	ids, err := env.mastery.WrongQuestionIDs(context.Background(), 1, WrongFilters{Topic: "surgery"})
	if err != nil {
		t.Fatalf("WrongQuestionIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("topic-filtered wrong set = %v, want [2]", ids)
	}
}

func TestReviewAttemptsExcludedFromMastery(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)
	env.createQuestion(t, 1, "medicine", "smle", "A")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env.recordAttempt(t, 1, 10, 1, "B", "A", base)

	// A later correct answer given inside a review session does not redeem
	// the question under the default policy.
	fa := models.FinalQuizAttempt{
		ReviewSessionID: 20,
		QuestionID:      1,
		AccountID:       1,
		SelectedOption:  "A",
		CorrectOption:   "A",
		IsCorrect:       true,
		CreatedAt:       base.Add(time.Hour),
	}
	if err := env.attempts.RecordFinal(context.Background(), &fa); err != nil {
		t.Fatalf("failed to record review attempt: %v", err)
	}

	ids, err := env.mastery.WrongQuestionIDs(context.Background(), 1, WrongFilters{LatestOnly: true})
	if err != nil {
		t.Fatalf("WrongQuestionIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("wrong set = %v, want [1] with review attempts excluded", ids)
	}

	// With the policy flag on, the same review attempt settles the question.
	folding := NewMasteryService(zap.NewNop(), repository.NewAnalytics(env.db), env.attempts, env.sessions, env.streaks, true)
	ids, err = folding.WrongQuestionIDs(context.Background(), 1, WrongFilters{LatestOnly: true})
	if err != nil {
		t.Fatalf("WrongQuestionIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("wrong set = %v, want empty with review attempts folded in", ids)
	}
}

func TestAttemptHistoryFilters(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)
	env.createQuestion(t, 1, "medicine", "smle", "A")
	env.createQuestion(t, 2, "surgery", "smle", "B")
	env.createQuestion(t, 3, "surgery", "prometric", "C")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env.recordAttempt(t, 1, 10, 1, "A", "A", base)
	env.recordAttempt(t, 1, 10, 2, "C", "B", base.Add(time.Hour))
	env.recordAttempt(t, 1, 11, 3, "C", "C", base.Add(2*time.Hour))

	// Default ordering is newest first across the whole ledger.
	all, err := env.mastery.AttemptHistory(context.Background(), 1, repository.AttemptFilters{})
	if err != nil {
		t.Fatalf("AttemptHistory failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", len(all))
	}
	if all[0].QuestionID != 3 || all[2].QuestionID != 1 {
		t.Fatalf("rows out of order: %v, %v, %v", all[0].QuestionID, all[1].QuestionID, all[2].QuestionID)
	}

	correct := false
	wrongOnly, err := env.mastery.AttemptHistory(context.Background(), 1, repository.AttemptFilters{Correct: &correct})
	if err != nil {
		t.Fatalf("AttemptHistory failed: %v", err)
	}
	if len(wrongOnly) != 1 || wrongOnly[0].QuestionID != 2 {
		t.Fatalf("correctness filter = %+v, want the single miss on question 2", wrongOnly)
	}

	surgery, err := env.mastery.AttemptHistory(context.Background(), 1, repository.AttemptFilters{Topic: "surgery"})
	if err != nil {
		t.Fatalf("AttemptHistory failed: %v", err)
	}
	if len(surgery) != 2 {
		t.Fatalf("topic filter returned %d rows, want 2", len(surgery))
	}

	sid := int64(10)
	inSession, err := env.mastery.AttemptHistory(context.Background(), 1, repository.AttemptFilters{SessionID: &sid})
	if err != nil {
		t.Fatalf("AttemptHistory failed: %v", err)
	}
	if len(inSession) != 2 {
		t.Fatalf("session filter returned %d rows, want 2", len(inSession))
	}

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	ranged, err := env.mastery.AttemptHistory(context.Background(), 1, repository.AttemptFilters{From: &from, To: &to})
	if err != nil {
		t.Fatalf("AttemptHistory failed: %v", err)
	}
	if len(ranged) != 1 || ranged[0].QuestionID != 2 {
		t.Fatalf("date-range filter = %+v, want only question 2", ranged)
	}

	limited, err := env.mastery.AttemptHistory(context.Background(), 1, repository.AttemptFilters{Ascending: true, Limit: 1})
	if err != nil {
		t.Fatalf("AttemptHistory failed: %v", err)
	}
	if len(limited) != 1 || limited[0].QuestionID != 1 {
		t.Fatalf("ascending limit = %+v, want the oldest row", limited)
	}
}

func TestOverview(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)
	env.createQuestion(t, 1, "medicine", "smle", "A")
	env.createQuestion(t, 2, "surgery", "smle", "B")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env.recordAttempt(t, 1, 10, 1, "A", "A", base)
	env.recordAttempt(t, 1, 10, 2, "A", "B", base)
	if _, err := env.streakSvc.OnSessionCompleted(context.Background(), 1, base); err != nil {
		t.Fatalf("OnSessionCompleted failed: %v", err)
	}

	ov, err := env.mastery.Overview(context.Background(), 1)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if ov.TotalAttempts != 2 || ov.CorrectAttempts != 1 || ov.Accuracy != 0.5 {
		t.Fatalf("overview attempts = %+v, want 1/2 at 0.5", ov)
	}
	if ov.TopicsPracticed != 2 || ov.WrongQuestions != 1 {
		t.Fatalf("overview breadth = %+v, want 2 topics and 1 wrong question", ov)
	}
	if ov.CurrentStreak != 1 || ov.LongestStreak != 1 {
		t.Fatalf("overview streaks = %+v, want 1/1", ov)
	}
}

func TestRecentSessionsOrder(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		end := base.Add(time.Duration(i) * time.Hour)
		sess := models.QuizSession{
			AccountID:      1,
			RequestedCount: 2,
			QuestionIDs:    datatypes.NewJSONSlice([]int64{1, 2}),
			StartedAt:      end.Add(-10 * time.Minute),
			EndedAt:        &end,
			CorrectCount:   i,
			TotalCount:     2,
		}
		if err := env.sessions.Create(context.Background(), &sess); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
	}
	// An active session must not appear in the history.
	active := models.QuizSession{AccountID: 1, RequestedCount: 2, StartedAt: base}
	if err := env.sessions.Create(context.Background(), &active); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	recent, err := env.mastery.RecentSessions(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("RecentSessions failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(recent))
	}
	if recent[0].CorrectAttempts != 2 || recent[1].CorrectAttempts != 1 {
		t.Fatalf("sessions out of order: %+v", recent)
	}
	if recent[0].Score != 1.0 {
		t.Fatalf("score = %v, want 1.0", recent[0].Score)
	}
}
