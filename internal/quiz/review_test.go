package quiz

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStartFinalReviewEmptySet(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)
	env.createQuestion(t, 1, "medicine", "smle", "A")

	// Only correct history: nothing to review.
	env.recordAttempt(t, 1, 10, 1, "A", "A", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	_, err := env.svc.StartFinalReview(context.Background(), 1, "medicine", "", true)
	if !errors.Is(err, ErrEmptyReviewSet) {
		t.Fatalf("expected ErrEmptyReviewSet, got %v", err)
	}
}

func TestStartFinalReviewSnapshotsWrongSet(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)
	env.createQuestion(t, 1, "medicine", "smle", "A")
	env.createQuestion(t, 2, "medicine", "smle", "B")
	env.createQuestion(t, 3, "medicine", "smle", "C")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env.recordAttempt(t, 1, 10, 1, "B", "A", base)
	env.recordAttempt(t, 1, 10, 2, "A", "B", base)

	review, err := env.svc.StartFinalReview(context.Background(), 1, "medicine", "", true)
	if err != nil {
		t.Fatalf("StartFinalReview failed: %v", err)
	}
	if len(review.QuestionIDs) != 2 {
		t.Fatalf("snapshot = %v, want 2 questions", review.QuestionIDs)
	}

	// A new wrong answer after creation must not grow the snapshot.
	env.recordAttempt(t, 1, 11, 3, "A", "C", base.Add(time.Minute))

	qs, err := env.svc.ReviewQuestions(context.Background(), review.ID)
	if err != nil {
		t.Fatalf("ReviewQuestions failed: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected the snapshot to stay at 2 questions, got %d", len(qs))
	}
	for _, q := range qs {
		if q.ID == 3 {
			t.Fatalf("question 3 leaked into an already-created review session")
		}
	}
}

func TestSubmitReviewAnswerStaysOutOfLedger(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)
	env.createQuestion(t, 1, "medicine", "smle", "A")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env.recordAttempt(t, 1, 10, 1, "B", "A", base)

	review, err := env.svc.StartFinalReview(context.Background(), 1, "medicine", "", false)
	if err != nil {
		t.Fatalf("StartFinalReview failed: %v", err)
	}

	attempt, err := env.svc.SubmitReviewAnswer(context.Background(), review.ID, 1, "A", 12)
	if err != nil {
		t.Fatalf("SubmitReviewAnswer failed: %v", err)
	}
	if !attempt.IsCorrect {
		t.Fatalf("expected a correct review attempt")
	}

	// The general ledger still holds only the original miss.
	var n int64
	if err := env.db.Table("question_attempts").Where("account_id = ?", 1).Count(&n).Error; err != nil {
		t.Fatalf("ledger count failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("general ledger grew to %d rows, review attempts must not land there", n)
	}

	// Duplicate submits on the same review question are rejected.
	if _, err := env.svc.SubmitReviewAnswer(context.Background(), review.ID, 1, "B", 5); !errors.Is(err, ErrDuplicateAttempt) {
		t.Fatalf("expected ErrDuplicateAttempt, got %v", err)
	}
}

func TestCompleteReviewSession(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, 1)
	env.createQuestion(t, 1, "medicine", "smle", "A")
	env.createQuestion(t, 2, "medicine", "smle", "B")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env.recordAttempt(t, 1, 10, 1, "B", "A", base)
	env.recordAttempt(t, 1, 10, 2, "A", "B", base)

	env.freezeAt(base.Add(time.Hour))
	review, err := env.svc.StartFinalReview(context.Background(), 1, "medicine", "", false)
	if err != nil {
		t.Fatalf("StartFinalReview failed: %v", err)
	}

	if _, err := env.svc.SubmitReviewAnswer(context.Background(), review.ID, 1, "A", 20); err != nil {
		t.Fatalf("SubmitReviewAnswer failed: %v", err)
	}
	if _, err := env.svc.SubmitReviewAnswer(context.Background(), review.ID, 2, "C", 30); err != nil {
		t.Fatalf("SubmitReviewAnswer failed: %v", err)
	}

	env.freezeAt(base.Add(time.Hour + 50*time.Second))
	summary, err := env.svc.CompleteReviewSession(context.Background(), review.ID)
	if err != nil {
		t.Fatalf("CompleteReviewSession failed: %v", err)
	}
	if summary.TotalAttempts != 2 || summary.CorrectAttempts != 1 {
		t.Fatalf("summary = %+v, want 1/2", summary)
	}
	if summary.Score != 0.5 {
		t.Fatalf("score = %v, want 0.5", summary.Score)
	}
	if summary.DurationSeconds != 50 {
		t.Fatalf("duration = %d, want 50", summary.DurationSeconds)
	}
	if summary.AvgSecondsPerQuestion != 25 {
		t.Fatalf("avg = %v, want 25", summary.AvgSecondsPerQuestion)
	}

	// Review completion counts toward the streak like any other session.
	streak, err := env.streaks.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("streak read failed: %v", err)
	}
	if streak == nil || streak.Current != 1 {
		t.Fatalf("expected streak 1 after review completion, got %+v", streak)
	}

	// Completing again returns the stored summary unchanged.
	again, err := env.svc.CompleteReviewSession(context.Background(), review.ID)
	if err != nil {
		t.Fatalf("repeat CompleteReviewSession failed: %v", err)
	}
	if again.DurationSeconds != 50 || again.CorrectAttempts != 1 {
		t.Fatalf("repeat completion drifted: %+v", again)
	}

	if _, err := env.svc.SubmitReviewAnswer(context.Background(), review.ID, 1, "A", 1); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive after completion, got %v", err)
	}
}
