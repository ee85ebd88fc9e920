package quiz

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/repository"
)

// SessionService owns the session lifecycle: question selection at creation,
// answer recording while active, and the one-shot completion transition. The
// service itself is stateless between requests; every bit of session state
// lives in the persisted rows, so any instance can serve any request.
type SessionService struct {
	log       *zap.Logger
	accounts  *repository.Accounts
	questions *repository.Questions
	sessions  *repository.Sessions
	reviews   *repository.ReviewSessions
	attempts  *repository.Attempts
	mastery   *MasteryService
	streaks   *StreakService
	guard     *repository.SubmitGuard

	// reviewTimeLimit caps final review sessions (0 = unlimited).
	reviewTimeLimit int

	now func() time.Time
}

func NewSessionService(
	log *zap.Logger,
	accounts *repository.Accounts,
	questions *repository.Questions,
	sessions *repository.Sessions,
	reviews *repository.ReviewSessions,
	attempts *repository.Attempts,
	mastery *MasteryService,
	streaks *StreakService,
	guard *repository.SubmitGuard,
	reviewTimeLimit int,
) *SessionService {
	return &SessionService{
		log:             log,
		accounts:        accounts,
		questions:       questions,
		sessions:        sessions,
		reviews:         reviews,
		attempts:        attempts,
		mastery:         mastery,
		streaks:         streaks,
		guard:           guard,
		reviewTimeLimit: reviewTimeLimit,
		now:             time.Now,
	}
}

// StartSession draws requestedCount question ids uniformly at random and
// creates an active session with that fixed sequence. A catalog smaller than
// the request degrades to all available questions with the session flagged
// under-filled.
func (s *SessionService) StartSession(ctx context.Context, accountID int64, requestedCount int) (*models.QuizSession, error) {
	if _, err := s.accounts.ByID(ctx, accountID); err != nil {
		return nil, err
	}

	ids, err := s.questions.RandomIDs(ctx, requestedCount)
	if err != nil {
		return nil, err
	}

	session := &models.QuizSession{
		AccountID:      accountID,
		RequestedCount: requestedCount,
		QuestionIDs:    ids,
		Underfilled:    len(ids) < requestedCount,
		StartedAt:      s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("Quiz session started",
		zap.Int64("accountID", accountID),
		zap.Int64("sessionID", session.ID),
		zap.Int("requested", requestedCount),
		zap.Int("selected", len(ids)),
		zap.Bool("underfilled", session.Underfilled))
	return session, nil
}

// SessionQuestions returns the session's questions in their fixed order.
func (s *SessionService) SessionQuestions(ctx context.Context, sessionID int64) ([]models.Question, error) {
	session, err := s.sessions.ByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.questions.ByIDs(ctx, session.QuestionIDs)
}

// SubmitAnswer records one answer against an active session. Correctness is
// computed here, once, against the stored correct option and persisted with
// the row. Replays of the same (session, question) pair are rejected as
// ErrDuplicateAttempt and leave the original row untouched.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, questionID int64, selected string, timeTaken float64) (*models.QuestionAttempt, error) {
	if !models.ValidOption(selected) {
		return nil, ErrInvalidOption
	}

	session, err := s.sessions.ByID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotActive
	}
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return nil, ErrSessionNotActive
	}
	if !containsID(session.QuestionIDs, questionID) {
		return nil, ErrQuestionNotInSession
	}

	if !s.guard.FirstSubmit(ctx, sessionID, questionID) {
		return nil, ErrDuplicateAttempt
	}

	question, err := s.questions.ByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	attempt := &models.QuestionAttempt{
		SessionID:        sessionID,
		QuestionID:       questionID,
		AccountID:        session.AccountID,
		SelectedOption:   selected,
		CorrectOption:    question.CorrectOption,
		IsCorrect:        selected == question.CorrectOption,
		TimeTakenSeconds: timeTaken,
	}
	if err := s.attempts.Record(ctx, attempt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAttempt
		}
		// The write failed with nothing recorded; free the guard so the
		// client's retry is not bounced as a duplicate.
		s.guard.Release(ctx, sessionID, questionID)
		return nil, err
	}
	return attempt, nil
}

// CompleteSession transitions active → completed exactly once. The update is
// conditional on the session still being active, so a repeated call (or a
// concurrent retry) loses the compare-and-set, skips all side effects, and
// gets the already-stored summary back.
func (s *SessionService) CompleteSession(ctx context.Context, sessionID int64) (*models.SessionSummary, error) {
	session, err := s.sessions.ByID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotActive
	}
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		summary := summarize(session)
		return &summary, nil
	}

	total, correct, err := s.attempts.SessionTally(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	end := s.now()
	duration := int(end.Sub(session.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	var avg float64
	if n := len(session.QuestionIDs); n > 0 {
		avg = float64(duration) / float64(n)
	}

	won, err := s.sessions.Finish(ctx, sessionID, end, duration, avg, correct, total)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the race to another completion call; return its result.
		stored, err := s.sessions.ByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		summary := summarize(stored)
		return &summary, nil
	}

	if _, err := s.streaks.OnSessionCompleted(ctx, session.AccountID, end); err != nil {
		// The completion is already durable; a streak write failure is logged
		// rather than unwinding it.
		s.log.Error("Streak update failed after session completion",
			zap.Int64("accountID", session.AccountID),
			zap.Int64("sessionID", sessionID),
			zap.Error(err))
	}

	session.EndedAt = &end
	session.DurationSeconds = duration
	session.AvgSecondsPerQuestion = avg
	session.CorrectCount = correct
	session.TotalCount = total

	s.log.Info("Quiz session completed",
		zap.Int64("sessionID", sessionID),
		zap.Int("correct", correct),
		zap.Int("total", total),
		zap.Int("durationSeconds", duration))

	summary := summarize(session)
	return &summary, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
