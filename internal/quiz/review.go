package quiz

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
)

// StartFinalReview creates the review variant of a session: its question set
// is the account's historically wrong questions for the topic/source pair,
// snapshotted at creation so new wrong answers accruing mid-session never
// change the set. latestOnly narrows eligibility to questions whose most
// recent attempt is still wrong.
func (s *SessionService) StartFinalReview(ctx context.Context, accountID int64, questionType, source string, latestOnly bool) (*models.FinalReviewSession, error) {
	if _, err := s.accounts.ByID(ctx, accountID); err != nil {
		return nil, err
	}

	ids, err := s.mastery.WrongQuestionIDs(ctx, accountID, WrongFilters{
		Topic:      questionType,
		Source:     source,
		LatestOnly: latestOnly,
	})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrEmptyReviewSet
	}

	review := &models.FinalReviewSession{
		AccountID:        accountID,
		QuestionType:     questionType,
		Source:           source,
		LatestOnly:       latestOnly,
		QuestionIDs:      ids,
		TimeLimitSeconds: s.reviewTimeLimit,
		StartedAt:        s.now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("Final review session started",
		zap.Int64("accountID", accountID),
		zap.Int64("reviewSessionID", review.ID),
		zap.String("questionType", questionType),
		zap.String("source", source),
		zap.Bool("latestOnly", latestOnly),
		zap.Int("questions", len(ids)))
	return review, nil
}

// ReviewQuestions returns the review session's snapshot questions in order.
func (s *SessionService) ReviewQuestions(ctx context.Context, reviewSessionID int64) ([]models.Question, error) {
	review, err := s.reviews.ByID(ctx, reviewSessionID)
	if err != nil {
		return nil, err
	}
	return s.questions.ByIDs(ctx, review.QuestionIDs)
}

// SubmitReviewAnswer records one answer against an active review session.
// Rows land in the final-quiz-attempt table, not the general ledger, so
// review performance stays out of the mastery statistics unless the
// aggregator is configured to fold it in.
func (s *SessionService) SubmitReviewAnswer(ctx context.Context, reviewSessionID, questionID int64, selected string, timeTaken float64) (*models.FinalQuizAttempt, error) {
	if !models.ValidOption(selected) {
		return nil, ErrInvalidOption
	}

	review, err := s.reviews.ByID(ctx, reviewSessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotActive
	}
	if err != nil {
		return nil, err
	}
	if !review.Active() {
		return nil, ErrSessionNotActive
	}
	if !containsID(review.QuestionIDs, questionID) {
		return nil, ErrQuestionNotInSession
	}

	question, err := s.questions.ByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	attempt := &models.FinalQuizAttempt{
		ReviewSessionID:  reviewSessionID,
		QuestionID:       questionID,
		AccountID:        review.AccountID,
		SelectedOption:   selected,
		CorrectOption:    question.CorrectOption,
		IsCorrect:        selected == question.CorrectOption,
		TimeTakenSeconds: timeTaken,
	}
	if err := s.attempts.RecordFinal(ctx, attempt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAttempt
		}
		return nil, err
	}
	return attempt, nil
}

// CompleteReviewSession mirrors CompleteSession for the review variant,
// including the compare-and-set transition and the streak side effect.
func (s *SessionService) CompleteReviewSession(ctx context.Context, reviewSessionID int64) (*models.SessionSummary, error) {
	review, err := s.reviews.ByID(ctx, reviewSessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotActive
	}
	if err != nil {
		return nil, err
	}
	if !review.Active() {
		summary := summarizeReview(review)
		return &summary, nil
	}

	total, correct, err := s.attempts.ReviewSessionTally(ctx, reviewSessionID)
	if err != nil {
		return nil, err
	}

	end := s.now()
	duration := int(end.Sub(review.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	var avg float64
	if n := len(review.QuestionIDs); n > 0 {
		avg = float64(duration) / float64(n)
	}

	won, err := s.reviews.Finish(ctx, reviewSessionID, end, duration, avg, correct, total)
	if err != nil {
		return nil, err
	}
	if !won {
		stored, err := s.reviews.ByID(ctx, reviewSessionID)
		if err != nil {
			return nil, err
		}
		summary := summarizeReview(stored)
		return &summary, nil
	}

	if _, err := s.streaks.OnSessionCompleted(ctx, review.AccountID, end); err != nil {
		s.log.Error("Streak update failed after review completion",
			zap.Int64("accountID", review.AccountID),
			zap.Int64("reviewSessionID", reviewSessionID),
			zap.Error(err))
	}

	review.EndedAt = &end
	review.DurationSeconds = duration
	review.AvgSecondsPerQuestion = avg
	review.CorrectCount = correct
	review.TotalCount = total

	s.log.Info("Final review session completed",
		zap.Int64("reviewSessionID", reviewSessionID),
		zap.Int("correct", correct),
		zap.Int("total", total))

	summary := summarizeReview(review)
	return &summary, nil
}

func summarizeReview(r *models.FinalReviewSession) models.SessionSummary {
	return models.SessionSummary{
		SessionID:             r.ID,
		AccountID:             r.AccountID,
		TotalQuestions:        len(r.QuestionIDs),
		TotalAttempts:         r.TotalCount,
		CorrectAttempts:       r.CorrectCount,
		Score:                 r.Score(),
		DurationSeconds:       r.DurationSeconds,
		AvgSecondsPerQuestion: r.AvgSecondsPerQuestion,
		StartedAt:             r.StartedAt,
		EndedAt:               r.EndedAt,
	}
}
