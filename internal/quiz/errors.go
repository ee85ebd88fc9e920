package quiz

import "errors"

var (
	// ErrSessionNotActive is returned when an answer or completion targets a
	// finished or nonexistent session.
	ErrSessionNotActive = errors.New("session is not active")

	// ErrEmptyReviewSet means the account has no eligible wrong questions for
	// the requested topic/source. Callers surface it as "nothing to review",
	// not as a failure.
	ErrEmptyReviewSet = errors.New("no questions eligible for review")

	// ErrDuplicateAttempt marks a replayed submit of an already-recorded
	// (session, question) pair. The original row stands; nothing is counted
	// twice.
	ErrDuplicateAttempt = errors.New("attempt already recorded for this question")

	// ErrInvalidOption rejects a selected option outside A-D.
	ErrInvalidOption = errors.New("selected option must be one of A, B, C, D")

	// ErrQuestionNotInSession rejects an answer for a question that is not
	// part of the session's fixed sequence.
	ErrQuestionNotInSession = errors.New("question is not part of this session")
)
