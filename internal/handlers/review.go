package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/config"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/quiz"
)

type ReviewHandler struct {
	log *zap.Logger
	svc *quiz.SessionService
}

func NewReviewHandler(log *zap.Logger, svc *quiz.SessionService) *ReviewHandler {
	return &ReviewHandler{log: log, svc: svc}
}

type startReviewRequest struct {
	QuestionType string `json:"question_type" binding:"required"`
	Source       string `json:"source"`
	LatestOnly   *bool  `json:"latest_only"`
}

// Start creates a final review session over the account's wrong questions.
// An empty review set is a 200 with nothing_to_review, not an error.
func (h *ReviewHandler) Start(c *gin.Context) {
	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req startReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	latestOnly := config.Conf.Quiz.ReviewLatestOnly
	if req.LatestOnly != nil {
		latestOnly = *req.LatestOnly
	}

	review, err := h.svc.StartFinalReview(c.Request.Context(), accountID, req.QuestionType, req.Source, latestOnly)
	if errors.Is(err, quiz.ErrEmptyReviewSet) {
		c.JSON(http.StatusOK, gin.H{"nothing_to_review": true})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// Questions returns the review session's snapshot question list.
func (h *ReviewHandler) Questions(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	questions, err := h.svc.ReviewQuestions(c.Request.Context(), reviewID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// SubmitAnswer records one answer against the review session.
func (h *ReviewHandler) SubmitAnswer(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.svc.SubmitReviewAnswer(c.Request.Context(), reviewID, req.QuestionID, req.SelectedOption, req.TimeTakenSeconds)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

// Complete finishes the review session and returns its summary.
func (h *ReviewHandler) Complete(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.svc.CompleteReviewSession(c.Request.Context(), reviewID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
