package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/config"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/quiz"
)

type SessionHandler struct {
	log *zap.Logger
	svc *quiz.SessionService
}

func NewSessionHandler(log *zap.Logger, svc *quiz.SessionService) *SessionHandler {
	return &SessionHandler{log: log, svc: svc}
}

type startSessionRequest struct {
	QuestionCount int `json:"question_count" binding:"omitempty,min=1,max=200"`
}

type submitAnswerRequest struct {
	QuestionID       int64   `json:"question_id" binding:"required"`
	SelectedOption   string  `json:"selected_option" binding:"required"`
	TimeTakenSeconds float64 `json:"time_taken_seconds" binding:"omitempty,min=0"`
}

// Start creates a new practice session for the account in the path.
func (h *SessionHandler) Start(c *gin.Context) {
	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	count := req.QuestionCount
	if count <= 0 {
		count = config.Conf.Quiz.DefaultQuestionCount
	}

	session, err := h.svc.StartSession(c.Request.Context(), accountID, count)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Questions returns the session's fixed question sequence.
func (h *SessionHandler) Questions(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	questions, err := h.svc.SessionQuestions(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// SubmitAnswer records one answer for the session in the path.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.svc.SubmitAnswer(c.Request.Context(), sessionID, req.QuestionID, req.SelectedOption, req.TimeTakenSeconds)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

// Complete finishes the session and returns its summary. Repeat calls get
// the same summary without re-running side effects.
func (h *SessionHandler) Complete(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.svc.CompleteSession(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// pathID parses a positive int64 path parameter, writing the 400 itself.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
