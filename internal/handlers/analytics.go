package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/quiz"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/repository"
)

type AnalyticsHandler struct {
	log     *zap.Logger
	mastery *quiz.MasteryService
	streaks *quiz.StreakService
}

func NewAnalyticsHandler(log *zap.Logger, mastery *quiz.MasteryService, streaks *quiz.StreakService) *AnalyticsHandler {
	return &AnalyticsHandler{log: log, mastery: mastery, streaks: streaks}
}

// Topics returns the per-topic accuracy breakdown.
func (h *AnalyticsHandler) Topics(c *gin.Context) {
	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}
	topics, err := h.mastery.AccuracyByTopic(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// WrongQuestions returns the account's wrong-question ids, optionally
// narrowed by topic/source/date range, with latest_only switching the
// eligibility rule.
func (h *AnalyticsHandler) WrongQuestions(c *gin.Context) {
	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}

	filters := quiz.WrongFilters{
		Topic:      c.Query("topic"),
		Source:     c.Query("source"),
		LatestOnly: c.Query("latest_only") == "true",
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filters.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filters.To = &to
	}

	ids, err := h.mastery.WrongQuestionIDs(c.Request.Context(), accountID, filters)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question_ids": ids})
}

// Attempts returns the account's answer history from the ledger, narrowed by
// correctness, topic, source, session, and date-range query parameters.
func (h *AnalyticsHandler) Attempts(c *gin.Context) {
	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}

	filters := repository.AttemptFilters{
		Topic:     c.Query("topic"),
		Source:    c.Query("source"),
		Ascending: c.Query("order") == "asc",
	}
	if v := c.Query("correct"); v != "" {
		correct := v == "true"
		filters.Correct = &correct
	}
	if sid, err := strconv.ParseInt(c.Query("session_id"), 10, 64); err == nil && sid > 0 {
		filters.SessionID = &sid
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filters.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filters.To = &to
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filters.Limit = limit
	}

	attempts, err := h.mastery.AttemptHistory(c.Request.Context(), accountID, filters)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

// Overview returns the account-level analytics snapshot.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}
	overview, err := h.mastery.Overview(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// RecentSessions returns the account's completed sessions, newest first.
func (h *AnalyticsHandler) RecentSessions(c *gin.Context) {
	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	sessions, err := h.mastery.RecentSessions(c.Request.Context(), accountID, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// Streak returns the account's current streak counters.
func (h *AnalyticsHandler) Streak(c *gin.Context) {
	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}
	streak, err := h.streaks.Current(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

// Leaderboard returns the top current streaks across all accounts.
func (h *AnalyticsHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.streaks.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
