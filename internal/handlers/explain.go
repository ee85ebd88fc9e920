package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/explain"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/quiz"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/repository"
)

type ExplainHandler struct {
	log       *zap.Logger
	questions *repository.Questions
	explainer explain.Explainer
}

func NewExplainHandler(log *zap.Logger, questions *repository.Questions, explainer explain.Explainer) *ExplainHandler {
	return &ExplainHandler{log: log, questions: questions, explainer: explainer}
}

// Explanation asks the external service to explain a question given the
// selected option. The service is best effort: any failure degrades to an
// "explanation unavailable" body with available=false, never an error status.
func (h *ExplainHandler) Explanation(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	selected := c.Query("selected")
	if !models.ValidOption(selected) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": quiz.ErrInvalidOption.Error()})
		return
	}

	question, err := h.questions.ByID(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	text, err := h.explainer.Explain(c.Request.Context(), question, selected)
	if err != nil {
		h.log.Warn("Explanation service failed",
			zap.Int64("questionID", questionID), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"explanation": explain.Unavailable, "available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"explanation": text, "available": true})
}
