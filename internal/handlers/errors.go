package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/quiz"
)

// respondError translates service errors into HTTP responses. The review
// empty-set case is handled by its own handler since it is an informational
// state, not an error.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, quiz.ErrDuplicateAttempt):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, quiz.ErrInvalidOption), errors.Is(err, quiz.ErrQuestionNotInSession):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
