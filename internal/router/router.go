package router

import (
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/explain"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/handlers"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/quiz"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/repository"
)

// Deps bundles everything the HTTP surface needs. Authentication is handled
// upstream (accounts arrive provisioned); this service trusts the account id
// in the path.
type Deps struct {
	Sessions  *quiz.SessionService
	Mastery   *quiz.MasteryService
	Streaks   *quiz.StreakService
	Questions *repository.Questions
	Explainer explain.Explainer
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

// Setup builds the Gin engine with recovery, request logging, hardening
// headers, and the API routes.
func Setup(log *zap.Logger, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	sessionHandler := handlers.NewSessionHandler(log, deps.Sessions)
	reviewHandler := handlers.NewReviewHandler(log, deps.Sessions)
	analyticsHandler := handlers.NewAnalyticsHandler(log, deps.Mastery, deps.Streaks)
	explainHandler := handlers.NewExplainHandler(log, deps.Questions, deps.Explainer)

	// Session starts draw from the whole catalog; keep them behind a limiter
	// so a misbehaving client cannot hammer the random-draw query.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 30,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateErrorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		accounts := api.Group("/accounts/:id")
		{
			accounts.POST("/sessions", limiter, sessionHandler.Start)
			accounts.POST("/review-sessions", limiter, reviewHandler.Start)

			accounts.GET("/analytics/topics", analyticsHandler.Topics)
			accounts.GET("/analytics/wrong-questions", analyticsHandler.WrongQuestions)
			accounts.GET("/attempts", analyticsHandler.Attempts)
			accounts.GET("/analytics/overview", analyticsHandler.Overview)
			accounts.GET("/sessions/recent", analyticsHandler.RecentSessions)
			accounts.GET("/streak", analyticsHandler.Streak)
		}

		sessions := api.Group("/sessions/:id")
		{
			sessions.GET("/questions", sessionHandler.Questions)
			sessions.POST("/answers", sessionHandler.SubmitAnswer)
			sessions.POST("/complete", sessionHandler.Complete)
		}

		reviews := api.Group("/review-sessions/:id")
		{
			reviews.GET("/questions", reviewHandler.Questions)
			reviews.POST("/answers", reviewHandler.SubmitAnswer)
			reviews.POST("/complete", reviewHandler.Complete)
		}

		api.GET("/leaderboard/streaks", analyticsHandler.Leaderboard)
		api.GET("/questions/:id/explanation", explainHandler.Explanation)
	}

	return router
}
