package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/config"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/database"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/explain"
	logger "github.com/mshraky3/MEDQUIZ-sub001/internal/logging"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/quiz"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/repository"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/router"
)

func main() {
	// Bootstrap logger so configuration loading has somewhere to report.
	bootLog, err := logger.Init(logger.DefaultOptions())
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	if err := config.Init(".", bootLog); err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Rebuild the logger with the configured rotation settings.
	lc := config.Conf.Logging
	log, err := logger.Init(logger.Options{
		Directory:  lc.Directory,
		MaxSize:    lc.MaxSize,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAge,
		Compress:   lc.Compress,
	})
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	db, err := database.Open(log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	var rdb *redis.Client
	if config.Conf.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%s", config.Conf.Redis.Host, config.Conf.Redis.Port),
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unreachable, continuing without it", zap.Error(err))
			rdb = nil
		}
	}

	// Repositories share the one connection pool opened above.
	accounts := repository.NewAccounts(db)
	questions := repository.NewQuestions(db)
	sessions := repository.NewSessions(db)
	reviews := repository.NewReviewSessions(db)
	attempts := repository.NewAttempts(db)
	analytics := repository.NewAnalytics(db)
	streaks := repository.NewStreaks(db)
	board := repository.NewLeaderboard(rdb)
	guard := repository.NewSubmitGuard(rdb)

	seedCatalog(log, questions)

	quizConf := config.Conf.Quiz
	masterySvc := quiz.NewMasteryService(log, analytics, attempts, sessions, streaks, quizConf.ReviewFeedsMastery)
	streakSvc := quiz.NewStreakService(log, streaks, board)
	sessionSvc := quiz.NewSessionService(log, accounts, questions, sessions, reviews, attempts,
		masterySvc, streakSvc, guard, quizConf.ReviewTimeLimitSeconds)

	refresher := quiz.NewLeaderboardRefresher(log, streaks, board, time.Hour)
	refresher.Start(context.Background())

	explainConf := config.Conf.Explain
	explainer := explain.NewHTTPClient(explainConf.URL,
		time.Duration(explainConf.TimeoutSeconds)*time.Second)

	r := router.Setup(log, router.Deps{
		Sessions:  sessionSvc,
		Mastery:   masterySvc,
		Streaks:   streakSvc,
		Questions: questions,
		Explainer: explainer,
	})

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}

// seedCatalog applies the question seed file when present. A missing file is
// fine; the catalog may be provisioned directly in the database.
func seedCatalog(log *zap.Logger, questions *repository.Questions) {
	path := config.Conf.Quiz.CatalogPath
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Info("No question catalog file, skipping seed", zap.String("path", path))
		return
	}

	catalog, err := models.LoadCatalog(path)
	if err != nil {
		log.Fatal("Failed to load question catalog", zap.Error(err))
	}
	if err := questions.Seed(context.Background(), catalog); err != nil {
		log.Fatal("Failed to seed question catalog", zap.Error(err))
	}
	log.Info("Question catalog seeded", zap.Int("questions", len(catalog.Questions)))
}
