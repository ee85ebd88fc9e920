package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/config"
	logging "github.com/mshraky3/MEDQUIZ-sub001/internal/logging"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
)

// Open connects to postgres and runs migrations. The returned handle is the
// single pool for the process: opened at startup, injected into the
// repositories, closed by the caller on shutdown.
func Open(log *zap.Logger) (*gorm.DB, error) {
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logging.NewGormZapLogger(log),
		// Unique-constraint violations surface as gorm.ErrDuplicatedKey so the
		// ledger can absorb double-submits without driver-specific checks.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established successfully.")

	if err := Migrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the declarative schema. GORM's AutoMigrate creates tables,
// columns, and the indexes declared on the models; the hot ledger-scan path
// gets an explicit composite index on top. Safe to run repeatedly.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&models.Account{},
		&models.Question{},
		&models.QuizSession{},
		&models.FinalReviewSession{},
		&models.QuestionAttempt{},
		&models.FinalQuizAttempt{},
		&models.Streak{},
	)
	if err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ledgerIndex := `CREATE INDEX IF NOT EXISTS idx_attempts_ledger_scan ON question_attempts (account_id, question_id, created_at DESC);`
	if err := db.Exec(ledgerIndex).Error; err != nil {
		return fmt.Errorf("failed to create ledger index: %w", err)
	}

	log.Info("Database migrations completed successfully.")
	return nil
}
