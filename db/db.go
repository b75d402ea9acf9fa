package db

import (
	"context"
	"fmt"

	"triviaapi/config"
	"triviaapi/models"

	"github.com/rs/zerolog"
)

// Store is the persistence surface the handlers and the seeder need.
// A missing row is reported as nil (or false), never as an error.
type Store interface {
	// ListCategories returns every category ordered by type.
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, categoryType string) (int, error)

	// ListQuestions returns every question ordered by id.
	ListQuestions(ctx context.Context) ([]models.Question, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int) ([]models.Question, error)
	// SearchQuestions matches term as a case-insensitive substring of the question text.
	SearchQuestions(ctx context.Context, term string) ([]models.Question, error)
	CreateQuestion(ctx context.Context, q models.NewQuestion) (int, error)
	// DeleteQuestion reports whether a row with id existed and was removed.
	DeleteQuestion(ctx context.Context, id int) (bool, error)
	// RandomQuestion picks a question not in exclude, limited to categoryID unless it is 0.
	RandomQuestion(ctx context.Context, categoryID int, exclude []int) (*models.Question, error)

	Ping(ctx context.Context) error
	Close()
}

// Connect opens the store selected by cfg.Driver and makes sure its schema exists.
func Connect(ctx context.Context, cfg config.DatabaseConfig, env string, logger zerolog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if err := Migrate(ctx, cfg, logger); err != nil {
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		return NewPostgres(ctx, cfg, env, logger)
	case config.DriverSQLite:
		return NewSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
