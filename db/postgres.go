package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"triviaapi/config"
	"triviaapi/logger"
	"triviaapi/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const pingTimeout = 10 * time.Second

const questionColumns = `id, COALESCE(question, ''), COALESCE(answer, ''), COALESCE(category, 0), COALESCE(difficulty, 0)`

type PostgresStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

var _ Store = (*PostgresStore)(nil)

// DSN builds a postgres URL from cfg, escaping the password.
func DSN(cfg config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), hostPort, cfg.Name, cfg.SSLMode)
}

func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, env string, log zerolog.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if env == "local" {
		poolCfg.ConnConfig.Tracer = logger.NewPgxTracer(log)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to postgres")
	return &PostgresStore{pool: pool, log: log}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.log.Info().Msg("closing database connection pool")
	s.pool.Close()
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, COALESCE(type, '') FROM categories ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *PostgresStore) CreateCategory(ctx context.Context, categoryType string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO categories (type) VALUES ($1) RETURNING id`, categoryType).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating category: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) queryQuestions(ctx context.Context, query string, args ...any) ([]models.Question, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("error scanning question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *PostgresStore) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

func (s *PostgresStore) ListQuestionsByCategory(ctx context.Context, categoryID int) ([]models.Question, error) {
	return s.queryQuestions(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE category = $1 ORDER BY id`, categoryID)
}

func (s *PostgresStore) SearchQuestions(ctx context.Context, term string) ([]models.Question, error) {
	return s.queryQuestions(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE question ILIKE '%' || $1::text || '%' ORDER BY id`, term)
}

func (s *PostgresStore) CreateQuestion(ctx context.Context, q models.NewQuestion) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx,
		`INSERT INTO questions (question, answer, difficulty, category) VALUES ($1, $2, $3, $4) RETURNING id`,
		q.Question, q.Answer, q.Difficulty, q.Category).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating question: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("error committing transaction: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) DeleteQuestion(ctx context.Context, id int) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var found int
	err = tx.QueryRow(ctx, `SELECT id FROM questions WHERE id = $1 FOR UPDATE`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error fetching question %d: %w", id, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id); err != nil {
		return false, fmt.Errorf("error deleting question %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("error committing transaction: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) RandomQuestion(ctx context.Context, categoryID int, exclude []int) (*models.Question, error) {
	if exclude == nil {
		exclude = []int{}
	}

	query := `SELECT ` + questionColumns + ` FROM questions WHERE NOT (id = ANY($1))`
	args := []any{exclude}
	if categoryID != 0 {
		query += ` AND category = $2`
		args = append(args, categoryID)
	}
	query += ` ORDER BY random() LIMIT 1`

	var q models.Question
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error picking quiz question: %w", err)
	}
	return &q, nil
}
