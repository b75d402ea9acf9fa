package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"triviaapi/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore backs local development and tests. LIKE is case-insensitive for
// ASCII in SQLite, which matches ILIKE for the question texts we carry.
type SQLiteStore struct {
	conn *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT,
		answer TEXT,
		difficulty INTEGER,
		category INTEGER
	);`,
	`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category);`,
}

func NewSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY under concurrent requests.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	for _, stmt := range sqliteSchema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	s.conn.Close()
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, COALESCE(type, '') FROM categories ORDER BY type`)
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

func (s *SQLiteStore) CreateCategory(ctx context.Context, categoryType string) (int, error) {
	res, err := s.conn.ExecContext(ctx, `INSERT INTO categories (type) VALUES (?)`, categoryType)
	if err != nil {
		return 0, fmt.Errorf("error creating category: %w", err)
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (s *SQLiteStore) queryQuestions(ctx context.Context, query string, args ...any) ([]models.Question, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
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

func (s *SQLiteStore) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

func (s *SQLiteStore) ListQuestionsByCategory(ctx context.Context, categoryID int) ([]models.Question, error) {
	return s.queryQuestions(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE category = ? ORDER BY id`, categoryID)
}

func (s *SQLiteStore) SearchQuestions(ctx context.Context, term string) ([]models.Question, error) {
	return s.queryQuestions(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE question LIKE '%' || ? || '%' ORDER BY id`, term)
}

func (s *SQLiteStore) CreateQuestion(ctx context.Context, q models.NewQuestion) (int, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO questions (question, answer, difficulty, category) VALUES (?, ?, ?, ?)`,
		q.Question, q.Answer, q.Difficulty, q.Category)
	if err != nil {
		return 0, fmt.Errorf("error creating question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing transaction: %w", err)
	}
	return int(id), nil
}

func (s *SQLiteStore) DeleteQuestion(ctx context.Context, id int) (bool, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting question %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("error committing transaction: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) RandomQuestion(ctx context.Context, categoryID int, exclude []int) (*models.Question, error) {
	var (
		where []string
		args  []any
	)
	if len(exclude) > 0 {
		where = append(where, `id NOT IN (`+strings.TrimSuffix(strings.Repeat("?,", len(exclude)), ",")+`)`)
		for _, id := range exclude {
			args = append(args, id)
		}
	}
	if categoryID != 0 {
		where = append(where, `category = ?`)
		args = append(args, categoryID)
	}

	query := `SELECT ` + questionColumns + ` FROM questions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY RANDOM() LIMIT 1`

	var q models.Question
	err := s.conn.QueryRowContext(ctx, query, args...).
		Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error picking quiz question: %w", err)
	}
	return &q, nil
}
