package services

import (
	"context"
	_ "embed"
	"fmt"
	"io"

	"triviaapi/db"
	"triviaapi/models"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/trivia.yaml
var defaultFixtures []byte

// Fixtures is the YAML seed format. Questions refer to categories by type.
type Fixtures struct {
	Categories []string          `yaml:"categories"`
	Questions  []QuestionFixture `yaml:"questions"`
}

type QuestionFixture struct {
	Question   string `yaml:"question"`
	Answer     string `yaml:"answer"`
	Difficulty int    `yaml:"difficulty"`
	Category   string `yaml:"category"`
}

type SeedResult struct {
	CategoriesCreated int
	QuestionsCreated  int
}

func DefaultFixtures() (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(defaultFixtures, &f); err != nil {
		return nil, fmt.Errorf("error parsing embedded fixtures: %w", err)
	}
	return &f, nil
}

func LoadFixtures(r io.Reader) (*Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("error parsing fixtures: %w", err)
	}
	return &f, nil
}

// Seed inserts the fixtures. Categories that already exist (by type) are
// reused; questions are always inserted.
func Seed(ctx context.Context, store db.Store, f *Fixtures) (SeedResult, error) {
	var res SeedResult

	existing, err := store.ListCategories(ctx)
	if err != nil {
		return res, err
	}
	ids := make(map[string]int, len(existing))
	for _, c := range existing {
		ids[c.Type] = c.ID
	}

	for _, typ := range f.Categories {
		if _, ok := ids[typ]; ok {
			continue
		}
		id, err := store.CreateCategory(ctx, typ)
		if err != nil {
			return res, err
		}
		ids[typ] = id
		res.CategoriesCreated++
	}

	for i, q := range f.Questions {
		categoryID, ok := ids[q.Category]
		if !ok {
			return res, fmt.Errorf("question %d: unknown category %q", i+1, q.Category)
		}
		question, answer, difficulty := q.Question, q.Answer, q.Difficulty
		if _, err := store.CreateQuestion(ctx, models.NewQuestion{
			Question:   &question,
			Answer:     &answer,
			Difficulty: &difficulty,
			Category:   &categoryID,
		}); err != nil {
			return res, err
		}
		res.QuestionsCreated++
	}

	return res, nil
}
