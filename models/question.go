package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// NewQuestion carries the create payload as received. Nil fields are stored as NULL.
type NewQuestion struct {
	Question   *string
	Answer     *string
	Difficulty *int
	Category   *int
}

// FlexInt decodes either a JSON number or a numeric string.
// The web client posts category ids taken from object keys, which are strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		*f = FlexInt(n)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	i, err := n.Int64()
	if err != nil {
		// 3.0 is accepted, 3.5 is not.
		fl, ferr := n.Float64()
		if ferr != nil || fl != float64(int64(fl)) {
			return fmt.Errorf("invalid integer %s", n)
		}
		i = int64(fl)
	}
	*f = FlexInt(i)
	return nil
}

func (f *FlexInt) IntPtr() *int {
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

// QuestionsRequest is the body of POST /questions. It is exactly one of
// SearchQuestions or CreateQuestion.
type QuestionsRequest interface {
	isQuestionsRequest()
}

type SearchQuestions struct {
	SearchTerm string
}

type CreateQuestion struct {
	Question   *string  `json:"question"`
	Answer     *string  `json:"answer"`
	Difficulty *FlexInt `json:"difficulty"`
	Category   *FlexInt `json:"category"`
}

func (SearchQuestions) isQuestionsRequest() {}
func (CreateQuestion) isQuestionsRequest()  {}

func (c CreateQuestion) NewQuestion() NewQuestion {
	return NewQuestion{
		Question:   c.Question,
		Answer:     c.Answer,
		Difficulty: c.Difficulty.IntPtr(),
		Category:   c.Category.IntPtr(),
	}
}

var ErrNotAnObject = errors.New("request body must be a JSON object")

// DecodeQuestionsRequest picks the variant by the presence of a non-null searchTerm.
func DecodeQuestionsRequest(body []byte) (QuestionsRequest, error) {
	var probe struct {
		SearchTerm *string `json:"searchTerm"`
		CreateQuestion
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotAnObject
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, err
	}
	if probe.SearchTerm != nil {
		return SearchQuestions{SearchTerm: *probe.SearchTerm}, nil
	}
	return probe.CreateQuestion, nil
}

type QuizCategory struct {
	ID   FlexInt `json:"id"`
	Type string  `json:"type,omitempty"`
}

type QuizRequest struct {
	PreviousQuestions []int         `json:"previous_questions"`
	QuizCategory      *QuizCategory `json:"quiz_category" validate:"required"`
}
