package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"triviaapi/auth"
	"triviaapi/config"
	"triviaapi/db"
	"triviaapi/handlers"
	"triviaapi/models"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testAPI struct {
	store  *db.SQLiteStore
	router http.Handler
}

func setupAPI(t *testing.T, opts handlers.Options) *testAPI {
	t.Helper()
	store, err := db.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "trivia.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(store.Close)

	h := handlers.New(store, opts)
	router := handlers.NewRouter(h, handlers.RouterOptions{
		Logger:             zerolog.Nop(),
		CORSAllowedOrigins: []string{"*"},
	})
	return &testAPI{store: store, router: router}
}

// seed adds the given categories and n questions spread over them round-robin.
func (a *testAPI) seed(t *testing.T, categories []string, n int) []int {
	t.Helper()
	ctx := context.Background()
	var catIDs []int
	for _, c := range categories {
		id, err := a.store.CreateCategory(ctx, c)
		if err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
		catIDs = append(catIDs, id)
	}
	var ids []int
	for i := range n {
		text := fmt.Sprintf("Question %d?", i+1)
		answer := fmt.Sprintf("Answer %d", i+1)
		cat := catIDs[i%len(catIDs)]
		diff := i%5 + 1
		id, err := a.store.CreateQuestion(ctx, models.NewQuestion{
			Question: &text, Answer: &answer, Category: &cat, Difficulty: &diff,
		})
		if err != nil {
			t.Fatalf("CreateQuestion: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func (a *testAPI) do(t *testing.T, method, target string, body any, header ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: response is not JSON: %q", method, target, w.Body.String())
	}
	return w, out
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, body map[string]any, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d got %d (%v)", status, w.Code, body)
	}
	if body["success"] != false || body["error"] != float64(status) || body["message"] != message {
		t.Fatalf("unexpected error envelope %v", body)
	}
}

func TestGetCategories(t *testing.T) {
	api := setupAPI(t, handlers.Options{})

	w, body := api.do(t, http.MethodGet, "/categories", nil)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("expected 200 success on empty store, got %d %v", w.Code, body)
	}
	if cats, ok := body["categories"].(map[string]any); !ok || len(cats) != 0 {
		t.Fatalf("expected empty categories object, got %v", body["categories"])
	}

	api.seed(t, []string{"Science", "Art", "Geography"}, 0)
	w, body = api.do(t, http.MethodGet, "/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	cats := body["categories"].(map[string]any)
	want := map[string]string{"1": "Science", "2": "Art", "3": "Geography"}
	if len(cats) != len(want) {
		t.Fatalf("expected %d categories got %v", len(want), cats)
	}
	for id, typ := range want {
		if cats[id] != typ {
			t.Fatalf("category %s: expected %q got %v", id, typ, cats[id])
		}
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET,POST,DELETE,OPTIONS" {
		t.Fatalf("expected allow-methods header, got %q", got)
	}
}

func TestStrictNotFound(t *testing.T) {
	api := setupAPI(t, handlers.Options{StrictNotFound: true})

	w, body := api.do(t, http.MethodGet, "/categories", nil)
	expectError(t, w, body, http.StatusNotFound, "resource not found")

	w, body = api.do(t, http.MethodGet, "/questions", nil)
	expectError(t, w, body, http.StatusNotFound, "resource not found")
}

func TestGetQuestionsPaginates(t *testing.T) {
	api := setupAPI(t, handlers.Options{})
	api.seed(t, []string{"Science", "Art"}, 15)

	w, body := api.do(t, http.MethodGet, "/questions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if n := len(body["questions"].([]any)); n != 10 {
		t.Fatalf("expected 10 questions on page 1, got %d", n)
	}
	if body["total_questions"] != float64(15) {
		t.Fatalf("expected total 15, got %v", body["total_questions"])
	}
	if cats := body["categories"].(map[string]any); len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %v", cats)
	}
	first := body["questions"].([]any)[0].(map[string]any)
	for _, key := range []string{"id", "question", "answer", "category", "difficulty"} {
		if _, ok := first[key]; !ok {
			t.Fatalf("question is missing %q: %v", key, first)
		}
	}

	_, body = api.do(t, http.MethodGet, "/questions?page=2", nil)
	if n := len(body["questions"].([]any)); n != 5 {
		t.Fatalf("expected 5 questions on page 2, got %d", n)
	}

	w, body = api.do(t, http.MethodGet, "/questions?page=1000", nil)
	if w.Code != http.StatusOK || len(body["questions"].([]any)) != 0 || body["total_questions"] != float64(15) {
		t.Fatalf("expected empty 200 page, got %d %v", w.Code, body)
	}

	_, body = api.do(t, http.MethodGet, "/questions?page=abc", nil)
	if n := len(body["questions"].([]any)); n != 10 {
		t.Fatalf("non-numeric page should fall back to 1, got %d items", n)
	}
}

func TestDeleteQuestion(t *testing.T) {
	api := setupAPI(t, handlers.Options{})
	ids := api.seed(t, []string{"Science"}, 3)

	w, body := api.do(t, http.MethodDelete, "/questions/9999", nil)
	expectError(t, w, body, http.StatusUnprocessableEntity, "unprocessable")
	_, body = api.do(t, http.MethodGet, "/questions", nil)
	if body["total_questions"] != float64(3) {
		t.Fatalf("failed delete must leave the store unchanged, got %v", body["total_questions"])
	}

	w, body = api.do(t, http.MethodDelete, fmt.Sprintf("/questions/%d", ids[1]), nil)
	if w.Code != http.StatusOK || body["success"] != true || body["deleted"] != float64(ids[1]) {
		t.Fatalf("unexpected delete response %d %v", w.Code, body)
	}

	_, body = api.do(t, http.MethodGet, "/questions", nil)
	if body["total_questions"] != float64(2) {
		t.Fatalf("expected 2 questions after delete, got %v", body["total_questions"])
	}
	for _, q := range body["questions"].([]any) {
		if q.(map[string]any)["id"] == float64(ids[1]) {
			t.Fatalf("deleted question still listed")
		}
	}

	w, body = api.do(t, http.MethodDelete, "/questions/abc", nil)
	expectError(t, w, body, http.StatusNotFound, "resource not found")
}

func TestCreateQuestion(t *testing.T) {
	api := setupAPI(t, handlers.Options{})
	api.seed(t, []string{"Science"}, 2)

	w, body := api.do(t, http.MethodPost, "/questions", map[string]any{
		"question": "Q1", "answer": "A1", "difficulty": 3, "category": 1,
	})
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("unexpected create response %d %v", w.Code, body)
	}
	if len(body) != 1 {
		t.Fatalf("create should only echo success, got %v", body)
	}

	_, body = api.do(t, http.MethodGet, "/questions", nil)
	if body["total_questions"] != float64(3) {
		t.Fatalf("expected total to grow to 3, got %v", body["total_questions"])
	}
	found := false
	for _, q := range body["questions"].([]any) {
		qm := q.(map[string]any)
		if qm["question"] == "Q1" {
			found = true
			if qm["answer"] != "A1" || qm["difficulty"] != float64(3) || qm["category"] != float64(1) {
				t.Fatalf("unexpected stored question %v", qm)
			}
		}
	}
	if !found {
		t.Fatalf("created question not listed")
	}

	// The web client sends the category as a string.
	w, _ = api.do(t, http.MethodPost, "/questions", `{"question":"Q2","answer":"A2","difficulty":"2","category":"1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected string ids to be accepted, got %d", w.Code)
	}

	// searchTerm: null is the create variant.
	w, _ = api.do(t, http.MethodPost, "/questions", `{"searchTerm":null,"question":"Q3"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected create with null searchTerm, got %d", w.Code)
	}
	_, body = api.do(t, http.MethodGet, "/questions", nil)
	if body["total_questions"] != float64(5) {
		t.Fatalf("expected 5 questions, got %v", body["total_questions"])
	}
}

func TestSearchQuestions(t *testing.T) {
	api := setupAPI(t, handlers.Options{})
	api.seed(t, []string{"Literature"}, 0)
	ctx := context.Background()
	texts := []string{
		"What is the TITLE of the first Harry Potter book?",
		"Who wrote the novel with the title 'Dune'?",
		"What is the heaviest organ in the human body?",
	}
	for _, text := range texts {
		if _, err := api.store.CreateQuestion(ctx, models.NewQuestion{Question: &text}); err != nil {
			t.Fatalf("CreateQuestion: %v", err)
		}
	}

	w, body := api.do(t, http.MethodPost, "/questions", map[string]any{"searchTerm": "title"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if body["total_questions"] != float64(2) {
		t.Fatalf("expected 2 matches, got %v", body["total_questions"])
	}
	for _, q := range body["questions"].([]any) {
		text := q.(map[string]any)["question"].(string)
		if !strings.Contains(strings.ToLower(text), "title") {
			t.Fatalf("unexpected match %q", text)
		}
	}
	if _, ok := body["categories"]; ok {
		t.Fatalf("search response must not carry categories")
	}
	if _, ok := body["current_category"]; ok {
		t.Fatalf("search response must not carry current_category")
	}

	_, body = api.do(t, http.MethodPost, "/questions", map[string]any{"searchTerm": ""})
	if body["total_questions"] != float64(3) {
		t.Fatalf("empty searchTerm should match all, got %v", body["total_questions"])
	}

	_, body = api.do(t, http.MethodPost, "/questions", map[string]any{"searchTerm": "zzz"})
	if qs := body["questions"].([]any); len(qs) != 0 || body["total_questions"] != float64(0) {
		t.Fatalf("expected no matches, got %v", body)
	}
}

func TestPostQuestionsBadBody(t *testing.T) {
	api := setupAPI(t, handlers.Options{})

	w, body := api.do(t, http.MethodPost, "/questions", "{not json")
	expectError(t, w, body, http.StatusBadRequest, "bad request")

	w, body = api.do(t, http.MethodPost, "/questions", `{"searchTerm": 5}`)
	expectError(t, w, body, http.StatusBadRequest, "bad request")

	w, body = api.do(t, http.MethodPost, "/questions", `[]`)
	expectError(t, w, body, http.StatusBadRequest, "bad request")
}

func TestGetCategoryQuestions(t *testing.T) {
	api := setupAPI(t, handlers.Options{})
	api.seed(t, []string{"Science", "Art"}, 24)

	w, body := api.do(t, http.MethodGet, "/categories/2/questions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if body["total_questions"] != float64(12) || body["current_category"] != float64(2) {
		t.Fatalf("unexpected body %v", body)
	}
	qs := body["questions"].([]any)
	if len(qs) != 10 {
		t.Fatalf("expected a full page, got %d", len(qs))
	}
	for _, q := range qs {
		if q.(map[string]any)["category"] != float64(2) {
			t.Fatalf("question from wrong category: %v", q)
		}
	}

	_, body = api.do(t, http.MethodGet, "/categories/2/questions?page=2", nil)
	if n := len(body["questions"].([]any)); n != 2 {
		t.Fatalf("expected 2 on page 2, got %d", n)
	}

	w, body = api.do(t, http.MethodGet, "/categories/77/questions", nil)
	if w.Code != http.StatusOK || body["total_questions"] != float64(0) || body["current_category"] != float64(77) {
		t.Fatalf("unknown category should be an empty 200, got %d %v", w.Code, body)
	}
}

func TestPlayQuiz(t *testing.T) {
	api := setupAPI(t, handlers.Options{})
	ids := api.seed(t, []string{"Science", "Art"}, 6)

	w, body := api.do(t, http.MethodPost, "/quizzes", map[string]any{
		"previous_questions": []int{},
		"quiz_category":      map[string]any{"id": 0, "type": "click"},
	})
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("unexpected quiz response %d %v", w.Code, body)
	}
	if _, ok := body["question"].(map[string]any); !ok {
		t.Fatalf("expected a question, got %v", body)
	}

	_, body = api.do(t, http.MethodPost, "/quizzes", map[string]any{
		"previous_questions": ids,
		"quiz_category":      map[string]any{"id": 0},
	})
	if _, ok := body["question"]; ok {
		t.Fatalf("expected no question once all were seen, got %v", body)
	}
	if body["success"] != true {
		t.Fatalf("quiz over is still a success, got %v", body)
	}

	// Category 2 holds ids[1], ids[3], ids[5]; exclude two of them.
	for range 10 {
		_, body = api.do(t, http.MethodPost, "/quizzes", map[string]any{
			"previous_questions": []int{ids[1], ids[3]},
			"quiz_category":      map[string]any{"id": "2", "type": "Art"},
		})
		q := body["question"].(map[string]any)
		if q["id"] != float64(ids[5]) {
			t.Fatalf("expected question %d, got %v", ids[5], q)
		}
	}
}

func TestPlayQuizBadBody(t *testing.T) {
	api := setupAPI(t, handlers.Options{})

	w, body := api.do(t, http.MethodPost, "/quizzes", map[string]any{"previous_questions": []int{}})
	expectError(t, w, body, http.StatusBadRequest, "bad request")

	w, body = api.do(t, http.MethodPost, "/quizzes", "nope")
	expectError(t, w, body, http.StatusBadRequest, "bad request")
}

func TestRoutingErrors(t *testing.T) {
	api := setupAPI(t, handlers.Options{})

	w, body := api.do(t, http.MethodGet, "/nowhere", nil)
	expectError(t, w, body, http.StatusNotFound, "resource not found")

	w, body = api.do(t, http.MethodPut, "/questions", nil)
	expectError(t, w, body, http.StatusMethodNotAllowed, "method not allowed")

	w, body = api.do(t, http.MethodDelete, "/categories", nil)
	expectError(t, w, body, http.StatusMethodNotAllowed, "method not allowed")
}

func TestPreflightCarriesAllowHeaders(t *testing.T) {
	api := setupAPI(t, handlers.Options{})

	for _, target := range []string{"/questions", "/quizzes", "/questions/3"} {
		req := httptest.NewRequest(http.MethodOptions, target, nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		w := httptest.NewRecorder()
		api.router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 for preflight, got %d", target, w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("%s: expected Allow-Origin *, got %q", target, got)
		}
		if !slices.Contains(w.Header().Values("Access-Control-Allow-Headers"), "Content-Type,Authorization,true") {
			t.Fatalf("%s: missing permissive Allow-Headers: %v", target, w.Header().Values("Access-Control-Allow-Headers"))
		}
		if !slices.Contains(w.Header().Values("Access-Control-Allow-Methods"), "GET,POST,DELETE,OPTIONS") {
			t.Fatalf("%s: missing permissive Allow-Methods: %v", target, w.Header().Values("Access-Control-Allow-Methods"))
		}
	}
}

func TestHealth(t *testing.T) {
	api := setupAPI(t, handlers.Options{})
	w, body := api.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("unexpected health response %d %v", w.Code, body)
	}
}

func TestAdminGuard(t *testing.T) {
	hash, err := auth.HashPassword("letmein")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	manager := auth.NewManager(config.AuthConfig{Secret: "secret", AdminPasswordHash: hash, TokenTTL: time.Hour})
	api := setupAPI(t, handlers.Options{Auth: manager})
	ids := api.seed(t, []string{"Science"}, 2)

	w, body := api.do(t, http.MethodDelete, fmt.Sprintf("/questions/%d", ids[0]), nil)
	expectError(t, w, body, http.StatusUnauthorized, "unauthorized")

	w, body = api.do(t, http.MethodPost, "/questions", map[string]any{"question": "Q"})
	expectError(t, w, body, http.StatusUnauthorized, "unauthorized")

	// Search stays open.
	w, _ = api.do(t, http.MethodPost, "/questions", map[string]any{"searchTerm": "Question"})
	if w.Code != http.StatusOK {
		t.Fatalf("search should not need a token, got %d", w.Code)
	}

	w, body = api.do(t, http.MethodPost, "/login", map[string]any{"password": "wrong"})
	expectError(t, w, body, http.StatusUnauthorized, "unauthorized")

	w, body = api.do(t, http.MethodPost, "/login", map[string]any{})
	expectError(t, w, body, http.StatusBadRequest, "bad request")

	w, body = api.do(t, http.MethodPost, "/login", map[string]any{"password": "letmein"})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %v", w.Code, body)
	}
	token := body["token"].(string)

	w, _ = api.do(t, http.MethodDelete, fmt.Sprintf("/questions/%d", ids[0]), nil, "Authorization", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete with token should pass, got %d", w.Code)
	}
	w, _ = api.do(t, http.MethodPost, "/questions", map[string]any{"question": "Q"}, "Authorization", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("create with token should pass, got %d", w.Code)
	}

	w, _ = api.do(t, http.MethodPost, "/logout", nil, "Authorization", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", w.Code)
	}
	w, body = api.do(t, http.MethodDelete, fmt.Sprintf("/questions/%d", ids[1]), nil, "Authorization", "Bearer "+token)
	expectError(t, w, body, http.StatusUnauthorized, "unauthorized")
}

func TestLoginRouteAbsentWithoutAuth(t *testing.T) {
	api := setupAPI(t, handlers.Options{})
	w, body := api.do(t, http.MethodPost, "/login", map[string]any{"password": "x"})
	expectError(t, w, body, http.StatusNotFound, "resource not found")
}
