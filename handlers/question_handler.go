package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"triviaapi/models"
	"triviaapi/utils"

	"github.com/go-chi/chi/v5"
)

type questionsResponse struct {
	Success        bool              `json:"success"`
	Questions      []models.Question `json:"questions"`
	TotalQuestions int               `json:"total_questions"`
	Categories     map[int]string    `json:"categories"`
}

type searchResponse struct {
	Success        bool              `json:"success"`
	Questions      []models.Question `json:"questions"`
	TotalQuestions int               `json:"total_questions"`
}

type deleteResponse struct {
	Success bool `json:"success"`
	Deleted int  `json:"deleted"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// GetQuestions handles GET /questions?page=N.
func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	selection, err := h.store.ListQuestions(ctx)
	if err != nil {
		return err
	}
	questions := Paginate(PageParam(r), selection)

	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		return err
	}

	if len(questions) == 0 {
		if err := h.emptyResult(r, "questions"); err != nil {
			return err
		}
	}

	utils.SendSuccess(w, questionsResponse{
		Success:        true,
		Questions:      questions,
		TotalQuestions: len(selection),
		Categories:     models.CategoryMap(categories),
	})
	return nil
}

// DeleteQuestion handles DELETE /questions/{id}. A missing id is a 422.
func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return utils.NotFound()
	}

	deleted, err := h.store.DeleteQuestion(r.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return utils.Unprocessable()
	}

	logger(r).Info().Int("question_id", id).Msg("question deleted")
	utils.SendSuccess(w, deleteResponse{Success: true, Deleted: id})
	return nil
}

// PostQuestions handles POST /questions, which either searches or creates
// depending on the body variant.
func (h *Handler) PostQuestions(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	req, err := models.DecodeQuestionsRequest(body)
	if err != nil {
		return utils.BadRequest(err)
	}

	switch req := req.(type) {
	case models.SearchQuestions:
		return h.searchQuestions(w, r, req)
	case models.CreateQuestion:
		return h.createQuestion(w, r, req)
	default:
		return fmt.Errorf("unhandled questions request %T", req)
	}
}

func (h *Handler) searchQuestions(w http.ResponseWriter, r *http.Request, req models.SearchQuestions) error {
	matches, err := h.store.SearchQuestions(r.Context(), req.SearchTerm)
	if err != nil {
		return err
	}

	utils.SendSuccess(w, searchResponse{
		Success:        true,
		Questions:      Paginate(PageParam(r), matches),
		TotalQuestions: len(matches),
	})
	return nil
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request, req models.CreateQuestion) error {
	if err := h.auth.Authorize(r); err != nil {
		return utils.Unauthorized(err)
	}

	id, err := h.store.CreateQuestion(r.Context(), req.NewQuestion())
	if err != nil {
		return err
	}

	logger(r).Info().Int("question_id", id).Msg("question created")
	utils.SendSuccess(w, successResponse{Success: true})
	return nil
}
