package handlers

import (
	"net/http"
	"strconv"

	"triviaapi/models"
	"triviaapi/utils"

	"github.com/go-chi/chi/v5"
)

type categoriesResponse struct {
	Success    bool           `json:"success"`
	Categories map[int]string `json:"categories"`
}

type categoryQuestionsResponse struct {
	Success         bool              `json:"success"`
	Questions       []models.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	CurrentCategory int               `json:"current_category"`
}

// GetCategories handles GET /categories.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) error {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		if err := h.emptyResult(r, "categories"); err != nil {
			return err
		}
	}

	utils.SendSuccess(w, categoriesResponse{
		Success:    true,
		Categories: models.CategoryMap(categories),
	})
	return nil
}

// GetCategoryQuestions handles GET /categories/{category_id}/questions.
// An unknown category yields an empty page, not an error.
func (h *Handler) GetCategoryQuestions(w http.ResponseWriter, r *http.Request) error {
	categoryID, err := strconv.Atoi(chi.URLParam(r, "category_id"))
	if err != nil {
		return utils.NotFound()
	}

	selection, err := h.store.ListQuestionsByCategory(r.Context(), categoryID)
	if err != nil {
		return err
	}

	utils.SendSuccess(w, categoryQuestionsResponse{
		Success:         true,
		Questions:       Paginate(PageParam(r), selection),
		TotalQuestions:  len(selection),
		CurrentCategory: categoryID,
	})
	return nil
}
