package handlers

import (
	"net/http"

	"triviaapi/models"
	"triviaapi/utils"
)

type quizResponse struct {
	Success  bool             `json:"success"`
	Question *models.Question `json:"question,omitempty"`
}

// PlayQuiz handles POST /quizzes. Category id 0 means every category.
// No "question" key in the response tells the client the quiz is over.
func (h *Handler) PlayQuiz(w http.ResponseWriter, r *http.Request) error {
	var req models.QuizRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.BadRequest(err)
	}

	question, err := h.store.RandomQuestion(r.Context(), int(req.QuizCategory.ID), req.PreviousQuestions)
	if err != nil {
		return err
	}

	utils.SendSuccess(w, quizResponse{Success: true, Question: question})
	return nil
}
