package handlers

import (
	"net/http"
	"strconv"

	"triviaapi/models"
)

const QuestionsPerPage = 10

// PageParam reads ?page=, falling back to 1 when absent or not an integer.
func PageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return page
}

// Paginate returns the page-th window of QuestionsPerPage items.
// Pages outside the data, including page <= 0, yield an empty slice.
func Paginate(page int, selection []models.Question) []models.Question {
	if page < 1 || page-1 > len(selection)/QuestionsPerPage {
		return []models.Question{}
	}
	start := (page - 1) * QuestionsPerPage
	if start >= len(selection) {
		return []models.Question{}
	}
	end := min(start+QuestionsPerPage, len(selection))
	return selection[start:end]
}
