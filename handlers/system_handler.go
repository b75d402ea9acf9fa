package handlers

import (
	"context"
	"net/http"
	"time"

	"triviaapi/utils"
)

// Health handles GET /health by pinging the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return utils.InternalServerError(err)
	}
	utils.SendSuccess(w, successResponse{Success: true})
	return nil
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.SendHTTPError(w, utils.NotFound())
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.SendHTTPError(w, utils.MethodNotAllowed())
}
