package handlers

import (
	"net/http"

	appmiddleware "triviaapi/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type RouterOptions struct {
	Logger             zerolog.Logger
	CORSAllowedOrigins []string
}

// NewRouter mounts every route of the API on a chi router.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(appmiddleware.RequestLogger(opts.Logger))
	r.Use(appmiddleware.Recoverer)
	r.Use(appmiddleware.CORS(opts.CORSAllowedOrigins))
	r.Use(appmiddleware.AllowHeaders)

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", wrap(h.Health))

	r.Get("/categories", wrap(h.GetCategories))
	r.Get("/categories/{category_id:[0-9]+}/questions", wrap(h.GetCategoryQuestions))

	r.Get("/questions", wrap(h.GetQuestions))
	// Search stays open; the create variant checks the admin token itself.
	r.Post("/questions", wrap(h.PostQuestions))
	r.With(appmiddleware.RequireAdmin(h.auth)).
		Delete("/questions/{id:[0-9]+}", wrap(h.DeleteQuestion))

	r.Post("/quizzes", wrap(h.PlayQuiz))

	if h.auth.Enabled() {
		r.Post("/login", wrap(h.Login))
		r.Post("/logout", wrap(h.Logout))
	}

	return r
}
