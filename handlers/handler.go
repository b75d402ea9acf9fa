package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"triviaapi/auth"
	"triviaapi/db"
	"triviaapi/utils"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const maxBodyBytes = 1 << 20

// Handler holds what every route needs. It keeps no per-request state.
type Handler struct {
	store          db.Store
	auth           *auth.Manager
	validate       *validator.Validate
	strictNotFound bool
}

type Options struct {
	Auth *auth.Manager
	// StrictNotFound makes empty category and question listings respond 404.
	StrictNotFound bool
}

func New(store db.Store, opts Options) *Handler {
	return &Handler{
		store:          store,
		auth:           opts.Auth,
		validate:       validator.New(),
		strictNotFound: opts.StrictNotFound,
	}
}

type appHandler func(w http.ResponseWriter, r *http.Request) error

// wrap renders a returned error as the JSON error envelope.
func wrap(fn appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		httpErr := utils.AsHTTPError(err)
		log := hlog.FromRequest(r)
		evt := log.Warn()
		if httpErr.Status >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.Err(err).Int("status", httpErr.Status).Msg("request failed")
		utils.SendHTTPError(w, httpErr)
	}
}

// emptyResult signals that a listing came back empty. In compatibility mode
// the signal is only logged and the caller goes on to render a 200.
func (h *Handler) emptyResult(r *http.Request, what string) error {
	if h.strictNotFound {
		return utils.NotFound()
	}
	logger(r).Warn().Str("listing", what).Msg("empty listing, responding 200")
	return nil
}

func logger(r *http.Request) *zerolog.Logger {
	return hlog.FromRequest(r)
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	return body, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return utils.BadRequest(err)
	}
	return nil
}
