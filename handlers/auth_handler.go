package handlers

import (
	"net/http"

	"triviaapi/auth"
	"triviaapi/models"
	"triviaapi/utils"
)

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Login handles POST /login and exchanges the admin password for a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		return err
	}
	if err := h.validate.Struct(creds); err != nil {
		return utils.BadRequest(err)
	}

	token, err := h.auth.Login(creds.Password)
	if err != nil {
		return utils.Unauthorized(err)
	}

	utils.SendSuccess(w, tokenResponse{Success: true, Token: token})
	return nil
}

// Logout handles POST /logout and revokes the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) error {
	if token := auth.ExtractToken(r); token != "" {
		h.auth.Revoke(token)
	}
	utils.SendSuccess(w, successResponse{Success: true})
	return nil
}
