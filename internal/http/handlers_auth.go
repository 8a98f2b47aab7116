package http

import (
	"errors"
	"net/http"
	"strings"

	"finanzo/internal/core"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid email")
		return
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if _, err := s.storage.GetUserByEmail(r.Context(), req.Email); err == nil {
		writeError(w, r, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, core.ErrNotFound) {
		respondError(w, r, err)
		return
	}

	user, err := s.storage.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, err := s.auth.IssueToken(user.ID, user.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.storage.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, core.ErrNotFound) {
		// Same response as a bad password; do not reveal which was wrong.
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.auth.CheckPassword(user.HashedPassword, req.Password); err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.auth.IssueToken(user.ID, user.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
