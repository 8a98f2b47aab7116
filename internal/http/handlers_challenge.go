package http

import (
	"net/http"
	"time"

	"finanzo/internal/auth"
	"finanzo/internal/challenge"
)

type challengeResponse struct {
	Date        string `json:"date"`
	Text        string `json:"text"`
	AmountCents int64  `json:"amount_cents"`
	Completed   bool   `json:"completed"`
	Status      string `json:"status"`
}

func toChallengeResponse(state challenge.State) challengeResponse {
	return challengeResponse{
		Date:        state.Date,
		Text:        state.Text,
		AmountCents: state.AmountCents,
		Completed:   state.Completed,
		Status:      string(state.Status()),
	}
}

func (s *Server) handleCurrentChallenge(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	state, err := s.challenges.Current(r.Context(), userID, time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChallengeResponse(state))
}

func (s *Server) handleAcceptChallenge(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	state, err := s.challenges.Accept(r.Context(), userID, time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChallengeResponse(state))
}
