package http

import (
	"net/http"
	"strings"

	"finanzo/internal/auth"
	"finanzo/internal/core"
	"finanzo/internal/ledger"
)

type createGoalRequest struct {
	Name        string `json:"name"`
	TargetCents int64  `json:"target_cents"`
	Icon        string `json:"icon"`
}

type updateGoalRequest struct {
	Name         *string `json:"name"`
	TargetCents  *int64  `json:"target_cents"`
	CurrentCents *int64  `json:"current_cents"`
	Icon         *string `json:"icon"`
}

type contributeRequest struct {
	GoalID      string `json:"goal_id"`
	AmountCents int64  `json:"amount_cents"`
}

type goalResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	TargetCents     int64  `json:"target_cents"`
	CurrentCents    int64  `json:"current_cents"`
	Icon            string `json:"icon"`
	ProgressPercent int    `json:"progress_percent"`
}

func toGoalResponse(g core.Goal) goalResponse {
	// Stored goals always have a positive target, so progress cannot fail.
	pct, _ := ledger.ProgressPercent(g)
	return goalResponse{
		ID:              g.ID,
		Name:            g.Name,
		TargetCents:     g.TargetAmount.Cents,
		CurrentCents:    g.CurrentAmount.Cents,
		Icon:            g.Icon,
		ProgressPercent: pct,
	}
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req createGoalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	goal, err := s.goals.Create(r.Context(), core.Goal{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: core.Money{Cents: req.TargetCents},
		Icon:         req.Icon,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	goals, err := s.goals.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, toGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	goal, err := s.goals.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateGoalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	goal, err := s.goals.Update(r.Context(), userID, r.PathValue("id"), core.GoalPatch{
		Name:         req.Name,
		TargetCents:  req.TargetCents,
		CurrentCents: req.CurrentCents,
		Icon:         req.Icon,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.goals.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type contributeResponse struct {
	Applied bool          `json:"applied"`
	Goal    *goalResponse `json:"goal,omitempty"`
}

// handleContribute credits a goal. With no goal_id the first goal is
// used; a user with no goals gets an applied=false response, not an error.
func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req contributeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	goal, applied, err := s.goals.Contribute(r.Context(), userID, req.GoalID, req.AmountCents)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := contributeResponse{Applied: applied}
	if applied {
		gr := toGoalResponse(goal)
		resp.Goal = &gr
	}
	writeJSON(w, http.StatusOK, resp)
}
