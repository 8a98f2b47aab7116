package http

import (
	"net/http"

	"finanzo/internal/auth"
	"finanzo/internal/catalog"
	"finanzo/internal/core"
)

// handleCategories returns the static catalog, optionally filtered by
// ?type=expense|income|transfer. The catalog needs no authentication.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	if typ == "" {
		resp := map[string][]catalog.Category{
			"expense":  catalog.ByType(core.Expense),
			"income":   catalog.ByType(core.Income),
			"transfer": catalog.ByType(core.Transfer),
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	t := core.TransactionType(typ)
	if err := t.Validate(); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.ByType(t))
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	badges, err := s.storage.ListAchievements(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if badges == nil {
		badges = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"badges": badges})
}
