package http

import (
	"net/http"
	"strings"

	"finanzo/internal/auth"
	"finanzo/internal/core"
)

type recurrenceRequest struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

type createTransactionRequest struct {
	Date          string             `json:"date"`
	Description   string             `json:"description"`
	Amount        string             `json:"amount"`
	CategoryID    string             `json:"category_id"`
	Type          string             `json:"type"`
	Establishment string             `json:"establishment"`
	Recurrence    *recurrenceRequest `json:"recurrence"`
}

type recordResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	AmountCents   int64  `json:"amount_cents"`
	CategoryID    string `json:"category_id"`
	Type          string `json:"type"`
	Establishment string `json:"establishment,omitempty"`
}

type batchItemResponse struct {
	Record *recordResponse `json:"record,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type createTransactionResponse struct {
	Items []batchItemResponse `json:"items"`
}

func toRecordResponse(rec core.Record) recordResponse {
	return recordResponse{
		ID:            rec.ID,
		Date:          rec.Date.String(),
		Description:   rec.Description,
		AmountCents:   rec.Amount.Cents,
		CategoryID:    rec.CategoryID,
		Type:          string(rec.Type),
		Establishment: rec.Establishment,
	}
}

func (s *Server) handleCreateTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, r, err)
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, r, core.ErrInvalidAmount)
		return
	}

	tx := core.Transaction{
		Date:          date,
		Description:   strings.TrimSpace(req.Description),
		Amount:        core.Money{Cents: cents},
		CategoryID:    strings.TrimSpace(req.CategoryID),
		Type:          core.TransactionType(req.Type),
		Establishment: strings.TrimSpace(req.Establishment),
	}
	var plan core.RecurrencePlan
	if req.Recurrence != nil {
		plan = core.RecurrencePlan{Enabled: req.Recurrence.Enabled, Count: req.Recurrence.Count}
	}

	results, err := s.transactions.CreateBatch(r.Context(), userID, tx, plan)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.recordCache.Delete(userID)

	resp := createTransactionResponse{Items: make([]batchItemResponse, 0, len(results))}
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			resp.Items = append(resp.Items, batchItemResponse{Error: res.Err.Error()})
			continue
		}
		rr := toRecordResponse(res.Record)
		resp.Items = append(resp.Items, batchItemResponse{Record: &rr})
	}

	status := http.StatusCreated
	if failed > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	records, ok := s.recordCache.Get(userID)
	if !ok {
		records, err = s.transactions.List(r.Context(), userID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.recordCache.Set(userID, records)
	}

	resp := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.transactions.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	s.recordCache.Delete(userID)
	w.WriteHeader(http.StatusNoContent)
}
