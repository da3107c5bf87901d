// File: internal/infra/web/dashboard_handlers.go
package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"adobe-subscription-store/internal/domain/model"
)

type orderView struct {
	ID             string     `json:"id"`
	Description    string     `json:"description"`
	AmountCents    int64      `json:"amount_cents"`
	Currency       string     `json:"currency"`
	SavingsCents   int64      `json:"savings_cents"`
	Status         string     `json:"status"`
	Active         bool       `json:"active"`
	DurationMonths int        `json:"duration_months"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	ActivationType string     `json:"activation_type"`
	Provider       string     `json:"provider"`
	CreatedAt      time.Time  `json:"created_at"`
}

func orderToView(o *model.Order, now time.Time) orderView {
	return orderView{
		ID:             o.ID,
		Description:    o.Description,
		AmountCents:    o.AmountCents,
		Currency:       o.Currency,
		SavingsCents:   o.SavingsCents,
		Status:         string(o.Status),
		Active:         o.IsActive(now),
		DurationMonths: o.DurationMonths,
		ExpiryDate:     o.ExpiryDate,
		ActivationType: string(o.ActivationType),
		Provider:       o.Provider,
		CreatedAt:      o.CreatedAt,
	}
}

// handleDashboardOrders serves the customer's purchase history with lifetime
// savings summed across all orders.
func (s *Server) handleDashboardOrders(w http.ResponseWriter, r *http.Request) {
	email := UserEmail(r.Context())
	if email == "" {
		writeError(w, http.StatusUnauthorized, "token carries no email")
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if offset < 0 {
		offset = 0
	}

	views, err := s.orderUC.History(r.Context(), email, offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	now := time.Now()
	out := make([]orderView, 0, len(views))
	var totalSavings int64
	activeCount := 0
	for _, v := range views {
		out = append(out, orderToView(v.Order, now))
		totalSavings += v.Order.SavingsCents
		if v.Active {
			activeCount++
		}
	}

	writeJSON(w, http.StatusOK, struct {
		Data              []orderView `json:"data"`
		TotalSavingsCents int64       `json:"total_savings_cents"`
		ActiveCount       int         `json:"active_count"`
		Offset            int         `json:"offset"`
	}{Data: out, TotalSavingsCents: totalSavings, ActiveCount: activeCount, Offset: offset})
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.profileUC.Get(r.Context(), UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}{ID: p.ID, Name: p.Name, Email: p.Email})
}

func (s *Server) handleProfileRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=120"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.profileUC.Rename(r.Context(), UserID(r.Context()), req.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
