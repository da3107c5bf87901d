// File: internal/infra/web/admin_handlers.go
package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/infra/logging"
)

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	customers, byStatus, err := s.statsUC.Totals(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	week, month, year, err := s.statsUC.Revenue(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	statuses := make(map[string]int, len(byStatus))
	for k, v := range byStatus {
		statuses[string(k)] = v
	}

	writeJSON(w, http.StatusOK, struct {
		TotalCustomers int            `json:"total_customers"`
		OrdersByStatus map[string]int `json:"orders_by_status"`
		RevenueCents   struct {
			Week  int64 `json:"week"`
			Month int64 `json:"month"`
			Year  int64 `json:"year"`
		} `json:"revenue_cents"`
	}{
		TotalCustomers: customers,
		OrdersByStatus: statuses,
		RevenueCents: struct {
			Week  int64 `json:"week"`
			Month int64 `json:"month"`
			Year  int64 `json:"year"`
		}{Week: week, Month: month, Year: year},
	})
}

func (s *Server) handleAdminPageViews(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		writeError(w, http.StatusBadRequest, "page is required")
		return
	}
	day := time.Now()
	if d := r.URL.Query().Get("day"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	n, err := s.tracker.Count(r.Context(), day, page)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Page  string `json:"page"`
		Day   string `json:"day"`
		Views int64  `json:"views"`
	}{Page: page, Day: day.Format("2006-01-02"), Views: n})
}

type broadcastRequest struct {
	Subject    string `json:"subject" validate:"required,max=200"`
	HTML       string `json:"html" validate:"required"`
	OnlyActive bool   `json:"only_active"`
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID, queued, err := s.broadcastUC.Broadcast(r.Context(), req.Subject, req.HTML, req.OnlyActive)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, struct {
		JobID  string `json:"job_id"`
		Queued int    `json:"queued"`
	}{JobID: jobID, Queued: queued})
}

func (s *Server) handleBroadcastReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.broadcastUC.Report(chi.URLParam(r, "jobID"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown job")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRedemptionList(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if offset < 0 {
		offset = 0
	}
	orders, err := s.redemptionUC.PendingCodes(r.Context(), offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type pendingView struct {
		orderView
		CustomerEmail string `json:"customer_email"`
	}
	now := time.Now()
	out := make([]pendingView, 0, len(orders))
	for _, o := range orders {
		out = append(out, pendingView{orderView: orderToView(o, now), CustomerEmail: o.CustomerEmail})
	}
	writeJSON(w, http.StatusOK, struct {
		Data []pendingView `json:"data"`
	}{Data: out})
}

func (s *Server) handleRedemptionDeliver(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	var req struct {
		Note string `json:"note" validate:"max=500"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.redemptionUC.MarkDelivered(r.Context(), orderID, req.Note); err != nil {
		writeDomainError(w, err)
		return
	}
	logging.With(r.Context(), s.log).Info().Str("order_id", orderID).Msg("redemption marked delivered")
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminOrder returns the full order row, including the raw processor
// payload, for support investigations.
func (s *Server) handleAdminOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orderUC.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		orderView
		CustomerName  string          `json:"customer_name"`
		CustomerEmail string          `json:"customer_email"`
		AdobeEmail    string          `json:"adobe_email,omitempty"`
		PaymentRef    string          `json:"payment_ref"`
		Redeemed      bool            `json:"redeemed"`
		DeliveryNote  string          `json:"delivery_note,omitempty"`
		RawPayload    json.RawMessage `json:"raw_payload,omitempty"`
	}{
		orderView:     orderToView(o, time.Now()),
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		AdobeEmail:    o.AdobeEmail,
		PaymentRef:    o.PaymentRef,
		Redeemed:      o.Redeemed,
		DeliveryNote:  o.DeliveryNote,
		RawPayload:    json.RawMessage(o.RawPayload),
	})
}

type productSaveRequest struct {
	ID                 string `json:"id" validate:"required"`
	Name               string `json:"name" validate:"required"`
	DurationMonths     int    `json:"duration_months" validate:"required"`
	PriceCents         int64  `json:"price_cents" validate:"required,gt=0"`
	OriginalPriceCents int64  `json:"original_price_cents" validate:"required,gt=0"`
	Type               string `json:"type" validate:"required,oneof=subscription redemption_code"`
	Line               string `json:"line" validate:"required,oneof=creative_cloud acrobat_pro"`
	ActivationType     string `json:"activation_type" validate:"required"`
}

func (s *Server) handleProductSave(w http.ResponseWriter, r *http.Request) {
	var req productSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	activation, err := model.ParseActivationType(req.ActivationType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown activation type")
		return
	}
	p, err := model.NewProduct(req.ID, req.Name, req.DurationMonths, req.PriceCents, req.OriginalPriceCents,
		model.ProductType(req.Type), model.ProductLine(req.Line), activation)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.catalogUC.Save(r.Context(), p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleProductDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.catalogUC.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
