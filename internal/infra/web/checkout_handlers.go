// File: internal/infra/web/checkout_handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/adapter"
	"adobe-subscription-store/internal/infra/logging"
	"adobe-subscription-store/internal/infra/metrics"
	"adobe-subscription-store/internal/usecase"
)

type productView struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	DurationMonths     int    `json:"duration_months"`
	PriceCents         int64  `json:"price_cents"`
	OriginalPriceCents int64  `json:"original_price_cents"`
	SavingsCents       int64  `json:"savings_cents"`
	Type               string `json:"type"`
	ActivationType     string `json:"activation_type"`
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalogUC.Products(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{
			ID:                 p.ID,
			Name:               p.Name,
			Description:        p.Description(),
			DurationMonths:     p.DurationMonths,
			PriceCents:         p.PriceCents,
			OriginalPriceCents: p.OriginalPriceCents,
			SavingsCents:       usecase.Savings(p.OriginalPriceCents, p.PriceCents),
			Type:               string(p.Type),
			ActivationType:     string(p.Activation),
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Data []productView `json:"data"`
	}{Data: out})
}

type paypalCreateRequest struct {
	PlanID       string `json:"plan_id" validate:"required"`
	CaptchaToken string `json:"captcha_token"`
}

func (s *Server) handlePayPalCreate(w http.ResponseWriter, r *http.Request) {
	log := logging.With(r.Context(), s.log)
	if !s.cfg.PayPalEnabled() {
		log.Error().Msg("paypal checkout requested but credentials are not configured")
		writeError(w, http.StatusInternalServerError, "paypal checkout unavailable")
		return
	}

	var req paypalCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.verifyCaptcha(w, r, req.CaptchaToken) {
		return
	}

	plan, err := s.catalogUC.FindPlan(r.Context(), req.PlanID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	order, err := s.checkout.Create(r.Context(), plan.ID, plan.PriceCents, "USD", plan.Description())
	if err != nil {
		metrics.IncPayment("paypal", "create_error")
		log.Error().Err(err).Str("plan_id", plan.ID).Msg("paypal order creation failed")
		writeDomainError(w, err)
		return
	}
	metrics.IncPayment("paypal", "created")

	writeJSON(w, http.StatusCreated, struct {
		OrderID    string `json:"order_id"`
		Status     string `json:"status"`
		ApproveURL string `json:"approve_url"`
	}{OrderID: order.ID, Status: order.Status, ApproveURL: order.ApproveURL})
}

type paypalCaptureRequest struct {
	PlanID         string `json:"plan_id" validate:"required"`
	CustomerName   string `json:"customer_name"`
	CustomerEmail  string `json:"customer_email" validate:"omitempty,email"`
	ActivationType string `json:"activation_type" validate:"required"`
	AdobeEmail     string `json:"adobe_email" validate:"omitempty,email"`
}

func (s *Server) handlePayPalCapture(w http.ResponseWriter, r *http.Request) {
	log := logging.With(r.Context(), s.log)
	if !s.cfg.PayPalEnabled() {
		log.Error().Msg("paypal capture requested but credentials are not configured")
		writeError(w, http.StatusInternalServerError, "paypal checkout unavailable")
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order id is required")
		return
	}

	var req paypalCaptureRequest
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

	captured, err := s.checkout.Capture(r.Context(), orderID)
	if err != nil {
		metrics.IncPayment("paypal", "capture_error")
		log.Error().Err(err).Str("paypal_order_id", orderID).Msg("paypal capture failed")
		writeDomainError(w, err)
		return
	}
	if captured.Status != "COMPLETED" {
		metrics.IncPayment("paypal", "incomplete")
		writeJSON(w, http.StatusConflict, errorBody{Error: "capture not completed", Code: captured.Status})
		return
	}
	metrics.IncPayment("paypal", "succeeded")

	// The buyer's typed-in email wins over the PayPal account email; people
	// often pay with one address and want delivery on another.
	email := req.CustomerEmail
	if email == "" {
		email = captured.PayerEmail
	}
	name := req.CustomerName
	if name == "" {
		name = captured.PayerName
	}

	order, err := s.reconcileUC.Reconcile(r.Context(), usecase.PaymentEvent{
		PaymentRef:     captured.ID,
		Provider:       s.checkout.Name(),
		CustomerName:   name,
		CustomerEmail:  email,
		PlanID:         req.PlanID,
		ActivationType: activation,
		AdobeEmail:     req.AdobeEmail,
		AmountCents:    captured.AmountCents,
		Currency:       captured.Currency,
		RawPayload:     captured.RawPayload,
		OccurredAt:     time.Now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingMetadata) {
			// The payment is captured; only the delivery address is missing.
			// This is a synchronous client call, so tell the buyer which
			// field to supply on retry instead of a generic failure.
			writeError(w, http.StatusBadRequest, "customer_email is required; retry the capture with it set")
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderToView(order, time.Now()))
}

type stripeIntentRequest struct {
	PlanID         string `json:"plan_id" validate:"required"`
	CustomerName   string `json:"customer_name" validate:"required"`
	CustomerEmail  string `json:"customer_email" validate:"required,email"`
	ActivationType string `json:"activation_type" validate:"required"`
	AdobeEmail     string `json:"adobe_email" validate:"omitempty,email"`
	CaptchaToken   string `json:"captcha_token"`
}

func (s *Server) handleStripeIntent(w http.ResponseWriter, r *http.Request) {
	log := logging.With(r.Context(), s.log)
	if !s.cfg.StripeEnabled() {
		log.Error().Msg("stripe checkout requested but secret key is not configured")
		writeError(w, http.StatusInternalServerError, "card checkout unavailable")
		return
	}

	var req stripeIntentRequest
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
	if activation == model.ActivationSelf && req.AdobeEmail == "" {
		writeError(w, http.StatusBadRequest, "adobe_email is required for self activation")
		return
	}
	if !s.verifyCaptcha(w, r, req.CaptchaToken) {
		return
	}

	plan, err := s.catalogUC.FindPlan(r.Context(), req.PlanID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id, clientSecret, err := s.intents.Create(r.Context(), adapter.IntentRequest{
		PlanID:         plan.ID,
		AmountCents:    plan.PriceCents,
		Currency:       "usd",
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		ActivationType: activation,
		AdobeEmail:     req.AdobeEmail,
	})
	if err != nil {
		metrics.IncPayment("stripe", "create_error")
		writeDomainError(w, err)
		return
	}
	metrics.IncPayment("stripe", "created")

	writeJSON(w, http.StatusCreated, struct {
		IntentID     string `json:"intent_id"`
		ClientSecret string `json:"client_secret"`
		AmountCents  int64  `json:"amount_cents"`
	}{IntentID: id, ClientSecret: clientSecret, AmountCents: plan.PriceCents})
}

func (s *Server) verifyCaptcha(w http.ResponseWriter, r *http.Request, token string) bool {
	ok, err := s.captcha.Verify(r.Context(), token, clientIP(r))
	if err != nil {
		// The checkout must not die with Google; log and let it through.
		logging.With(r.Context(), s.log).Warn().Err(err).Msg("captcha verification unavailable, allowing request")
		return true
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "captcha verification failed")
		return false
	}
	return true
}
