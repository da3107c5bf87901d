// File: internal/infra/web/mock_test.go
package web

import (
	"context"
	"sync"
	"time"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/adapter"
	red "adobe-subscription-store/internal/infra/redis"
	"adobe-subscription-store/internal/usecase"
)

// fakeRedis implements the client interface with an in-memory counter map,
// enough for the rate limiter and the pixel tracker.
type fakeRedis struct {
	mu     sync.Mutex
	counts map[string]int64
	vals   map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{counts: make(map[string]int64), vals: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := value.(string); ok {
		f.vals[key] = s
	}
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.vals[key]; ok {
		return v, nil
	}
	return "", red.Nil
}

func (f *fakeRedis) Incr(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRedis) TTL(ctx context.Context, key string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttls[key], nil
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ttls[key] = expiration
	return nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error { return nil }
func (f *fakeRedis) Close() error                                  { return nil }

func (f *fakeRedis) count(key string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[key]
}

// mockCatalog serves a fixed product list.
type mockCatalog struct {
	products map[string]*model.Product
}

func newMockCatalog() *mockCatalog {
	p, _ := model.NewProduct("6m", "Creative Cloud 6 Months", 6, 5499, 32994,
		model.ProductTypeSubscription, model.ProductLineCreativeCloud, model.ActivationSelf)
	return &mockCatalog{products: map[string]*model.Product{"6m": p}}
}

func (m *mockCatalog) Products(ctx context.Context) ([]*model.Product, error) {
	var out []*model.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockCatalog) FindPlan(ctx context.Context, planID string) (*model.Product, error) {
	p, ok := m.products[planID]
	if !ok {
		return nil, domain.ErrUnknownPlan
	}
	return p, nil
}

func (m *mockCatalog) Resolve(ctx context.Context, planID, description string, amountCents int64) (*usecase.ResolvedPlan, error) {
	if p, ok := m.products[planID]; ok {
		return &usecase.ResolvedPlan{
			PlanID:             p.ID,
			Months:             p.DurationMonths,
			OriginalPriceCents: p.OriginalPriceCents,
			Description:        p.Description(),
		}, nil
	}
	return &usecase.ResolvedPlan{Description: "Adobe Creative Cloud - Unknown"}, nil
}

func (m *mockCatalog) Save(ctx context.Context, p *model.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockCatalog) Delete(ctx context.Context, planID string) error {
	delete(m.products, planID)
	return nil
}

// mockReconcile records events and fabricates the resulting order.
type mockReconcile struct {
	mu     sync.Mutex
	events []usecase.PaymentEvent
	err    error
}

func (m *mockReconcile) Reconcile(ctx context.Context, ev usecase.PaymentEvent) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.events = append(m.events, ev)
	exp := ev.OccurredAt.AddDate(0, 0, 180)
	return &model.Order{
		ID:             "ord_" + ev.PaymentRef,
		CustomerEmail:  ev.CustomerEmail,
		AmountCents:    ev.AmountCents,
		Currency:       ev.Currency,
		Status:         model.OrderStatusActive,
		PlanID:         ev.PlanID,
		Description:    "Adobe Creative Cloud - 6 Months",
		SavingsCents:   27495,
		DurationMonths: 6,
		ExpiryDate:     &exp,
		ActivationType: ev.ActivationType,
		Provider:       ev.Provider,
		PaymentRef:     ev.PaymentRef,
		CreatedAt:      ev.OccurredAt,
	}, nil
}

func (m *mockReconcile) received() []usecase.PaymentEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]usecase.PaymentEvent(nil), m.events...)
}

type mockOrders struct {
	views []usecase.OrderView
	order *model.Order
}

func (m *mockOrders) History(ctx context.Context, email string, offset, limit int) ([]usecase.OrderView, error) {
	return m.views, nil
}

func (m *mockOrders) Get(ctx context.Context, id string) (*model.Order, error) {
	if m.order == nil {
		return nil, domain.ErrNotFound
	}
	return m.order, nil
}

func (m *mockOrders) ExpireDue(ctx context.Context, now time.Time, limit int) (int, error) {
	return 0, nil
}

type mockStats struct{}

func (mockStats) Totals(ctx context.Context) (int, map[model.OrderStatus]int, error) {
	return 3, map[model.OrderStatus]int{model.OrderStatusActive: 2, model.OrderStatusInactive: 1}, nil
}

func (mockStats) Revenue(ctx context.Context) (int64, int64, int64, error) {
	return 5499, 10998, 65988, nil
}

type mockBroadcast struct {
	jobID string
}

func (m *mockBroadcast) Broadcast(ctx context.Context, subject, html string, onlyActive bool) (string, int, error) {
	return m.jobID, 2, nil
}

func (m *mockBroadcast) Report(jobID string) (*usecase.BroadcastReport, bool) {
	if jobID != m.jobID {
		return nil, false
	}
	return &usecase.BroadcastReport{JobID: jobID, Queued: 2, Sent: 2}, true
}

type mockRedemption struct{}

func (mockRedemption) PendingCodes(ctx context.Context, offset, limit int) ([]*model.Order, error) {
	return nil, nil
}
func (mockRedemption) MarkDelivered(ctx context.Context, orderID, note string) error { return nil }

type mockProfiles struct{}

func (mockProfiles) Get(ctx context.Context, id string) (*model.Profile, error) {
	return &model.Profile{ID: id, Name: "Jane", Email: "jane@example.com"}, nil
}
func (mockProfiles) Rename(ctx context.Context, id, name string) error { return nil }

// mockIntents fabricates Stripe client secrets.
type mockIntents struct {
	mu   sync.Mutex
	reqs []adapter.IntentRequest
	err  error
}

func (m *mockIntents) Create(ctx context.Context, req adapter.IntentRequest) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", "", m.err
	}
	m.reqs = append(m.reqs, req)
	return "pi_mock", "pi_mock_secret", nil
}

// mockCheckout fabricates PayPal orders.
type mockCheckout struct {
	captureStatus string
	captureErr    error
}

func (m *mockCheckout) Create(ctx context.Context, planID string, amountCents int64, currency, description string) (*adapter.CheckoutOrder, error) {
	return &adapter.CheckoutOrder{
		ID:          "PP-123",
		Status:      "CREATED",
		ApproveURL:  "https://paypal.example/approve/PP-123",
		AmountCents: amountCents,
		Currency:    currency,
	}, nil
}

func (m *mockCheckout) Capture(ctx context.Context, orderID string) (*adapter.CheckoutOrder, error) {
	if m.captureErr != nil {
		return nil, m.captureErr
	}
	status := m.captureStatus
	if status == "" {
		status = "COMPLETED"
	}
	return &adapter.CheckoutOrder{
		ID:          orderID,
		Status:      status,
		PayerName:   "Jane Doe",
		PayerEmail:  "payer@example.com",
		AmountCents: 5499,
		Currency:    "USD",
		RawPayload:  []byte(`{"id":"` + orderID + `"}`),
	}, nil
}

func (m *mockCheckout) Name() string { return "paypal" }
