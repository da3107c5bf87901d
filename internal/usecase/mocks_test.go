// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/adapter"
	"adobe-subscription-store/internal/domain/ports/repository"
)

// memTxManager runs the callback on the non-transactional path; the in-memory
// repos have no transaction to bind. It counts invocations so tests can
// assert an operation ran inside WithTx.
type memTxManager struct {
	mu    sync.Mutex
	calls int
}

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

func (m *memTxManager) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ repository.TransactionManager = (*memTxManager)(nil)

// memOrderRepo is a small in-memory implementation used by unit tests. It
// mirrors the real repo's idempotency behavior on payment_ref.
type memOrderRepo struct {
	mu        sync.RWMutex
	store     map[string]*model.Order // by order id
	insertErr error                   // simulate insert failures
	inserts   int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{store: make(map[string]*model.Order)}
}

func (m *memOrderRepo) Insert(ctx context.Context, tx repository.Tx, o *model.Order) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.store {
		if ex.PaymentRef == o.PaymentRef {
			return domain.ErrAlreadyExists
		}
	}
	cp := *o
	m.store[o.ID] = &cp
	m.inserts++
	return nil
}

func (m *memOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) FindByPaymentRef(ctx context.Context, tx repository.Tx, ref string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.store {
		if o.PaymentRef == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memOrderRepo) ListByEmail(ctx context.Context, tx repository.Tx, email string, offset, limit int) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		if strings.EqualFold(o.CustomerEmail, email) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOrderRepo) ListByType(ctx context.Context, tx repository.Tx, typ model.ProductType, offset, limit int) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		if typ == model.ProductTypeRedemptionCode && o.ActivationType == model.ActivationRedemptionCode {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOrderRepo) MarkInactive(ctx context.Context, tx repository.Tx, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range ids {
		o, ok := m.store[id]
		if !ok {
			continue
		}
		if o.Status == model.OrderStatusActive || o.Status == model.OrderStatusCompleted {
			o.Status = model.OrderStatusInactive
			n++
		}
	}
	return n, nil
}

func (m *memOrderRepo) ExpiredCandidates(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		if (o.Status == model.OrderStatusActive || o.Status == model.OrderStatusCompleted) &&
			o.ExpiryDate != nil && o.ExpiryDate.Before(now) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOrderRepo) UpdateRedemption(ctx context.Context, tx repository.Tx, id string, redeemed bool, deliveryNote string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Redeemed = redeemed
	o.DeliveryNote = deliveryNote
	return nil
}

func (m *memOrderRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.OrderStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.OrderStatus]int)
	for _, o := range m.store {
		out[o.Status]++
	}
	return out, nil
}

func (m *memOrderRepo) SumRevenueByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, o := range m.store {
		sum += o.AmountCents
	}
	return sum, nil
}

func (m *memOrderRepo) ListRecipients(ctx context.Context, tx repository.Tx, onlyActive bool) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, o := range m.store {
		if onlyActive && o.Status != model.OrderStatusActive && o.Status != model.OrderStatusCompleted {
			continue
		}
		e := strings.ToLower(o.CustomerEmail)
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out, nil
}

type memProductRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{store: make(map[string]*model.Product)}
}

func (m *memProductRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProductRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Product
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memProductRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memProductRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

type memProfileRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{store: make(map[string]*model.Profile)}
}

func (m *memProfileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfileRepo) UpdateName(ctx context.Context, tx repository.Tx, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Name = name
	return nil
}

func (m *memProfileRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// mockMailer records sends and can fail a configurable number of times
// before succeeding.
type mockMailer struct {
	mu       sync.Mutex
	sent     []adapter.Email
	failures int
	err      error
}

func (m *mockMailer) Send(ctx context.Context, msg adapter.Email) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return "msg_123", nil
}

func (m *mockMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func seedCatalog(t interface{ Fatalf(string, ...any) }, repo *memProductRepo) {
	specs := []struct {
		id       string
		months   int
		price    int64
		original int64
	}{
		{"1m", 1, 1299, 5499},
		{"3m", 3, 2999, 16497},
		{"6m", 6, 5499, 32994},
		{"12m", 12, 9999, 65988},
	}
	for _, s := range specs {
		p, err := model.NewProduct(s.id, "Creative Cloud "+s.id, s.months, s.price, s.original,
			model.ProductTypeSubscription, model.ProductLineCreativeCloud, model.ActivationSelf)
		if err != nil {
			t.Fatalf("seed product %s: %v", s.id, err)
		}
		if err := repo.Save(context.Background(), repository.NoTX, p); err != nil {
			t.Fatalf("save product %s: %v", s.id, err)
		}
	}
}
