package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/order/domain"
)

type memRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newMemRepo() *memRepo { return &memRepo{orders: map[string]*domain.Order{}} }

func (r *memRepo) Save(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
	return nil
}

func (r *memRepo) Get(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (r *memRepo) ListSince(_ context.Context, since time.Time) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

type capturePublisher struct {
	events []domain.OrderPlacedEvent
	err    error
}

func (p *capturePublisher) PublishOrderPlaced(_ context.Context, e domain.OrderPlacedEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func validCommand() PlaceOrderCommand {
	return PlaceOrderCommand{
		UserID: "u1",
		Items: []domain.LineItem{
			{ID: "p1", Name: "iPhone 15 Pro", Price: decimal.NewFromInt(999), Qty: 2},
		},
		Amount:    decimal.NewFromInt(2038),
		PaymentID: "pay_123",
	}
}

func TestPlaceOrderPersistsAndPublishes(t *testing.T) {
	g := NewWithT(t)
	repo := newMemRepo()
	pub := &capturePublisher{}
	failing := &capturePublisher{err: errors.New("kafka down")}
	svc := NewOrderService(repo, pub, nil, failing)

	o, err := svc.PlaceOrder(context.Background(), validCommand())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(o.ID).NotTo(BeEmpty())
	g.Expect(o.PaymentStatus).To(Equal(domain.PaymentPaid))

	got, err := svc.GetOrder(context.Background(), o.ID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(Equal(o))

	g.Expect(pub.events).To(HaveLen(1))
	g.Expect(pub.events[0].OrderID).To(Equal(o.ID))
	g.Expect(pub.events[0].ItemCount).To(Equal(2))
	g.Expect(failing.events).To(HaveLen(1))
}

func TestPlaceOrderValidation(t *testing.T) {
	g := NewWithT(t)
	pub := &capturePublisher{}
	svc := NewOrderService(newMemRepo(), pub)

	cases := map[string]func(*PlaceOrderCommand){
		"missing user":  func(c *PlaceOrderCommand) { c.UserID = "" },
		"no items":      func(c *PlaceOrderCommand) { c.Items = nil },
		"zero amount":   func(c *PlaceOrderCommand) { c.Amount = decimal.Zero },
		"zero quantity": func(c *PlaceOrderCommand) { c.Items[0].Qty = 0 },
		"unnamed item":  func(c *PlaceOrderCommand) { c.Items[0].Name = "" },
	}
	for name, mutate := range cases {
		cmd := validCommand()
		mutate(&cmd)
		_, err := svc.PlaceOrder(context.Background(), cmd)
		g.Expect(err).To(MatchError(domain.ErrInvalidOrder), name)
	}
	g.Expect(pub.events).To(BeEmpty())

	_, err := svc.GetOrder(context.Background(), "missing")
	g.Expect(err).To(MatchError(domain.ErrNotFound))
}
