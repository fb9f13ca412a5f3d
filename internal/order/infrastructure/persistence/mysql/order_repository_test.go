package mysql

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/db"
)

func newRepo(t *testing.T) domain.OrderRepository {
	t.Helper()
	d, err := db.Init(db.Config{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := d.Migrate(&OrderModel{}, &OrderItemModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewOrderRepository(d.DB)
}

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func order(id string, at time.Time, items ...domain.LineItem) *domain.Order {
	return domain.NewOrder(id, "u1", items, decimal.NewFromInt(100), "", "221B Baker Street", at)
}

func TestSaveAndGet(t *testing.T) {
	g := NewWithT(t)
	repo := newRepo(t)
	ctx := context.Background()

	o := order("o1", t0,
		domain.LineItem{ID: "p1", Name: "iPhone 15 Pro", Price: decimal.RequireFromString("999.50"), Qty: 2},
		domain.LineItem{ID: "p2", Name: "Premium Cotton T-Shirt", Price: decimal.NewFromInt(25), Qty: 1},
	)
	g.Expect(repo.Save(ctx, o)).To(Succeed())

	got, err := repo.Get(ctx, "o1")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got.UserID).To(Equal("u1"))
	g.Expect(got.PaymentStatus).To(Equal(domain.PaymentPending))
	g.Expect(got.CreatedAt.Equal(t0)).To(BeTrue())
	g.Expect(got.Items).To(HaveLen(2))
	g.Expect(got.Items[0].Name).To(Equal("iPhone 15 Pro"))
	g.Expect(got.Items[0].Price.Equal(decimal.RequireFromString("999.50"))).To(BeTrue())
	g.Expect(got.Items[1].ID).To(Equal("p2"))
	g.Expect(got.ItemCount()).To(Equal(3))

	_, err = repo.Get(ctx, "missing")
	g.Expect(err).To(MatchError(domain.ErrNotFound))
}

func TestListSinceIsInclusiveAndAscending(t *testing.T) {
	g := NewWithT(t)
	repo := newRepo(t)
	ctx := context.Background()
	item := domain.LineItem{ID: "p1", Name: "iPhone 15 Pro", Price: decimal.NewFromInt(999), Qty: 1}

	since := t0.Add(-24 * time.Hour)
	g.Expect(repo.Save(ctx, order("late", t0, item))).To(Succeed())
	g.Expect(repo.Save(ctx, order("old", since.Add(-time.Second), item))).To(Succeed())
	g.Expect(repo.Save(ctx, order("edge", since, item))).To(Succeed())

	orders, err := repo.ListSince(ctx, since)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(orders).To(HaveLen(2))
	g.Expect(orders[0].ID).To(Equal("edge"))
	g.Expect(orders[1].ID).To(Equal("late"))
	g.Expect(orders[1].Items).To(HaveLen(1))
}
