package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/wyfcoding/storefront/internal/notification/domain"
)

type fakeRepo struct {
	mu       sync.Mutex
	items    []*domain.Notification
	lastFrom time.Time
	cutoff   time.Time
	purged   int
}

func (r *fakeRepo) Insert(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeRepo) FindRecent(_ context.Context, _ domain.Filter, since time.Time) ([]*domain.Notification, error) {
	r.lastFrom = since
	return nil, nil
}

func (r *fakeRepo) List(_ context.Context, f domain.Filter, since time.Time, limit int) ([]*domain.Notification, error) {
	r.lastFrom = since
	var out []*domain.Notification
	for _, n := range r.items {
		if f.Type != "" && n.Type != f.Type {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeRepo) MarkRead(_ context.Context, id string) (*domain.Notification, error) {
	for _, n := range r.items {
		if n.ID == id {
			n.Read = true
			return n, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) ClearAll(context.Context) (int64, error) {
	n := len(r.items)
	r.items = nil
	return int64(n), nil
}

func (r *fakeRepo) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cutoff = cutoff
	r.purged++
	return 0, nil
}

type recordingSender struct {
	got []*domain.Notification
	err error
}

func (s *recordingSender) Send(_ context.Context, n *domain.Notification) error {
	s.got = append(s.got, n)
	return s.err
}

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, senders ...domain.Sender) *NotificationService {
	svc := NewNotificationService(repo, nil, 30*24*time.Hour, senders...)
	svc.command.now = func() time.Time { return fixedNow }
	svc.query.now = func() time.Time { return fixedNow }
	return svc
}

func TestCreateDefaultsAndFanOut(t *testing.T) {
	g := NewWithT(t)
	repo := &fakeRepo{}
	failing := &recordingSender{err: errors.New("webhook down")}
	ok := &recordingSender{}
	svc := newTestService(repo, failing, nil, ok)

	n, err := svc.Create(context.Background(), CreateNotificationCommand{Message: "hello", SellerID: "s1"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n.ID).NotTo(BeEmpty())
	g.Expect(n.Type).To(Equal(domain.TypeNewProduct))
	g.Expect(n.Read).To(BeFalse())
	g.Expect(n.CreatedAt).To(Equal(fixedNow))

	g.Expect(repo.items).To(HaveLen(1))
	g.Expect(failing.got).To(HaveLen(1))
	g.Expect(ok.got).To(HaveLen(1))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	g := NewWithT(t)
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateNotificationCommand{Message: "x", Type: "spam"})
	g.Expect(err).To(MatchError(domain.ErrInvalidNotification))

	_, err = svc.Create(context.Background(), CreateNotificationCommand{Type: "system"})
	g.Expect(err).To(MatchError(domain.ErrInvalidNotification))

	_, err = svc.Create(context.Background(), CreateNotificationCommand{Message: "hot", Type: "high_demand"})
	g.Expect(err).To(MatchError(domain.ErrInvalidNotification))

	g.Expect(repo.items).To(BeEmpty())
}

func TestInsertOverridesReadAndTimestamp(t *testing.T) {
	g := NewWithT(t)
	repo := &fakeRepo{}
	svc := newTestService(repo)

	n := &domain.Notification{
		ID:        "caller-chosen",
		Message:   "m",
		Type:      domain.TypeSystem,
		Read:      true,
		CreatedAt: fixedNow.Add(-48 * time.Hour),
	}
	g.Expect(svc.Insert(context.Background(), n)).To(Succeed())
	g.Expect(n.ID).NotTo(Equal("caller-chosen"))
	g.Expect(n.Read).To(BeFalse())
	g.Expect(n.CreatedAt).To(Equal(fixedNow))
}

func TestQueriesHonourRetention(t *testing.T) {
	g := NewWithT(t)
	repo := &fakeRepo{}
	svc := newTestService(repo)
	ctx := context.Background()
	cutoff := fixedNow.Add(-30 * 24 * time.Hour)

	_, err := svc.FindRecent(ctx, domain.Filter{SellerID: "s1"}, fixedNow.Add(-40*24*time.Hour))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(repo.lastFrom).To(Equal(cutoff))

	since := fixedNow.Add(-6 * time.Hour)
	_, err = svc.FindRecent(ctx, domain.Filter{SellerID: "s1"}, since)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(repo.lastFrom).To(Equal(since))

	_, err = svc.ListLatest(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(repo.lastFrom).To(Equal(cutoff))
}

func TestListHighDemandFiltersType(t *testing.T) {
	g := NewWithT(t)
	repo := &fakeRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	g.Expect(svc.Insert(ctx, &domain.Notification{Message: "a", Type: domain.TypeSystem})).To(Succeed())
	g.Expect(svc.Insert(ctx, &domain.Notification{
		Message:    "b",
		Type:       domain.TypeHighDemand,
		DemandData: &domain.DemandData{SalesCount: 5, TimeFrame: domain.DefaultTimeFrame},
	})).To(Succeed())

	list, err := svc.ListHighDemand(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(list).To(HaveLen(1))
	g.Expect(list[0].Message).To(Equal("b"))
}

func TestPurgeExpiredUsesRetentionCutoff(t *testing.T) {
	g := NewWithT(t)
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.PurgeExpired(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(repo.cutoff).To(Equal(fixedNow.Add(-30 * 24 * time.Hour)))
}

func TestRetentionJobSweepsOnStart(t *testing.T) {
	g := NewWithT(t)
	repo := &fakeRepo{}
	svc := newTestService(repo)
	job := NewRetentionJob(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	g.Eventually(func() int {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.purged
	}).Should(Equal(1))
	cancel()
	g.Eventually(done).Should(BeClosed())
}
