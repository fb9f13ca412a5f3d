package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestLocalRateLimiterBurstThenRefill(t *testing.T) {
	g := NewWithT(t)
	l := NewLocalRateLimiter()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()
	limit := PerSecond(1, 2)

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "ip", limit)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(res.Allowed).To(BeTrue())
	}
	res, _ := l.Allow(ctx, "ip", limit)
	g.Expect(res.Allowed).To(BeFalse())
	g.Expect(res.RetryAfter).To(BeNumerically(">", 0))

	other, _ := l.Allow(ctx, "other-ip", limit)
	g.Expect(other.Allowed).To(BeTrue())

	now = now.Add(time.Second)
	res, _ = l.Allow(ctx, "ip", limit)
	g.Expect(res.Allowed).To(BeTrue())
}

func TestLocalRateLimiterRejectsInvalidLimit(t *testing.T) {
	g := NewWithT(t)
	_, err := NewLocalRateLimiter().Allow(context.Background(), "k", Limit{})
	g.Expect(err).To(HaveOccurred())
}

func tracked(l *LocalRateLimiter) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func TestLocalRateLimiterEvictsIdleKeys(t *testing.T) {
	g := NewWithT(t)
	l := NewLocalRateLimiterWithTTL(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()
	limit := PerSecond(5, 5)

	for i := 0; i < 1000; i++ {
		_, err := l.Allow(ctx, fmt.Sprintf("10.0.%d.%d", i/256, i%256), limit)
		g.Expect(err).NotTo(HaveOccurred())
	}
	g.Expect(tracked(l)).To(Equal(1000))

	now = now.Add(24 * time.Hour)
	res, err := l.Allow(ctx, "fresh", limit)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Allowed).To(BeTrue())
	g.Expect(tracked(l)).To(Equal(1))
}

func TestLocalRateLimiterKeepsActiveKeys(t *testing.T) {
	g := NewWithT(t)
	l := NewLocalRateLimiterWithTTL(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()
	limit := PerSecond(1, 1)

	res, _ := l.Allow(ctx, "busy", limit)
	g.Expect(res.Allowed).To(BeTrue())
	_, _ = l.Allow(ctx, "idle", limit)

	now = now.Add(45 * time.Second)
	_, _ = l.Allow(ctx, "busy", limit)
	now = now.Add(30 * time.Second)
	_, _ = l.Allow(ctx, "busy", limit)

	g.Expect(tracked(l)).To(Equal(1))
	res, _ = l.Allow(ctx, "busy", limit)
	g.Expect(res.Allowed).To(BeFalse())
}
