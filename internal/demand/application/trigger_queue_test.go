package application

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

type gatedChecker struct {
	mu    sync.Mutex
	calls int
	gate  chan struct{}
}

func (c *gatedChecker) TriggerCheck(context.Context) (CycleResult, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	<-c.gate
	return CycleResult{}, nil
}

func (c *gatedChecker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestTriggerQueueCoalesces(t *testing.T) {
	g := NewWithT(t)
	checker := &gatedChecker{gate: make(chan struct{})}
	q := NewTriggerQueue(checker, 0, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = q.Run(ctx)
		close(done)
	}()

	g.Expect(q.Enqueue("order o1")).To(BeTrue())
	g.Eventually(checker.count).Should(Equal(1))

	g.Expect(q.Enqueue("order o2")).To(BeTrue())
	g.Expect(q.Enqueue("order o3")).To(BeFalse())
	g.Expect(q.Enqueue("order o4")).To(BeFalse())

	close(checker.gate)
	g.Eventually(checker.count).Should(Equal(2))
	g.Consistently(checker.count, 50*time.Millisecond).Should(Equal(2))

	cancel()
	g.Eventually(done).Should(BeClosed())
}

func TestTriggerQueueWaitsForDelay(t *testing.T) {
	g := NewWithT(t)
	checker := &gatedChecker{gate: make(chan struct{})}
	close(checker.gate)
	q := NewTriggerQueue(checker, 30*time.Millisecond, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = q.Run(ctx) }()

	start := time.Now()
	q.Enqueue("order o1")
	g.Eventually(checker.count).Should(Equal(1))
	g.Expect(time.Since(start)).To(BeNumerically(">=", 30*time.Millisecond))
}

func TestTriggerQueueCancelDuringDelay(t *testing.T) {
	g := NewWithT(t)
	checker := &gatedChecker{gate: make(chan struct{})}
	q := NewTriggerQueue(checker, time.Hour, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = q.Run(ctx)
		close(done)
	}()
	q.Enqueue("order o1")
	cancel()

	g.Eventually(done).Should(BeClosed())
	g.Expect(checker.count()).To(BeZero())
}
