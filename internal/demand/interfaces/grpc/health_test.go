package grpc

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/wyfcoding/storefront/internal/demand/application"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type switchable struct {
	mu    sync.Mutex
	state application.State
}

func (s *switchable) State() application.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *switchable) set(st application.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

func status(g *WithT, h *health.Server) healthpb.HealthCheckResponse_ServingStatus {
	resp, err := h.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	g.Expect(err).NotTo(HaveOccurred())
	return resp.GetStatus()
}

func TestHealthFollowsTrackerState(t *testing.T) {
	g := NewWithT(t)
	h := health.NewServer()
	src := &switchable{state: application.StateRunning}
	r := NewHealthReporter(h, src, 5*time.Millisecond)

	r.Sync()
	g.Expect(status(g, h)).To(Equal(healthpb.HealthCheckResponse_SERVING))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = r.Run(ctx)
		close(done)
	}()

	src.set(application.StateStopped)
	g.Eventually(func() healthpb.HealthCheckResponse_ServingStatus { return status(g, h) }).
		Should(Equal(healthpb.HealthCheckResponse_NOT_SERVING))

	src.set(application.StateRunning)
	g.Eventually(func() healthpb.HealthCheckResponse_ServingStatus { return status(g, h) }).
		Should(Equal(healthpb.HealthCheckResponse_SERVING))

	cancel()
	g.Eventually(done).Should(BeClosed())
	g.Expect(status(g, h)).To(Equal(healthpb.HealthCheckResponse_NOT_SERVING))
}
