// Package grpc 通过 gRPC 健康检查服务暴露需求追踪器的运行状态。
package grpc

import (
	"context"
	"time"

	"github.com/wyfcoding/storefront/internal/demand/application"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName 健康检查中追踪器使用的服务名
const ServiceName = "storefront.demand.Tracker"

// StateSource 提供追踪器状态
type StateSource interface {
	State() application.State
}

// HealthReporter 把 running/stopped 映射为 SERVING/NOT_SERVING
type HealthReporter struct {
	health   *health.Server
	source   StateSource
	interval time.Duration
}

func NewHealthReporter(h *health.Server, source StateSource, interval time.Duration) *HealthReporter {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &HealthReporter{health: h, source: source, interval: interval}
}

// Sync 立即同步一次状态
func (r *HealthReporter) Sync() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if r.source.State() == application.StateRunning {
		status = healthpb.HealthCheckResponse_SERVING
	}
	r.health.SetServingStatus(ServiceName, status)
}

// Run 周期同步直到 ctx 取消，退出前标记为 NOT_SERVING
func (r *HealthReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.Sync()
	for {
		select {
		case <-ctx.Done():
			r.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
			return nil
		case <-ticker.C:
			r.Sync()
		}
	}
}
