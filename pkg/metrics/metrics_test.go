package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordersUpdateCollectors(t *testing.T) {
	g := NewWithT(t)
	m := New("storefront")

	m.ObserveHTTP("GET", "/api/notifications", 200, 10*time.Millisecond)
	m.ObserveCycle("ok", time.Second)
	m.NotificationCreated("high_demand")
	m.NotificationCreated("high_demand")
	m.NotificationSuppressed("category")
	m.NotificationsPurgedAdd(3)
	m.NotificationsPurgedAdd(0)

	g.Expect(testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/notifications", "200"))).To(Equal(1.0))
	g.Expect(testutil.ToFloat64(m.DemandCyclesTotal.WithLabelValues("ok"))).To(Equal(1.0))
	g.Expect(testutil.ToFloat64(m.NotificationsCreated.WithLabelValues("high_demand"))).To(Equal(2.0))
	g.Expect(testutil.ToFloat64(m.NotificationsSuppressed.WithLabelValues("category"))).To(Equal(1.0))
	g.Expect(testutil.ToFloat64(m.NotificationsPurged)).To(Equal(3.0))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	m.ObserveCycle("ok", time.Millisecond)
	m.NotificationCreated("system")
	m.NotificationSuppressed("product")
	m.NotificationsPurgedAdd(1)
}

func TestHandlerExposesNamespace(t *testing.T) {
	g := NewWithT(t)
	m := New("storefront")
	m.NotificationCreated("system")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	g.Expect(rec.Code).To(Equal(http.StatusOK))
	g.Expect(rec.Body.String()).To(ContainSubstring(`storefront_notification_created_total{type="system"} 1`))
}
